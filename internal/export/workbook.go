package export

import (
	"bytes"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/fieldlog/geoverify/internal/model"
)

// WriteWorkbook writes one sheet per table to an xlsx file at path,
// preserving table order.
func WriteWorkbook(tables []model.Table, path string) error {
	f, err := buildWorkbook(tables)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save workbook %s", path)
	}
	return nil
}

// WorkbookBytes renders the tables as an in-memory xlsx document. Used by
// the HTTP server, which streams the workbook instead of touching disk.
func WorkbookBytes(tables []model.Table) ([]byte, error) {
	f, err := buildWorkbook(tables)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "export: serialize workbook")
	}
	return buf.Bytes(), nil
}

func buildWorkbook(tables []model.Table) (*xlsx.File, error) {
	f := xlsx.NewFile()

	for _, table := range tables {
		sheet, err := f.AddSheet(table.Name)
		if err != nil {
			return nil, eris.Wrapf(err, "export: add sheet %s", table.Name)
		}

		header := sheet.AddRow()
		for _, col := range table.Columns {
			header.AddCell().SetString(col)
		}

		for _, row := range table.Rows {
			r := sheet.AddRow()
			for _, cell := range row {
				r.AddCell().SetString(cell)
			}
		}
	}
	return f, nil
}
