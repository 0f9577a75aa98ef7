// Package input reads tabular attendance exports (CSV or XLSX) and maps
// their columns onto raw pipeline rows.
package input

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadTable reads a CSV or XLSX file into string rows, dispatching on the
// file extension. All cells are whitespace-trimmed.
func ReadTable(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		f, err := xlsx.OpenFile(path)
		if err != nil {
			return nil, eris.Wrap(err, "input: open xlsx")
		}
		return sheetRows(f)
	case ".csv", ".txt", ".tsv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "input: open csv")
		}
		defer f.Close() //nolint:errcheck
		return readCSV(f, delimiterForExt(path))
	default:
		return nil, eris.Errorf("input: unsupported file type %q", filepath.Ext(path))
	}
}

// ReadTableBytes reads an in-memory upload. The name is used only for
// format dispatch.
func ReadTableBytes(name string, data []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		f, err := xlsx.OpenBinary(data)
		if err != nil {
			return nil, eris.Wrap(err, "input: open xlsx upload")
		}
		return sheetRows(f)
	case ".csv", ".txt", ".tsv":
		return readCSV(bytes.NewReader(data), delimiterForExt(name))
	default:
		return nil, eris.Errorf("input: unsupported file type %q", filepath.Ext(name))
	}
}

func delimiterForExt(name string) rune {
	if strings.EqualFold(filepath.Ext(name), ".tsv") {
		return '\t'
	}
	return ','
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "input: read csv row")
		}
		for i, field := range record {
			record[i] = strings.TrimSpace(field)
		}
		rows = append(rows, record)
	}
}

// sheetRows flattens the first sheet of a workbook into trimmed string rows.
func sheetRows(f *xlsx.File) ([][]string, error) {
	if len(f.Sheets) == 0 {
		return nil, eris.New("input: workbook has no sheets")
	}

	sheet := f.Sheets[0]
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = strings.TrimSpace(cell.String())
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
