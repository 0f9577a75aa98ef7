package export

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/fieldlog/geoverify/internal/model"
)

// WriteCSVDir writes each table as <dir>/<Table.Name>.csv, creating dir if
// needed. CSV output loses the single-file grouping of the workbook, so one
// file per table keeps the sheets distinguishable.
func WriteCSVDir(tables []model.Table, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "export: create directory %s", dir)
	}

	for _, table := range tables {
		path := filepath.Join(dir, table.Name+".csv")
		if err := writeCSV(table, path); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(table model.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create file %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(table.Columns); err != nil {
		return eris.Wrapf(err, "export: write header for %s", table.Name)
	}
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "export: write row for %s", table.Name)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "export: flush %s", table.Name)
	}
	return nil
}
