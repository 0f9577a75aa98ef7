package input

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/fieldlog/geoverify/internal/config"
	"github.com/fieldlog/geoverify/internal/model"
)

// Columns holds resolved column positions for each record field.
// Optional columns that are absent from the file are -1.
type Columns struct {
	Consent   int
	Submitter int
	Site      int
	Hours     int
	Latitude  int
	Longitude int
	Recorded  int
}

// MapColumns resolves configured column names against the export header.
// A missing required column is a structural defect: the whole run fails here,
// before any row-level processing. Consent is the one optional column; when
// it is absent every row passes the consent check.
func MapColumns(header []string, names config.ColumnsConfig) (Columns, error) {
	find := func(name string) int {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}

	cols := Columns{
		Consent:   find(names.Consent),
		Submitter: find(names.Submitter),
		Site:      find(names.Site),
		Hours:     find(names.Hours),
		Latitude:  find(names.Latitude),
		Longitude: find(names.Longitude),
		Recorded:  find(names.Recorded),
	}

	var missing []string
	for _, req := range []struct {
		name string
		idx  int
	}{
		{names.Submitter, cols.Submitter},
		{names.Site, cols.Site},
		{names.Hours, cols.Hours},
		{names.Latitude, cols.Latitude},
		{names.Longitude, cols.Longitude},
		{names.Recorded, cols.Recorded},
	} {
		if req.idx < 0 {
			missing = append(missing, req.name)
		}
	}
	if len(missing) > 0 {
		return Columns{}, eris.Errorf("input: export missing expected columns: %s", strings.Join(missing, ", "))
	}

	return cols, nil
}

// Parse maps a whole table (header row first) onto raw pipeline rows.
// It fails fast on empty input or missing required columns.
func Parse(rows [][]string, names config.ColumnsConfig) ([]model.RawRow, error) {
	if len(rows) == 0 {
		return nil, eris.New("input: export is empty")
	}

	cols, err := MapColumns(rows[0], names)
	if err != nil {
		return nil, err
	}

	raw := make([]model.RawRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		raw = append(raw, model.RawRow{
			Consent:         cell(row, cols.Consent),
			ConsentRecorded: cols.Consent >= 0,
			SubmitterID:     cell(row, cols.Submitter),
			SiteID:          cell(row, cols.Site),
			Hours:           cell(row, cols.Hours),
			Latitude:        cell(row, cols.Latitude),
			Longitude:       cell(row, cols.Longitude),
			RecordedAt:      cell(row, cols.Recorded),
		})
	}
	return raw, nil
}

// cell returns row[idx], tolerating short rows and absent columns.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
