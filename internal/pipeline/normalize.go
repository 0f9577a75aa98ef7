// Package pipeline implements the verification passes over one attendance
// export batch: normalization, proximity classification, aggregation, and
// report assembly.
package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/fieldlog/geoverify/internal/model"
)

// timestampLayouts are tried in order when parsing recorded-at values.
// The first entry matches Qualtrics exports.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"2006-01-02",
}

// Normalize converts raw export rows into canonical records, preserving
// input order. Rows are silently dropped when consent is not the accepted
// value, hours are not a non-negative number, or the timestamp is
// unparseable — such rows are not verification subjects, not pipeline
// faults. This also swallows a lingering question-text header row, whose
// hours cell is prose. Coordinate parse failures do NOT drop the row;
// absence is meaningful downstream. The second return value counts dropped
// rows for operational visibility.
func Normalize(rows []model.RawRow, consentAccepted string) ([]model.Record, int) {
	records := make([]model.Record, 0, len(rows))
	var filtered int

	for _, row := range rows {
		rec, ok := normalizeRow(row, consentAccepted)
		if !ok {
			filtered++
			continue
		}
		records = append(records, rec)
	}

	return records, filtered
}

func normalizeRow(row model.RawRow, consentAccepted string) (model.Record, bool) {
	// Consent must equal the single accepted affirmative value. Exports
	// without a consent column record no consent at all, and their rows pass.
	if row.ConsentRecorded && strings.TrimSpace(row.Consent) != consentAccepted {
		return model.Record{}, false
	}

	submitterID := strings.TrimSpace(row.SubmitterID)
	if submitterID == "" {
		return model.Record{}, false
	}

	hours, err := strconv.ParseFloat(strings.TrimSpace(row.Hours), 64)
	if err != nil || hours < 0 {
		return model.Record{}, false
	}

	recordedAt, ok := parseTimestamp(row.RecordedAt)
	if !ok {
		return model.Record{}, false
	}

	return model.Record{
		SubmitterID: submitterID,
		SiteID:      strings.TrimSpace(row.SiteID),
		Hours:       hours,
		Latitude:    parseCoord(row.Latitude),
		Longitude:   parseCoord(row.Longitude),
		RecordedAt:  recordedAt,
	}, true
}

// parseCoord parses a coordinate cell, returning nil for anything that is
// not a number.
func parseCoord(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
