// Package model defines the immutable value records that flow through the
// verification pipeline. Every entity is produced once per run and never
// mutated or shared across runs.
package model

import (
	"time"

	"github.com/twpayne/go-geom"
)

// Status is the verification tier assigned to a classified record.
type Status string

const (
	StatusVerified   Status = "Verified"
	StatusReview     Status = "Review"
	StatusOutOfRange Status = "Out of Range"
	StatusNoLocation Status = "No Location/No Site"
)

// RawRow is one untyped row from the attendance export, after column mapping
// but before any validation. Missing cells surface as empty strings.
type RawRow struct {
	Consent string
	// ConsentRecorded distinguishes "the export has no consent column" from
	// "this row left consent blank". Only the latter fails the consent check.
	ConsentRecorded bool
	SubmitterID     string
	SiteID          string
	Hours           string
	Latitude        string
	Longitude       string
	RecordedAt      string
}

// Record is a normalized, validated attendance submission. A Record exists
// only for rows with affirmative consent, parseable hours, and a parseable
// timestamp; everything else is filtered before reaching the pipeline.
type Record struct {
	SubmitterID string
	SiteID      string // empty = no site reported
	Hours       float64
	Latitude    *float64 // nil = no usable coordinate
	Longitude   *float64
	RecordedAt  time.Time
}

// HasSite reports whether the submission named a site.
func (r Record) HasSite() bool {
	return r.SiteID != ""
}

// HasLocation reports whether both coordinates were captured.
func (r Record) HasLocation() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Coord returns the submitted position as a lon/lat coordinate.
// Only valid when HasLocation is true.
func (r Record) Coord() geom.Coord {
	return geom.Coord{*r.Longitude, *r.Latitude}
}

// ClassifiedRecord is a Record plus its verification outcome.
type ClassifiedRecord struct {
	Record
	DistanceMeters *float64 // nil when site or coordinates were absent
	Status         Status
	VerifiedHours  float64 // Hours iff Status == StatusVerified, else 0
}

// SummaryRow aggregates one submitter's records.
type SummaryRow struct {
	SubmitterID        string
	TotalVerifiedHours float64
	VerifiedVisits     int
	// LastRecordedAt is the most recent submission regardless of status;
	// recency tracking is independent of verification.
	LastRecordedAt time.Time
}

// SiteSummaryRow aggregates one site's records. Records without a site are
// grouped under an empty SiteID.
type SiteSummaryRow struct {
	SiteID             string
	TotalVerifiedHours float64
	VerifiedVisits     int
	UniqueSubmitters   int
	AvgHoursPerVisit   float64 // 0 when VerifiedVisits == 0
}

// ReviewRow flags a submitter with at least one Review-status record.
type ReviewRow struct {
	SubmitterID  string
	ReviewCount  int
	TotalEntries int
}

// Result holds everything one pipeline run produces.
type Result struct {
	RunID        string
	Log          []ClassifiedRecord
	Submitters   []SummaryRow
	Sites        []SiteSummaryRow
	Review       []ReviewRow
	FilteredRows int // rows dropped by the normalizer; operational visibility only
}

// Table is an ordered, presentation-ready view: named columns and string
// rows. The exporters consume tables without knowing what they contain.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}
