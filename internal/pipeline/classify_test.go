package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldlog/geoverify/internal/geo"
	"github.com/fieldlog/geoverify/internal/model"
	"github.com/fieldlog/geoverify/internal/registry"
)

var schoolX = registry.Site{Name: "SchoolX", Latitude: 30.2672, Longitude: -97.7431}

func testRegistry() *registry.Registry {
	return registry.New([]registry.Site{schoolX})
}

func ptr(v float64) *float64 { return &v }

func record(overrides func(*model.Record)) model.Record {
	rec := model.Record{
		SubmitterID: "A",
		SiteID:      "SchoolX",
		Hours:       2,
		Latitude:    ptr(schoolX.Latitude),
		Longitude:   ptr(schoolX.Longitude),
		RecordedAt:  time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}
	if overrides != nil {
		overrides(&rec)
	}
	return rec
}

func TestClassifyRecordsAtSite(t *testing.T) {
	out := ClassifyRecords([]model.Record{record(nil)}, testRegistry(), geo.DefaultThresholds())

	require.Len(t, out, 1)
	assert.Equal(t, model.StatusVerified, out[0].Status)
	require.NotNil(t, out[0].DistanceMeters)
	assert.InDelta(t, 0, *out[0].DistanceMeters, 0.001)
	assert.InDelta(t, 2.0, out[0].VerifiedHours, 1e-9)
}

func TestClassifyRecordsReviewBand(t *testing.T) {
	// ~250m north of the site: 0.00225 degrees of latitude.
	rec := record(func(r *model.Record) { r.Latitude = ptr(schoolX.Latitude + 0.00225) })

	out := ClassifyRecords([]model.Record{rec}, testRegistry(), geo.DefaultThresholds())

	require.Len(t, out, 1)
	assert.Equal(t, model.StatusReview, out[0].Status)
	require.NotNil(t, out[0].DistanceMeters)
	assert.InDelta(t, 250, *out[0].DistanceMeters, 10)
	assert.Zero(t, out[0].VerifiedHours)
}

func TestClassifyRecordsOutOfRange(t *testing.T) {
	// ~1.1km north of the site.
	rec := record(func(r *model.Record) { r.Latitude = ptr(schoolX.Latitude + 0.01) })

	out := ClassifyRecords([]model.Record{rec}, testRegistry(), geo.DefaultThresholds())

	require.Len(t, out, 1)
	assert.Equal(t, model.StatusOutOfRange, out[0].Status)
	assert.Zero(t, out[0].VerifiedHours)
}

func TestClassifyRecordsNoLocationOrSite(t *testing.T) {
	tests := []struct {
		name string
		rec  model.Record
	}{
		{"site absent with coordinates", record(func(r *model.Record) { r.SiteID = "" })},
		{"site absent without coordinates", record(func(r *model.Record) { r.SiteID = ""; r.Latitude = nil; r.Longitude = nil })},
		{"coordinates absent", record(func(r *model.Record) { r.Latitude = nil; r.Longitude = nil })},
		{"latitude only", record(func(r *model.Record) { r.Longitude = nil })},
		{"unknown site", record(func(r *model.Record) { r.SiteID = "SchoolZ" })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ClassifyRecords([]model.Record{tt.rec}, testRegistry(), geo.DefaultThresholds())
			require.Len(t, out, 1)
			assert.Equal(t, model.StatusNoLocation, out[0].Status)
			assert.Nil(t, out[0].DistanceMeters)
			assert.Zero(t, out[0].VerifiedHours)
		})
	}
}

func TestClassifyRecordsSiteNameVariance(t *testing.T) {
	rec := record(func(r *model.Record) { r.SiteID = "schoolx" })

	out := ClassifyRecords([]model.Record{rec}, testRegistry(), geo.DefaultThresholds())

	require.Len(t, out, 1)
	assert.Equal(t, model.StatusVerified, out[0].Status)
}

func TestVerifiedHoursNonZeroOnlyWhenVerified(t *testing.T) {
	records := []model.Record{
		record(nil), // verified
		record(func(r *model.Record) { r.Latitude = ptr(schoolX.Latitude + 0.00225) }), // review
		record(func(r *model.Record) { r.Latitude = ptr(schoolX.Latitude + 0.01) }),    // out of range
		record(func(r *model.Record) { r.SiteID = "" }),                                // no site
	}

	for _, cr := range ClassifyRecords(records, testRegistry(), geo.DefaultThresholds()) {
		if cr.Status == model.StatusVerified {
			assert.Positive(t, cr.VerifiedHours)
		} else {
			assert.Zero(t, cr.VerifiedHours)
		}
	}
}
