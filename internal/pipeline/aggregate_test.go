package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldlog/geoverify/internal/model"
)

func classifiedRecord(submitter, site string, status model.Status, hours float64, recorded time.Time) model.ClassifiedRecord {
	cr := model.ClassifiedRecord{
		Record: model.Record{
			SubmitterID: submitter,
			SiteID:      site,
			Hours:       hours,
			RecordedAt:  recorded,
		},
		Status: status,
	}
	if status == model.StatusVerified {
		cr.VerifiedHours = hours
	}
	return cr
}

var (
	day1 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	day3 = time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
)

func TestSummarizeSubmitters(t *testing.T) {
	log := []model.ClassifiedRecord{
		classifiedRecord("S1", "SchoolX", model.StatusVerified, 1.5, day1),
		classifiedRecord("S1", "SchoolX", model.StatusOutOfRange, 2.0, day2),
	}

	rows := SummarizeSubmitters(log)
	require.Len(t, rows, 1)

	assert.Equal(t, "S1", rows[0].SubmitterID)
	assert.InDelta(t, 1.5, rows[0].TotalVerifiedHours, 1e-9)
	assert.Equal(t, 1, rows[0].VerifiedVisits)
	assert.Equal(t, day2, rows[0].LastRecordedAt, "recency counts non-verified records")
}

func TestSummarizeSubmittersZeroVerified(t *testing.T) {
	log := []model.ClassifiedRecord{
		classifiedRecord("S2", "SchoolX", model.StatusReview, 3, day1),
		classifiedRecord("S2", "", model.StatusNoLocation, 1, day3),
	}

	rows := SummarizeSubmitters(log)
	require.Len(t, rows, 1)

	assert.Zero(t, rows[0].TotalVerifiedHours)
	assert.Zero(t, rows[0].VerifiedVisits)
	assert.Equal(t, day3, rows[0].LastRecordedAt)
}

func TestSummarizeSubmittersFirstAppearanceOrder(t *testing.T) {
	log := []model.ClassifiedRecord{
		classifiedRecord("B", "SchoolX", model.StatusVerified, 1, day1),
		classifiedRecord("A", "SchoolX", model.StatusVerified, 1, day1),
		classifiedRecord("B", "SchoolX", model.StatusVerified, 1, day2),
	}

	rows := SummarizeSubmitters(log)
	require.Len(t, rows, 2)
	assert.Equal(t, "B", rows[0].SubmitterID)
	assert.Equal(t, "A", rows[1].SubmitterID)
	assert.InDelta(t, 2.0, rows[0].TotalVerifiedHours, 1e-9)
}

func TestSummarizeSites(t *testing.T) {
	log := []model.ClassifiedRecord{
		classifiedRecord("A", "SchoolX", model.StatusVerified, 2, day1),
		classifiedRecord("B", "SchoolX", model.StatusVerified, 4, day1),
		classifiedRecord("A", "SchoolX", model.StatusReview, 3, day2),
		classifiedRecord("C", "ClinicY", model.StatusOutOfRange, 1, day1),
	}

	rows := SummarizeSites(log)
	require.Len(t, rows, 2)

	schoolX := rows[0]
	assert.Equal(t, "SchoolX", schoolX.SiteID)
	assert.InDelta(t, 6.0, schoolX.TotalVerifiedHours, 1e-9)
	assert.Equal(t, 2, schoolX.VerifiedVisits)
	assert.Equal(t, 2, schoolX.UniqueSubmitters)
	assert.InDelta(t, 3.0, schoolX.AvgHoursPerVisit, 1e-9)

	clinicY := rows[1]
	assert.Zero(t, clinicY.TotalVerifiedHours)
	assert.Zero(t, clinicY.AvgHoursPerVisit, "no divide by zero")
	assert.Equal(t, 1, clinicY.UniqueSubmitters)
}

func TestSummarizeSitesGroupsAbsentSite(t *testing.T) {
	log := []model.ClassifiedRecord{
		classifiedRecord("A", "", model.StatusNoLocation, 2, day1),
		classifiedRecord("B", "", model.StatusNoLocation, 1, day1),
	}

	rows := SummarizeSites(log)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].SiteID)
	assert.Equal(t, 2, rows[0].UniqueSubmitters)
}

func TestSummarizeReview(t *testing.T) {
	log := []model.ClassifiedRecord{
		classifiedRecord("A", "SchoolX", model.StatusVerified, 1, day1),
		classifiedRecord("B", "SchoolX", model.StatusReview, 1, day1),
		classifiedRecord("B", "SchoolX", model.StatusReview, 1, day2),
		classifiedRecord("C", "SchoolX", model.StatusReview, 1, day1),
		classifiedRecord("C", "SchoolX", model.StatusVerified, 1, day2),
	}

	rows := SummarizeReview(log)
	require.Len(t, rows, 2, "only submitters with review entries are flagged")

	assert.Equal(t, "B", rows[0].SubmitterID)
	assert.Equal(t, 2, rows[0].ReviewCount)
	assert.Equal(t, 2, rows[0].TotalEntries)

	assert.Equal(t, "C", rows[1].SubmitterID)
	assert.Equal(t, 1, rows[1].ReviewCount)
	assert.Equal(t, 2, rows[1].TotalEntries)
}

func TestSummarizeEmptyLog(t *testing.T) {
	assert.Empty(t, SummarizeSubmitters(nil))
	assert.Empty(t, SummarizeSites(nil))
	assert.Empty(t, SummarizeReview(nil))
}
