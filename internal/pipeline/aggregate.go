package pipeline

import (
	"sort"

	"github.com/fieldlog/geoverify/internal/model"
)

// SummarizeSubmitters reduces classified records into one row per distinct
// submitter, in first-appearance order. A submitter with zero verified
// records still appears, with their most recent submission taken across ALL
// records — recency is independent of verification status.
func SummarizeSubmitters(log []model.ClassifiedRecord) []model.SummaryRow {
	index := make(map[string]int)
	var rows []model.SummaryRow

	for _, rec := range log {
		i, seen := index[rec.SubmitterID]
		if !seen {
			i = len(rows)
			index[rec.SubmitterID] = i
			rows = append(rows, model.SummaryRow{SubmitterID: rec.SubmitterID})
		}

		rows[i].TotalVerifiedHours += rec.VerifiedHours
		if rec.Status == model.StatusVerified {
			rows[i].VerifiedVisits++
		}
		if rec.RecordedAt.After(rows[i].LastRecordedAt) {
			rows[i].LastRecordedAt = rec.RecordedAt
		}
	}

	return rows
}

// SummarizeSites reduces classified records into one row per distinct site,
// in first-appearance order. Records without a site group under an empty
// site label. Average hours per visit is over verified visits only, zero
// when there are none.
func SummarizeSites(log []model.ClassifiedRecord) []model.SiteSummaryRow {
	index := make(map[string]int)
	submitters := make(map[string]map[string]struct{})
	var rows []model.SiteSummaryRow

	for _, rec := range log {
		i, seen := index[rec.SiteID]
		if !seen {
			i = len(rows)
			index[rec.SiteID] = i
			submitters[rec.SiteID] = make(map[string]struct{})
			rows = append(rows, model.SiteSummaryRow{SiteID: rec.SiteID})
		}

		rows[i].TotalVerifiedHours += rec.VerifiedHours
		if rec.Status == model.StatusVerified {
			rows[i].VerifiedVisits++
		}
		submitters[rec.SiteID][rec.SubmitterID] = struct{}{}
	}

	for i := range rows {
		rows[i].UniqueSubmitters = len(submitters[rows[i].SiteID])
		if rows[i].VerifiedVisits > 0 {
			rows[i].AvgHoursPerVisit = rows[i].TotalVerifiedHours / float64(rows[i].VerifiedVisits)
		}
	}

	return rows
}

// SummarizeReview flags submitters holding at least one Review-status
// record, ordered by review count descending (ties by first appearance).
func SummarizeReview(log []model.ClassifiedRecord) []model.ReviewRow {
	index := make(map[string]int)
	var rows []model.ReviewRow

	for _, rec := range log {
		i, seen := index[rec.SubmitterID]
		if !seen {
			i = len(rows)
			index[rec.SubmitterID] = i
			rows = append(rows, model.ReviewRow{SubmitterID: rec.SubmitterID})
		}

		rows[i].TotalEntries++
		if rec.Status == model.StatusReview {
			rows[i].ReviewCount++
		}
	}

	flagged := rows[:0]
	for _, row := range rows {
		if row.ReviewCount > 0 {
			flagged = append(flagged, row)
		}
	}

	sort.SliceStable(flagged, func(i, j int) bool {
		return flagged[i].ReviewCount > flagged[j].ReviewCount
	})

	return flagged
}
