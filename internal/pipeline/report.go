package pipeline

import (
	"strconv"

	"github.com/fieldlog/geoverify/internal/model"
)

// Sheet names consumed by the exporters.
const (
	TableLog       = "Attendance_Log"
	TableSubmitter = "Student_Summary"
	TableSite      = "Site_Summary"
	TableReview    = "Review_Flags"
)

const timestampFormat = "2006-01-02 15:04:05"

// BuildTables shapes a pipeline result into ordered presentation tables:
// the full classified log (original input order) followed by the summaries.
// Pure reshaping — no business logic.
func BuildTables(res *model.Result) []model.Table {
	return []model.Table{
		logTable(res.Log),
		submitterTable(res.Submitters),
		siteTable(res.Sites),
		reviewTable(res.Review),
	}
}

func logTable(log []model.ClassifiedRecord) model.Table {
	t := model.Table{
		Name: TableLog,
		Columns: []string{
			"Student_ID", "Site_Name", "Recorded_Date", "Logged_Hours",
			"Latitude", "Longitude", "Distance_From_Site_m",
			"Verification_Status", "Verified_Hours",
		},
	}

	for _, rec := range log {
		t.Rows = append(t.Rows, []string{
			rec.SubmitterID,
			rec.SiteID,
			rec.RecordedAt.Format(timestampFormat),
			formatHours(rec.Hours),
			formatCoord(rec.Latitude),
			formatCoord(rec.Longitude),
			formatDistance(rec.DistanceMeters),
			string(rec.Status),
			formatHours(rec.VerifiedHours),
		})
	}
	return t
}

func submitterTable(rows []model.SummaryRow) model.Table {
	t := model.Table{
		Name:    TableSubmitter,
		Columns: []string{"Student_ID", "Total_Verified_Hours", "Verified_Visits", "Last_Recorded_Date"},
	}

	for _, row := range rows {
		t.Rows = append(t.Rows, []string{
			row.SubmitterID,
			formatHours(row.TotalVerifiedHours),
			strconv.Itoa(row.VerifiedVisits),
			row.LastRecordedAt.Format(timestampFormat),
		})
	}
	return t
}

func siteTable(rows []model.SiteSummaryRow) model.Table {
	t := model.Table{
		Name:    TableSite,
		Columns: []string{"Site_Name", "Total_Verified_Hours", "Verified_Visits", "Unique_Students", "Avg_Hours_Per_Visit"},
	}

	for _, row := range rows {
		t.Rows = append(t.Rows, []string{
			row.SiteID,
			formatHours(row.TotalVerifiedHours),
			strconv.Itoa(row.VerifiedVisits),
			strconv.Itoa(row.UniqueSubmitters),
			strconv.FormatFloat(row.AvgHoursPerVisit, 'f', 2, 64),
		})
	}
	return t
}

func reviewTable(rows []model.ReviewRow) model.Table {
	t := model.Table{
		Name:    TableReview,
		Columns: []string{"Student_ID", "Review_Count", "Total_Entries"},
	}

	for _, row := range rows {
		t.Rows = append(t.Rows, []string{
			row.SubmitterID,
			strconv.Itoa(row.ReviewCount),
			strconv.Itoa(row.TotalEntries),
		})
	}
	return t
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatDistance(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}
