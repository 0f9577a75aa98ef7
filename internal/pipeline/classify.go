package pipeline

import (
	"github.com/fieldlog/geoverify/internal/geo"
	"github.com/fieldlog/geoverify/internal/model"
	"github.com/fieldlog/geoverify/internal/registry"
)

// ClassifyRecords assigns a verification tier to every record, in input
// order. A record with no site, no coordinates, or a site unknown to the
// registry gets No Location/No Site with an absent distance; otherwise the
// distance to the site's reference coordinate decides the tier. Verified
// hours are derived here: full hours on Verified, zero otherwise — no
// partial credit.
func ClassifyRecords(records []model.Record, reg *registry.Registry, thresholds geo.Thresholds) []model.ClassifiedRecord {
	classified := make([]model.ClassifiedRecord, 0, len(records))

	for _, rec := range records {
		classified = append(classified, classifyRecord(rec, reg, thresholds))
	}

	return classified
}

func classifyRecord(rec model.Record, reg *registry.Registry, thresholds geo.Thresholds) model.ClassifiedRecord {
	cr := model.ClassifiedRecord{Record: rec, Status: model.StatusNoLocation}

	if !rec.HasSite() || !rec.HasLocation() {
		return cr
	}
	ref, ok := reg.Lookup(rec.SiteID)
	if !ok {
		return cr
	}

	d := geo.Distance(rec.Coord(), ref)
	cr.DistanceMeters = &d
	cr.Status = geo.Classify(d, thresholds)
	if cr.Status == model.StatusVerified {
		cr.VerifiedHours = rec.Hours
	}

	return cr
}
