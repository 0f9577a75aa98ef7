package pipeline

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldlog/geoverify/internal/geo"
	"github.com/fieldlog/geoverify/internal/model"
	"github.com/fieldlog/geoverify/internal/registry"
)

// Pipeline runs the verification passes over one export batch. It holds only
// process-lifetime, read-only state: the site registry and configuration.
// Each Run is an independent, deterministic transform of its input.
type Pipeline struct {
	registry        *registry.Registry
	thresholds      geo.Thresholds
	consentAccepted string
}

// New creates a Pipeline with an injected site registry and thresholds.
func New(reg *registry.Registry, thresholds geo.Thresholds, consentAccepted string) *Pipeline {
	return &Pipeline{
		registry:        reg,
		thresholds:      thresholds,
		consentAccepted: consentAccepted,
	}
}

// Run executes one complete pass: normalize, classify, aggregate. The input
// is already column-mapped; structural defects were rejected upstream.
// Row-level defects never surface as errors, so Run cannot fail.
func (p *Pipeline) Run(rows []model.RawRow) *model.Result {
	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID))

	records, filtered := Normalize(rows, p.consentAccepted)
	log.Info("pipeline: normalized",
		zap.Int("rows_in", len(rows)),
		zap.Int("records", len(records)),
		zap.Int("filtered", filtered),
	)

	classified := ClassifyRecords(records, p.registry, p.thresholds)

	var verified int
	for _, rec := range classified {
		if rec.Status == model.StatusVerified {
			verified++
		}
	}
	log.Info("pipeline: classified",
		zap.Int("verified", verified),
		zap.Int("total", len(classified)),
	)

	result := &model.Result{
		RunID:        runID,
		Log:          classified,
		Submitters:   SummarizeSubmitters(classified),
		Sites:        SummarizeSites(classified),
		Review:       SummarizeReview(classified),
		FilteredRows: filtered,
	}

	log.Info("pipeline: aggregated",
		zap.Int("submitters", len(result.Submitters)),
		zap.Int("sites", len(result.Sites)),
		zap.Int("review_flagged", len(result.Review)),
	)

	return result
}
