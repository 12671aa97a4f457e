// Package report orchestrates the scoring, benchmarking, SWOT,
// recommendation, and narrative stages into one immutable report payload.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/stratiq/diagnostic-cli/internal/benchmark"
	"github.com/stratiq/diagnostic-cli/internal/model"
	"github.com/stratiq/diagnostic-cli/internal/narrative"
	"github.com/stratiq/diagnostic-cli/internal/recommend"
	"github.com/stratiq/diagnostic-cli/internal/scoring"
	"github.com/stratiq/diagnostic-cli/internal/store"
	"github.com/stratiq/diagnostic-cli/internal/swot"
)

// Payload metadata constants.
const (
	Version = "1.0"
	Engine  = "stratiq-diagnostic"
)

// Assembler runs the full diagnostic pipeline for one review. It holds only
// read-only collaborators, so concurrent Assemble calls for different
// reviews are safe.
type Assembler struct {
	store      store.Store
	engine     *scoring.Engine
	comparator *benchmark.Comparator

	// PersistScores saves the derived score records back to the store after
	// each assembly. Audit convenience only; inputs stay the source of truth.
	PersistScores bool
}

// NewAssembler wires the pipeline stages together.
func NewAssembler(st store.Store, engine *scoring.Engine, comparator *benchmark.Comparator) *Assembler {
	return &Assembler{store: st, engine: engine, comparator: comparator}
}

// Assemble builds the report payload for the given review. Fails with
// model.ErrInvalidReview when the review does not exist and model.ErrNoData
// when it has no KPI inputs; both propagate unmodified. The returned payload
// is never mutated after this call.
func (a *Assembler) Assemble(ctx context.Context, reviewID string) (*model.ReportPayload, error) {
	review, err := a.store.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	inputs, err := a.store.GetKPIInputs(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, eris.Wrapf(model.ErrNoData, "report: review %s", reviewID)
	}

	records, pillars, bhi := a.engine.ComputeScores(inputs)
	benchmarks := a.comparator.Compare(records, review.Industry)
	s := swot.Derive(records, benchmarks)
	recommendations := recommend.Recommend(s)

	payload := &model.ReportPayload{
		CompanyInfo: model.CompanyInfo{
			ReviewID:    review.ID,
			CompanyName: review.CompanyName,
			Industry:    review.Industry,
			CreatedAt:   review.CreatedAt,
		},
		KPIInputs:       inputs,
		Scores:          records,
		Pillars:         pillars,
		BHI:             bhi,
		Benchmarks:      benchmarks,
		SWOT:            s,
		Recommendations: recommendations,
		Meta: model.ReportMeta{
			ReportID:    uuid.New().String(),
			GeneratedAt: time.Now().UTC(),
			Version:     Version,
			Engine:      Engine,
		},
	}

	if a.PersistScores {
		if err := a.store.SaveScores(ctx, reviewID, records); err != nil {
			// Persistence of derived scores is best-effort; the payload is
			// already complete and deterministic.
			zap.L().Warn("report: persist scores failed",
				zap.String("review_id", reviewID),
				zap.Error(err),
			)
		}
	}

	zap.L().Info("report: assembled",
		zap.String("review_id", reviewID),
		zap.Int("kpis_scored", len(records)),
		zap.Float64("bhi", bhi),
	)

	return payload, nil
}

// AssembleWithNarrative runs Assemble and renders the deterministic
// executive narrative alongside the payload.
func (a *Assembler) AssembleWithNarrative(ctx context.Context, reviewID string) (*model.ReportPayload, model.Narrative, error) {
	payload, err := a.Assemble(ctx, reviewID)
	if err != nil {
		return nil, model.Narrative{}, err
	}
	n := narrative.Summarize(
		payload.CompanyInfo.CompanyName,
		payload.CompanyInfo.Industry,
		payload.BHI,
		payload.SWOT,
	)
	return payload, n, nil
}
