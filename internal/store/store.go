// Package store persists reviews, KPI inputs, and derived scores behind a
// backend-neutral interface.
package store

import (
	"context"

	"github.com/stratiq/diagnostic-cli/internal/model"
)

// Store defines the persistence interface for the diagnostic pipeline.
// Derived scores are saved for audit convenience only; the pipeline always
// recomputes from inputs.
type Store interface {
	// Reviews
	CreateReview(ctx context.Context, companyName, industry string) (*model.Review, error)
	GetReview(ctx context.Context, reviewID string) (*model.Review, error)
	ListReviews(ctx context.Context, limit int) ([]model.Review, error)

	// KPI inputs. SaveKPIValue overwrites any prior value for the
	// (review, kpi) pair.
	SaveKPIValue(ctx context.Context, reviewID, kpiID string, value float64) error
	SaveKPIValues(ctx context.Context, reviewID string, values map[string]float64) error
	GetKPIInputs(ctx context.Context, reviewID string) (map[string]float64, error)

	// Derived scores
	SaveScores(ctx context.Context, reviewID string, records []model.ScoreRecord) error
	GetScores(ctx context.Context, reviewID string) ([]model.ScoreRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
