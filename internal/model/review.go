package model

import "time"

// Review is one assessment snapshot for a company at a point in time, the
// unit of work for the diagnostic pipeline.
type Review struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"company_name"`
	Industry    string    `json:"industry"`
	CreatedAt   time.Time `json:"created_at"`
}

// KPIInput is a single raw measurement entered for a review. One input per
// (review, kpi) pair; re-entry overwrites.
type KPIInput struct {
	ReviewID string  `json:"review_id"`
	KPIID    string  `json:"kpi_id"`
	Value    float64 `json:"value"`
}
