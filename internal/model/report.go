package model

import "time"

// Benchmark row status values.
const (
	StatusAbove = "Above"
	StatusAt    = "At"
	StatusBelow = "Below"
)

// BenchmarkRow compares one KPI score against its industry reference median.
type BenchmarkRow struct {
	KPIID     string  `json:"kpi_id"`
	Score     float64 `json:"score"`
	Benchmark float64 `json:"benchmark"`
	Gap       float64 `json:"gap"`
	Status    string  `json:"status"`
}

// SWOT classifies scored KPIs and benchmark gaps into the four buckets.
// A KPI may appear in more than one bucket; duplicates are intentional.
type SWOT struct {
	Strengths     []string `json:"Strengths"`
	Weaknesses    []string `json:"Weaknesses"`
	Opportunities []string `json:"Opportunities"`
	Threats       []string `json:"Threats"`
}

// Empty reports whether no bucket holds any item.
func (s SWOT) Empty() bool {
	return len(s.Strengths) == 0 && len(s.Weaknesses) == 0 &&
		len(s.Opportunities) == 0 && len(s.Threats) == 0
}

// Narrative is the executive-summary text block keyed by BHI band and SWOT
// contents.
type Narrative struct {
	Overview        string `json:"overview"`
	Strengths       string `json:"strengths"`
	Weaknesses      string `json:"weaknesses"`
	Opportunities   string `json:"opportunities"`
	Threats         string `json:"threats"`
	PriorityActions string `json:"priority_actions"`
}

// CompanyInfo is the review header embedded in a report payload.
type CompanyInfo struct {
	ReviewID    string    `json:"review_id"`
	CompanyName string    `json:"company_name"`
	Industry    string    `json:"industry"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReportMeta stamps a payload with generation metadata.
type ReportMeta struct {
	ReportID    string    `json:"report_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Version     string    `json:"version"`
	Engine      string    `json:"engine"`
}

// ReportPayload is the terminal artifact of the pipeline: created once per
// invocation, never mutated afterward, consumed by a renderer. Field names
// and nesting are part of the contract.
type ReportPayload struct {
	CompanyInfo     CompanyInfo        `json:"company_info"`
	KPIInputs       map[string]float64 `json:"kpi_inputs"`
	Scores          []ScoreRecord      `json:"scores"`
	Pillars         PillarAverages     `json:"pillars"`
	BHI             float64            `json:"bhi"`
	Benchmarks      []BenchmarkRow     `json:"benchmarks"`
	SWOT            SWOT               `json:"swot"`
	Recommendations []string           `json:"recommendations"`
	Meta            ReportMeta         `json:"meta"`
}
