// Package swot classifies scored KPIs and benchmark gaps into Strengths,
// Weaknesses, Opportunities, and Threats.
package swot

import (
	"fmt"

	"github.com/stratiq/diagnostic-cli/internal/model"
)

// Classification thresholds on the 0-5 score scale. Fixed constants of the
// design, not configurable per KPI.
const (
	strengthThreshold = 4
	weaknessThreshold = 2
)

// Derive buckets scores and benchmark rows. A KPI may land in more than one
// bucket at once (a Weakness that is also a Threat); duplicates are kept.
func Derive(scores []model.ScoreRecord, rows []model.BenchmarkRow) model.SWOT {
	var out model.SWOT

	for _, rec := range scores {
		if rec.KPIID == "" {
			continue
		}
		switch {
		case rec.Score >= strengthThreshold:
			out.Strengths = append(out.Strengths, fmt.Sprintf("Strong performance in %s", rec.KPIID))
		case rec.Score <= weaknessThreshold:
			out.Weaknesses = append(out.Weaknesses, fmt.Sprintf("Weak performance in %s", rec.KPIID))
		}
	}

	for _, row := range rows {
		switch {
		case row.Gap > 0:
			out.Opportunities = append(out.Opportunities, fmt.Sprintf("Opportunity to improve %s versus industry", row.KPIID))
		case row.Gap < 0:
			out.Threats = append(out.Threats, fmt.Sprintf("Underperformance risk in %s", row.KPIID))
		}
	}

	return out
}
