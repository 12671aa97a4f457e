package model

import "sort"

// ScoringRule maps a raw-value range onto an ordinal score. Nil bounds are
// open-ended. Rules are evaluated in declared order; the first rule that
// contains the value wins.
type ScoringRule struct {
	Min   *float64 `yaml:"min" json:"min,omitempty"`
	Max   *float64 `yaml:"max" json:"max,omitempty"`
	Score int      `yaml:"score" json:"score"`
}

// Contains reports whether v falls inside the rule's bounds.
func (r ScoringRule) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// KPIDefinition describes one measurable indicator: its pillar assignment,
// unit, direction, and the ordered rule set that converts raw values to scores.
type KPIDefinition struct {
	ID           string        `yaml:"id" json:"id"`
	Name         string        `yaml:"name" json:"name"`
	Pillar       string        `yaml:"pillar" json:"pillar"`
	Unit         string        `yaml:"unit" json:"unit"`
	Direction    string        `yaml:"direction" json:"direction"` // "higher_is_better" or "lower_is_better"
	ScoringRules []ScoringRule `yaml:"scoring_rules" json:"scoring_rules"`
}

// MaxScore returns the largest score any rule can produce, or 0 for an
// empty rule set.
func (d KPIDefinition) MaxScore() int {
	max := 0
	for _, r := range d.ScoringRules {
		if r.Score > max {
			max = r.Score
		}
	}
	return max
}

// PillarWeights maps pillar name to its weight in the Business Health Index.
type PillarWeights map[string]float64

// Sum returns the total of all registered weights.
func (w PillarWeights) Sum() float64 {
	var s float64
	for _, v := range w {
		s += v
	}
	return s
}

// ScoreRecord is the canonical per-KPI scoring result exchanged between
// pipeline stages. Every ingress point normalizes to this shape rather than
// branching on representation downstream.
type ScoreRecord struct {
	KPIID    string  `json:"kpi_id"`
	RawValue float64 `json:"value"`
	Score    int     `json:"score"`
	Pillar   string  `json:"pillar"`
}

// PillarAverages maps pillar name to the mean score of its KPIs, rounded
// to two decimals.
type PillarAverages map[string]float64

// SortedPillars returns pillar names in lexical order for stable output.
func (p PillarAverages) SortedPillars() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
