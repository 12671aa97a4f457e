package registry

import (
	"fmt"
	"math"
	"sort"

	"github.com/stratiq/diagnostic-cli/internal/model"
)

// weightSumTolerance bounds how far the pillar weight sum may drift from 1.0
// before a warning is raised.
const weightSumTolerance = 0.001

// validate runs the load-time diagnostics pass. Scoring keeps its first-match
// policy regardless; these surface configuration smells that would otherwise
// fail silently at score time.
func validate(kpis map[string]model.KPIDefinition, weights model.PillarWeights) []string {
	var warnings []string

	ids := make([]string, 0, len(kpis))
	for id := range kpis {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		d := kpis[id]
		if len(d.ScoringRules) == 0 {
			warnings = append(warnings, fmt.Sprintf("kpi %s: no scoring rules, every value scores 0", id))
			continue
		}
		warnings = append(warnings, ruleWarnings(id, d.ScoringRules)...)

		if _, ok := weights[d.Pillar]; !ok {
			warnings = append(warnings, fmt.Sprintf("kpi %s: pillar %s has no registered weight, contributes 0 to BHI", id, d.Pillar))
		}
	}

	if sum := weights.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		warnings = append(warnings, fmt.Sprintf("pillar weights sum to %.3f, expected 1.0", sum))
	}

	return warnings
}

// ruleWarnings flags overlapping and gapped ranges in a rule set. Overlap is
// harmless under first-match but usually indicates a typo; a gap means some
// values fall through to the default score 0.
func ruleWarnings(id string, rules []model.ScoringRule) []string {
	var warnings []string

	for i := 0; i < len(rules); i++ {
		for j := i + 1; j < len(rules); j++ {
			if rangesOverlap(rules[i], rules[j]) {
				warnings = append(warnings, fmt.Sprintf("kpi %s: rules %d and %d overlap, first match wins", id, i, j))
			}
		}
	}

	// Gap detection on rules sorted by lower bound. Open-ended bounds close
	// the respective side of the domain.
	sorted := make([]model.ScoringRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(a, b int) bool {
		return lowerBound(sorted[a]) < lowerBound(sorted[b])
	})
	for i := 0; i+1 < len(sorted); i++ {
		cur, next := sorted[i], sorted[i+1]
		if cur.Max == nil || next.Min == nil {
			continue
		}
		if *next.Min > *cur.Max {
			warnings = append(warnings, fmt.Sprintf("kpi %s: gap between %v and %v, values in between score 0", id, *cur.Max, *next.Min))
		}
	}

	return warnings
}

func rangesOverlap(a, b model.ScoringRule) bool {
	aLo, aHi := lowerBound(a), upperBound(a)
	bLo, bHi := lowerBound(b), upperBound(b)
	return aLo < bHi && bLo < aHi
}

func lowerBound(r model.ScoringRule) float64 {
	if r.Min == nil {
		return math.Inf(-1)
	}
	return *r.Min
}

func upperBound(r model.ScoringRule) float64 {
	if r.Max == nil {
		return math.Inf(1)
	}
	return *r.Max
}
