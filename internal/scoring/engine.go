// Package scoring converts raw KPI values into ordinal scores and aggregates
// them into pillar averages and the Business Health Index.
package scoring

import (
	"sort"

	"go.uber.org/zap"

	"github.com/stratiq/diagnostic-cli/internal/model"
	"github.com/stratiq/diagnostic-cli/internal/registry"
)

// BHIMode selects the composite formula. Weighted is canonical; the
// unweighted mean exists as a named opt-in, not an accidental code path.
type BHIMode string

const (
	BHIModeWeighted   BHIMode = "weighted"
	BHIModeUnweighted BHIMode = "unweighted"
)

// Options tunes non-default engine behavior.
type Options struct {
	// BHIMode selects the composite formula. Empty means weighted.
	BHIMode BHIMode

	// ScoreMissingInputs scores definitions absent from the inputs with a
	// raw value of 0.0 instead of skipping them. Off by default: a missing
	// measurement is a data-entry gap, not a zero measurement.
	ScoreMissingInputs bool
}

// Engine scores KPI inputs against a registry's definitions. It holds no
// mutable state; a single Engine is safe for concurrent use.
type Engine struct {
	reg  *registry.Registry
	opts Options
}

// NewEngine creates an Engine over the given registry.
func NewEngine(reg *registry.Registry, opts Options) *Engine {
	if opts.BHIMode == "" {
		opts.BHIMode = BHIModeWeighted
	}
	return &Engine{reg: reg, opts: opts}
}

// Score walks rules in declared order and returns the first rule's score
// whose range contains value. Returns 0 when no rule matches: KPI value
// domains are analyst-controlled and may exceed configured ranges, so an
// unmatched value is treated as the worst score rather than an error.
func Score(value float64, rules []model.ScoringRule) int {
	for _, r := range rules {
		if r.Contains(value) {
			return r.Score
		}
	}
	return 0
}

// ComputeScores converts raw inputs into per-KPI score records, pillar
// averages, and the BHI. Input ids with no registered definition are
// silently skipped. Records are ordered by KPI id for deterministic output.
func (e *Engine) ComputeScores(inputs map[string]float64) ([]model.ScoreRecord, model.PillarAverages, float64) {
	work := inputs
	if e.opts.ScoreMissingInputs {
		work = e.withMissingDefaults(inputs)
	}

	ids := make([]string, 0, len(work))
	for id := range work {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var records []model.ScoreRecord
	pillarTotals := make(map[string]int)
	pillarCounts := make(map[string]int)

	for _, id := range ids {
		def, ok := e.reg.KPI(id)
		if !ok {
			continue
		}
		value := work[id]
		score := Score(value, def.ScoringRules)

		records = append(records, model.ScoreRecord{
			KPIID:    id,
			RawValue: value,
			Score:    score,
			Pillar:   def.Pillar,
		})
		pillarTotals[def.Pillar] += score
		pillarCounts[def.Pillar]++
	}

	pillars := make(model.PillarAverages, len(pillarTotals))
	for p, total := range pillarTotals {
		pillars[p] = model.Round2(float64(total) / float64(pillarCounts[p]))
	}

	return records, pillars, e.computeBHI(pillars)
}

// computeBHI folds pillar averages into the composite index. Under the
// weighted formula, pillars absent from the weight table contribute 0.
func (e *Engine) computeBHI(pillars model.PillarAverages) float64 {
	if len(pillars) == 0 {
		return 0
	}

	if e.opts.BHIMode == BHIModeUnweighted {
		var sum float64
		for _, avg := range pillars {
			sum += avg
		}
		return model.Round2(sum / float64(len(pillars)))
	}

	weights := e.reg.PillarWeights()
	var bhi float64
	for p, avg := range pillars {
		bhi += avg * weights[p]
	}
	return model.Round2(bhi)
}

// withMissingDefaults returns inputs extended with a 0.0 raw value for every
// registered definition the analyst did not enter.
func (e *Engine) withMissingDefaults(inputs map[string]float64) map[string]float64 {
	work := make(map[string]float64, len(e.reg.Definitions()))
	for id, v := range inputs {
		work[id] = v
	}
	for id := range e.reg.Definitions() {
		if _, ok := work[id]; !ok {
			zap.L().Debug("scoring: defaulting missing input to 0.0", zap.String("kpi_id", id))
			work[id] = 0.0
		}
	}
	return work
}
