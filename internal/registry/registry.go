// Package registry loads KPI definitions and pillar weight configuration and
// exposes read-only lookups to the scoring pipeline.
package registry

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/stratiq/diagnostic-cli/internal/model"
)

// Registry holds KPI definitions and pillar weights, loaded once at process
// start and treated as read-only for the process lifetime.
type Registry struct {
	kpis     map[string]model.KPIDefinition
	weights  model.PillarWeights
	warnings []string
}

// Load reads KPI definitions and pillar weights from the given YAML files.
// Empty paths fall back to the embedded defaults. Missing or malformed files
// fail with model.ErrConfig; rule-range and weight-sum issues are surfaced as
// warnings, not errors, because scoring is defined for any rule set.
func Load(definitionsPath, weightsPath string) (*Registry, error) {
	kpis, err := loadDefinitions(definitionsPath)
	if err != nil {
		return nil, err
	}

	weights, err := loadWeights(weightsPath)
	if err != nil {
		return nil, err
	}

	r := &Registry{kpis: kpis, weights: weights}
	r.warnings = validate(kpis, weights)
	for _, w := range r.warnings {
		zap.L().Warn("registry: configuration warning", zap.String("detail", w))
	}

	return r, nil
}

// KPI returns the definition for the given id.
func (r *Registry) KPI(id string) (model.KPIDefinition, bool) {
	d, ok := r.kpis[id]
	return d, ok
}

// Definitions returns all KPI definitions keyed by id. Callers must not
// mutate the returned map.
func (r *Registry) Definitions() map[string]model.KPIDefinition {
	return r.kpis
}

// KPIIDs returns all registered KPI ids in lexical order.
func (r *Registry) KPIIDs() []string {
	ids := make([]string, 0, len(r.kpis))
	for id := range r.kpis {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PillarWeights returns the pillar weight configuration.
func (r *Registry) PillarWeights() model.PillarWeights {
	return r.weights
}

// MaxScore returns the largest score any registered rule can produce.
func (r *Registry) MaxScore() int {
	max := 0
	for _, d := range r.kpis {
		if s := d.MaxScore(); s > max {
			max = s
		}
	}
	return max
}

// Warnings returns the diagnostics collected during the load-time validation
// pass (overlapping or gapped scoring ranges, weight sums off 1.0).
func (r *Registry) Warnings() []string {
	return r.warnings
}

func loadDefinitions(path string) (map[string]model.KPIDefinition, error) {
	data := defaultDefinitions
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(model.ErrConfig, "registry: read kpi definitions %s: %v", path, err)
		}
		data = b
	}

	var defs []model.KPIDefinition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, eris.Wrapf(model.ErrConfig, "registry: unmarshal kpi definitions: %v", err)
	}
	if len(defs) == 0 {
		return nil, eris.Wrap(model.ErrConfig, "registry: no kpi definitions")
	}

	kpis := make(map[string]model.KPIDefinition, len(defs))
	for _, d := range defs {
		if d.ID == "" {
			return nil, eris.Wrap(model.ErrConfig, "registry: kpi definition missing id")
		}
		if d.Pillar == "" {
			return nil, eris.Wrapf(model.ErrConfig, "registry: kpi %s has no pillar", d.ID)
		}
		kpis[d.ID] = d
	}
	return kpis, nil
}

func loadWeights(path string) (model.PillarWeights, error) {
	data := defaultWeights
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(model.ErrConfig, "registry: read pillar weights %s: %v", path, err)
		}
		data = b
	}

	var weights model.PillarWeights
	if err := yaml.Unmarshal(data, &weights); err != nil {
		return nil, eris.Wrapf(model.ErrConfig, "registry: unmarshal pillar weights: %v", err)
	}
	if len(weights) == 0 {
		return nil, eris.Wrap(model.ErrConfig, "registry: no pillar weights")
	}
	return weights, nil
}
