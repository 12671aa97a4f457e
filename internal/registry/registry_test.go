package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratiq/diagnostic-cli/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	t.Parallel()

	reg, err := Load("", "")
	require.NoError(t, err)

	ids := reg.KPIIDs()
	assert.NotEmpty(t, ids)
	assert.Contains(t, ids, "FIN_MARGIN")

	def, ok := reg.KPI("FIN_MARGIN")
	require.True(t, ok)
	assert.Equal(t, "FINANCIAL", def.Pillar)
	assert.NotEmpty(t, def.ScoringRules)
	assert.Equal(t, 5, def.MaxScore())
	assert.Equal(t, 5, reg.MaxScore())

	weights := reg.PillarWeights()
	assert.InDelta(t, 1.0, weights.Sum(), 0.001)

	// The shipped defaults are clean.
	assert.Empty(t, reg.Warnings())
}

func TestLoadCustomFiles(t *testing.T) {
	t.Parallel()

	defs := writeFile(t, "kpis.yaml", `
- id: TEST_KPI
  name: Test KPI
  pillar: FINANCIAL
  unit: "%"
  direction: higher_is_better
  scoring_rules:
    - {max: 0, score: 1}
    - {min: 0, max: 10, score: 3}
    - {min: 10, score: 5}
`)
	weights := writeFile(t, "weights.yaml", "FINANCIAL: 1.0\n")

	reg, err := Load(defs, weights)
	require.NoError(t, err)

	def, ok := reg.KPI("TEST_KPI")
	require.True(t, ok)
	assert.Equal(t, "Test KPI", def.Name)
	assert.Len(t, def.ScoringRules, 3)
	assert.Empty(t, reg.Warnings())
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), "")
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrConfig))
}

func TestLoadMalformedYAML(t *testing.T) {
	t.Parallel()

	defs := writeFile(t, "kpis.yaml", "not: [valid: kpi: list")
	_, err := Load(defs, "")
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrConfig))
}

func TestLoadRejectsIncompleteDefinitions(t *testing.T) {
	t.Parallel()

	t.Run("missing id", func(t *testing.T) {
		defs := writeFile(t, "kpis.yaml", `
- name: No ID
  pillar: FINANCIAL
  scoring_rules: [{score: 1}]
`)
		_, err := Load(defs, "")
		require.Error(t, err)
		assert.True(t, eris.Is(err, model.ErrConfig))
	})

	t.Run("missing pillar", func(t *testing.T) {
		defs := writeFile(t, "kpis.yaml", `
- id: NO_PILLAR
  scoring_rules: [{score: 1}]
`)
		_, err := Load(defs, "")
		require.Error(t, err)
		assert.True(t, eris.Is(err, model.ErrConfig))
	})
}

func TestValidationWarnings(t *testing.T) {
	t.Parallel()

	defs := writeFile(t, "kpis.yaml", `
- id: OVERLAP
  pillar: FINANCIAL
  scoring_rules:
    - {min: 0, max: 10, score: 1}
    - {min: 5, max: 15, score: 2}
- id: GAPPED
  pillar: FINANCIAL
  scoring_rules:
    - {max: 10, score: 1}
    - {min: 20, score: 3}
- id: NO_RULES
  pillar: FINANCIAL
  scoring_rules: []
- id: ORPHAN
  pillar: UNKNOWN_PILLAR
  scoring_rules:
    - {score: 1}
`)
	weights := writeFile(t, "weights.yaml", "FINANCIAL: 0.8\n")

	reg, err := Load(defs, weights)
	require.NoError(t, err)

	warnings := reg.Warnings()
	require.NotEmpty(t, warnings)

	joined := ""
	for _, w := range warnings {
		joined += w + "\n"
	}
	assert.Contains(t, joined, "kpi OVERLAP: rules 0 and 1 overlap")
	assert.Contains(t, joined, "kpi GAPPED: gap between 10 and 20")
	assert.Contains(t, joined, "kpi NO_RULES: no scoring rules")
	assert.Contains(t, joined, "pillar UNKNOWN_PILLAR has no registered weight")
	assert.Contains(t, joined, "pillar weights sum to 0.800")
}

func TestTouchingRangesAreNotOverlap(t *testing.T) {
	t.Parallel()

	defs := writeFile(t, "kpis.yaml", `
- id: TOUCHING
  pillar: FINANCIAL
  scoring_rules:
    - {min: 0, max: 10, score: 1}
    - {min: 10, max: 20, score: 2}
`)
	weights := writeFile(t, "weights.yaml", "FINANCIAL: 1.0\n")

	reg, err := Load(defs, weights)
	require.NoError(t, err)
	assert.Empty(t, reg.Warnings())
}
