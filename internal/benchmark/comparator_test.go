package benchmark

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratiq/diagnostic-cli/internal/model"
)

func testComparator() *Comparator {
	return NewComparator(
		map[string]map[string]Reference{
			"telecom": {
				"BHI":        {Median: 3.0},
				"FIN_MARGIN": {Median: 3.0},
			},
			"default": {
				"BHI": {Median: 2.5},
			},
		},
		map[string]string{"telco": "telecom"},
	)
}

func TestResolveAlias(t *testing.T) {
	t.Parallel()
	c := testComparator()

	for _, industry := range []string{"telecom", "telco", "Telco", "  TELECOM  "} {
		set, err := c.Resolve(industry)
		require.NoError(t, err, industry)
		assert.Equal(t, 3.0, set["BHI"].Median, industry)
	}
}

func TestResolveFallsBackToDefault(t *testing.T) {
	t.Parallel()
	c := testComparator()

	set, err := c.Resolve("floristry")
	require.NoError(t, err)
	assert.Equal(t, 2.5, set["BHI"].Median)
}

func TestResolveUnresolved(t *testing.T) {
	t.Parallel()

	c := NewComparator(map[string]map[string]Reference{
		"telecom": {"BHI": {Median: 3.0}},
	}, nil)

	_, err := c.Resolve("floristry")
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrUnresolvedIndustry))
}

func TestCompareGapAndStatus(t *testing.T) {
	t.Parallel()
	c := testComparator()

	// Aliased industry, BHI 3.4 vs reference 3.0: gap +0.4, Above.
	rows := c.Compare(map[string]float64{"BHI": 3.4}, "telco")
	require.Len(t, rows, 1)
	assert.Equal(t, model.BenchmarkRow{
		KPIID:     "BHI",
		Score:     3.4,
		Benchmark: 3.0,
		Gap:       0.4,
		Status:    model.StatusAbove,
	}, rows[0])

	rows = c.Compare(map[string]float64{"BHI": 2.6}, "telecom")
	require.Len(t, rows, 1)
	assert.Equal(t, -0.4, rows[0].Gap)
	assert.Equal(t, model.StatusBelow, rows[0].Status)

	rows = c.Compare(map[string]float64{"BHI": 3.0}, "telecom")
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].Gap)
	assert.Equal(t, model.StatusAt, rows[0].Status)
}

func TestCompareSkipsKPIsWithoutReference(t *testing.T) {
	t.Parallel()
	c := testComparator()

	rows := c.Compare(map[string]float64{
		"BHI":        3.0,
		"FIN_MARGIN": 2.0,
		"CUST_NPS":   4.0, // no telecom reference
	}, "telecom")

	require.Len(t, rows, 2)
	assert.Equal(t, "BHI", rows[0].KPIID)
	assert.Equal(t, "FIN_MARGIN", rows[1].KPIID)
}

func TestCompareUnresolvedIndustryYieldsEmpty(t *testing.T) {
	t.Parallel()

	c := NewComparator(map[string]map[string]Reference{
		"telecom": {"BHI": {Median: 3.0}},
	}, nil)

	rows := c.Compare(map[string]float64{"BHI": 3.4}, "floristry")
	assert.Empty(t, rows)
}

func TestCompareScoreRecordShape(t *testing.T) {
	t.Parallel()
	c := testComparator()

	rows := c.Compare([]model.ScoreRecord{
		{KPIID: "FIN_MARGIN", RawValue: 15, Score: 4, Pillar: "FINANCIAL"},
	}, "telecom")

	require.Len(t, rows, 1)
	// Benchmark comparison runs on the ordinal score, not the raw value.
	assert.Equal(t, 4.0, rows[0].Score)
	assert.Equal(t, 1.0, rows[0].Gap)
	assert.Equal(t, model.StatusAbove, rows[0].Status)
}

func TestLoadComparatorDefaults(t *testing.T) {
	t.Parallel()

	c, err := LoadComparator("")
	require.NoError(t, err)

	// The shipped table covers telecom through both name and aliases.
	for _, industry := range []string{"telecom", "telco", "telecommunications"} {
		set, err := c.Resolve(industry)
		require.NoError(t, err, industry)
		assert.Equal(t, 3.0, set["BHI"].Median, industry)
	}

	// Quartile spread form decodes alongside the bare-scalar form.
	set, err := c.Resolve("telecom")
	require.NoError(t, err)
	ref := set["FIN_MARGIN"]
	assert.Equal(t, 3.0, ref.Median)
	require.NotNil(t, ref.P25)
	assert.Equal(t, 2.0, *ref.P25)
	require.NotNil(t, ref.P75)
	assert.Equal(t, 4.0, *ref.P75)
}

func TestLoadComparatorCustomFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "benchmarks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
industries:
  aviation:
    BHI: 3.2
aliases:
  airlines: aviation
`), 0o644))

	c, err := LoadComparator(path)
	require.NoError(t, err)

	set, err := c.Resolve("airlines")
	require.NoError(t, err)
	assert.Equal(t, 3.2, set["BHI"].Median)

	// No default set in this table, so unknowns fail to resolve.
	_, err = c.Resolve("floristry")
	assert.True(t, eris.Is(err, model.ErrUnresolvedIndustry))
}

func TestLoadComparatorBadFile(t *testing.T) {
	t.Parallel()

	_, err := LoadComparator(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrConfig))

	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("industries: {}\n"), 0o644))
	_, err = LoadComparator(path)
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrConfig))
}
