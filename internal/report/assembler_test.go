package report

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratiq/diagnostic-cli/internal/benchmark"
	"github.com/stratiq/diagnostic-cli/internal/model"
	"github.com/stratiq/diagnostic-cli/internal/registry"
	"github.com/stratiq/diagnostic-cli/internal/scoring"
	"github.com/stratiq/diagnostic-cli/internal/store"
)

func newTestAssembler(t *testing.T) (*Assembler, store.Store) {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	reg, err := registry.Load("", "")
	require.NoError(t, err)

	comparator, err := benchmark.LoadComparator("")
	require.NoError(t, err)

	engine := scoring.NewEngine(reg, scoring.Options{})
	return NewAssembler(st, engine, comparator), st
}

func seedReview(t *testing.T, st store.Store, industry string, inputs map[string]float64) string {
	t.Helper()
	ctx := context.Background()

	review, err := st.CreateReview(ctx, "Acme Telco", industry)
	require.NoError(t, err)
	if len(inputs) > 0 {
		require.NoError(t, st.SaveKPIValues(ctx, review.ID, inputs))
	}
	return review.ID
}

func TestAssembleFullPayload(t *testing.T) {
	t.Parallel()
	a, st := newTestAssembler(t)

	inputs := map[string]float64{
		"FIN_MARGIN":     22.0, // score 5
		"CUST_RETENTION": 88.0, // score 4
		"PPL_TURNOVER":   28.0, // score 2
	}
	id := seedReview(t, st, "telco", inputs)

	payload, err := a.Assemble(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, payload.CompanyInfo.ReviewID)
	assert.Equal(t, "Acme Telco", payload.CompanyInfo.CompanyName)
	assert.Equal(t, "telco", payload.CompanyInfo.Industry)
	assert.Equal(t, inputs, payload.KPIInputs)

	require.Len(t, payload.Scores, 3)
	assert.Equal(t, "CUST_RETENTION", payload.Scores[0].KPIID)
	assert.Equal(t, 4, payload.Scores[0].Score)
	assert.Equal(t, "FIN_MARGIN", payload.Scores[1].KPIID)
	assert.Equal(t, 5, payload.Scores[1].Score)
	assert.Equal(t, "PPL_TURNOVER", payload.Scores[2].KPIID)
	assert.Equal(t, 2, payload.Scores[2].Score)

	assert.Equal(t, model.PillarAverages{
		"FINANCIAL": 5.0,
		"CUSTOMER":  4.0,
		"PEOPLE":    2.0,
	}, payload.Pillars)
	// 5*0.35 + 4*0.25 + 2*0.15 = 3.05
	assert.Equal(t, 3.05, payload.BHI)

	// "telco" resolves through the alias table to the telecom references;
	// scores land above, at, and below their medians.
	require.Len(t, payload.Benchmarks, 3)
	byID := make(map[string]model.BenchmarkRow, len(payload.Benchmarks))
	for _, row := range payload.Benchmarks {
		byID[row.KPIID] = row
	}
	assert.Equal(t, model.StatusAbove, byID["FIN_MARGIN"].Status)
	assert.Equal(t, 2.0, byID["FIN_MARGIN"].Gap)
	assert.Equal(t, model.StatusAbove, byID["CUST_RETENTION"].Status)
	assert.Equal(t, model.StatusBelow, byID["PPL_TURNOVER"].Status)

	assert.Contains(t, payload.SWOT.Strengths, "Strong performance in FIN_MARGIN")
	assert.Contains(t, payload.SWOT.Weaknesses, "Weak performance in PPL_TURNOVER")
	assert.Contains(t, payload.SWOT.Threats, "Underperformance risk in PPL_TURNOVER")
	assert.NotEmpty(t, payload.Recommendations)

	assert.NotEmpty(t, payload.Meta.ReportID)
	assert.False(t, payload.Meta.GeneratedAt.IsZero())
	assert.Equal(t, Version, payload.Meta.Version)
	assert.Equal(t, Engine, payload.Meta.Engine)
}

func TestAssembleNoData(t *testing.T) {
	t.Parallel()
	a, st := newTestAssembler(t)

	id := seedReview(t, st, "telecom", nil)

	_, err := a.Assemble(context.Background(), id)
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrNoData))
}

func TestAssembleInvalidReview(t *testing.T) {
	t.Parallel()
	a, _ := newTestAssembler(t)

	_, err := a.Assemble(context.Background(), "no-such-review")
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrInvalidReview))
}

func TestAssembleDeterministic(t *testing.T) {
	t.Parallel()
	a, st := newTestAssembler(t)

	id := seedReview(t, st, "manufacturing", map[string]float64{
		"FIN_MARGIN":      15,
		"OPS_UTILIZATION": 80,
		"OPS_DEFECT_RATE": 1.0,
		"PPL_TURNOVER":    12,
	})

	first, err := a.Assemble(context.Background(), id)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		payload, err := a.Assemble(context.Background(), id)
		require.NoError(t, err)

		// Everything except per-run metadata is identical run to run.
		assert.Equal(t, first.Scores, payload.Scores)
		assert.Equal(t, first.Pillars, payload.Pillars)
		assert.Equal(t, first.BHI, payload.BHI)
		assert.Equal(t, first.Benchmarks, payload.Benchmarks)
		assert.Equal(t, first.SWOT, payload.SWOT)
		assert.Equal(t, first.Recommendations, payload.Recommendations)
		assert.NotEqual(t, first.Meta.ReportID, payload.Meta.ReportID)
	}
}

func TestAssembleUnknownIndustryDegrades(t *testing.T) {
	t.Parallel()
	a, st := newTestAssembler(t)

	// The shipped table has a default set, so even an unknown industry
	// compares against it; KPIs missing from the default set drop out.
	id := seedReview(t, st, "floristry", map[string]float64{
		"FIN_MARGIN": 15,
		"CUST_NPS":   60,
	})

	payload, err := a.Assemble(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, payload.Benchmarks, 1)
	assert.Equal(t, "FIN_MARGIN", payload.Benchmarks[0].KPIID)
}

func TestAssemblePersistScores(t *testing.T) {
	t.Parallel()
	a, st := newTestAssembler(t)

	id := seedReview(t, st, "telecom", map[string]float64{"FIN_MARGIN": 22})

	// Off by default.
	_, err := a.Assemble(context.Background(), id)
	require.NoError(t, err)
	saved, err := st.GetScores(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, saved)

	a.PersistScores = true
	payload, err := a.Assemble(context.Background(), id)
	require.NoError(t, err)

	saved, err = st.GetScores(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, payload.Scores, saved)
}

func TestAssembleWithNarrative(t *testing.T) {
	t.Parallel()
	a, st := newTestAssembler(t)

	id := seedReview(t, st, "telecom", map[string]float64{"FIN_MARGIN": 22})

	payload, n, err := a.AssembleWithNarrative(context.Background(), id)
	require.NoError(t, err)
	assert.Contains(t, n.Overview, "Acme Telco")
	assert.Contains(t, n.Overview, "telecom")
	assert.Contains(t, n.Overview, "Business Health Index")
	assert.NotEmpty(t, n.PriorityActions)
	assert.NotNil(t, payload)
}
