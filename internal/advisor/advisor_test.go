package advisor

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratiq/diagnostic-cli/internal/model"
	"github.com/stratiq/diagnostic-cli/pkg/anthropic"
)

type mockClient struct {
	resp *anthropic.MessageResponse
	err  error
	last anthropic.MessageRequest
}

func (m *mockClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	m.last = req
	return m.resp, m.err
}

func testPayload() *model.ReportPayload {
	return &model.ReportPayload{
		CompanyInfo: model.CompanyInfo{ReviewID: "rev-1", CompanyName: "Acme", Industry: "telecom"},
		BHI:         3.4,
		SWOT: model.SWOT{
			Weaknesses: []string{"Weak performance in PPL_TURNOVER"},
			Threats:    []string{"Underperformance risk in CUST_NPS"},
		},
		Recommendations: []string{
			"Improve performance on Weak performance in PPL_TURNOVER",
			"Mitigate risk related to Underperformance risk in CUST_NPS",
		},
	}
}

func TestAnswerRouting(t *testing.T) {
	t.Parallel()
	a := New()
	p := testPayload()

	tests := []struct {
		name     string
		question string
		contains string
	}{
		{name: "profitability", question: "How is our EBITDA margin?", contains: "Profitability is moderate"},
		{name: "growth", question: "How can we grow revenue?", contains: "Revenue growth can be improved"},
		{name: "risk", question: "What are our biggest risks?", contains: "Key business risks include"},
		{name: "operations", question: "Where can we cut operating costs?", contains: "Operational efficiency can be improved"},
		{name: "unrouted", question: "Should we acquire a competitor?", contains: "requires deeper strategic review"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, a.Answer(p, tt.question), tt.contains)
		})
	}
}

func TestAnswerProfitabilityBands(t *testing.T) {
	t.Parallel()
	a := New()

	p := testPayload()
	p.BHI = 4.2
	assert.Contains(t, a.Answer(p, "profitability?"), "strong and above industry expectations")

	p.BHI = 2.1
	assert.Contains(t, a.Answer(p, "profitability?"), "weak and requires urgent attention")
}

func TestAnswerEmptyCategories(t *testing.T) {
	t.Parallel()
	a := New()
	p := &model.ReportPayload{BHI: 3.0}

	assert.Contains(t, a.Answer(p, "any risks?"), "No major operational or regulatory risks")
	assert.Contains(t, a.Answer(p, "operational efficiency?"), "Operations are currently stable")
	assert.Contains(t, a.Answer(p, "growth options?"), "Growth opportunities are currently limited")
}

func TestAugmentWithoutClient(t *testing.T) {
	t.Parallel()

	a := New()
	got := a.Augment(context.Background(), testPayload(), model.Narrative{}, "deterministic text")
	assert.Equal(t, "deterministic text", got)
}

func TestAugmentSuccess(t *testing.T) {
	t.Parallel()

	mc := &mockClient{resp: &anthropic.MessageResponse{Text: "  expanded advisory prose  "}}
	a := New(WithClient(mc, "test-model"))

	n := model.Narrative{Overview: "Acme overview.", PriorityActions: "Do things."}
	got := a.Augment(context.Background(), testPayload(), n, "fallback")

	assert.Equal(t, "expanded advisory prose", got)
	assert.Equal(t, "test-model", mc.last.Model)
	require.Len(t, mc.last.Messages, 1)
	assert.Contains(t, mc.last.Messages[0].Content, "Acme overview.")
	assert.Contains(t, mc.last.Messages[0].Content, "Recommendations:")
}

func TestAugmentFallsBackOnError(t *testing.T) {
	t.Parallel()

	mc := &mockClient{err: eris.New("api unavailable")}
	a := New(WithClient(mc, "test-model"))

	got := a.Augment(context.Background(), testPayload(), model.Narrative{}, "fallback")
	assert.Equal(t, "fallback", got)
}

func TestAugmentFallsBackOnEmptyResponse(t *testing.T) {
	t.Parallel()

	mc := &mockClient{resp: &anthropic.MessageResponse{Text: "   "}}
	a := New(WithClient(mc, "test-model"))

	got := a.Augment(context.Background(), testPayload(), model.Narrative{}, "fallback")
	assert.Equal(t, "fallback", got)
}

func TestAugmentRateLimited(t *testing.T) {
	t.Parallel()

	mc := &mockClient{resp: &anthropic.MessageResponse{Text: "prose"}}
	a := New(WithClient(mc, "test-model"))

	// Burst of 2 per second; the third immediate call is denied and degrades.
	ctx := context.Background()
	p := testPayload()
	assert.Equal(t, "prose", a.Augment(ctx, p, model.Narrative{}, "fallback"))
	assert.Equal(t, "prose", a.Augment(ctx, p, model.Narrative{}, "fallback"))
	assert.Equal(t, "fallback", a.Augment(ctx, p, model.Narrative{}, "fallback"))
}
