// Package advisor answers business questions about an assembled report and
// optionally augments the deterministic narrative with model-generated
// prose. Augmentation is best-effort: any failure degrades to the
// deterministic text and never touches numeric results.
package advisor

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/stratiq/diagnostic-cli/internal/model"
	"github.com/stratiq/diagnostic-cli/pkg/anthropic"
)

// Advisor routes questions against a report and holds the optional LLM
// client for augmentation.
type Advisor struct {
	client  anthropic.Client // nil disables augmentation
	model   string
	limiter *rate.Limiter
	timeout time.Duration
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithClient enables LLM augmentation through the given client and model.
func WithClient(c anthropic.Client, modelID string) Option {
	return func(a *Advisor) {
		a.client = c
		a.model = modelID
	}
}

// New creates an Advisor. Augmentation calls are rate-limited to one per
// second with a small burst so batch runs cannot stampede the API.
func New(opts ...Option) *Advisor {
	a := &Advisor{
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		timeout: 20 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Answer gives a deterministic response to a free-form question, routed by
// topic keywords and grounded in the report's BHI, SWOT, and
// recommendations.
func (a *Advisor) Answer(payload *model.ReportPayload, question string) string {
	q := strings.ToLower(question)

	switch {
	case containsAny(q, "profit", "ebitda", "margin", "profitability"):
		return profitabilityAnswer(payload.BHI)

	case containsAny(q, "growth", "revenue", "sales"):
		if len(payload.Recommendations) > 0 {
			top := payload.Recommendations
			if len(top) > 2 {
				top = top[:2]
			}
			return "Revenue growth can be improved by focusing on the following: " + strings.Join(top, " ")
		}
		return "Growth opportunities are currently limited based on available data."

	case containsAny(q, "risk", "threat", "compliance"):
		if len(payload.SWOT.Threats) > 0 {
			return "Key business risks include: " + strings.Join(payload.SWOT.Threats, "; ")
		}
		return "No major operational or regulatory risks were identified in the current assessment."

	case containsAny(q, "operation", "cost", "efficiency"):
		if len(payload.SWOT.Weaknesses) > 0 {
			return "Operational efficiency can be improved by addressing: " + strings.Join(payload.SWOT.Weaknesses, "; ")
		}
		return "Operations are currently stable with no major inefficiencies."
	}

	return "Your question requires deeper strategic review. Please consult the executive summary and KPI dashboard for more detailed insights."
}

func profitabilityAnswer(bhi float64) string {
	switch {
	case bhi >= 4:
		return "Profitability is strong and above industry expectations. Management should focus on sustaining cost discipline and revenue optimization."
	case bhi >= 3:
		return "Profitability is moderate. There is room for improvement through better cost control and revenue diversification."
	default:
		return "Profitability is weak and requires urgent attention. A detailed cost restructuring and pricing review is recommended."
	}
}

// Augment asks the model to expand the deterministic narrative into richer
// advisory prose. Returns fallback (the deterministic text) on any error,
// rate-limit denial, or missing client; one attempt, no retries.
func (a *Advisor) Augment(ctx context.Context, payload *model.ReportPayload, n model.Narrative, fallback string) string {
	if a.client == nil {
		return fallback
	}
	if !a.limiter.Allow() {
		zap.L().Warn("advisor: augmentation rate-limited, using deterministic narrative")
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	temp := 0.3
	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       a.model,
		MaxTokens:   800,
		System:      "You are a senior financial and business consultant. Expand the provided diagnostic summary into concise executive advisory prose. Do not invent numbers.",
		Messages:    []anthropic.Message{{Role: "user", Content: buildPrompt(payload, n)}},
		Temperature: &temp,
	})
	if err != nil {
		zap.L().Warn("advisor: augmentation failed, using deterministic narrative",
			zap.String("review_id", payload.CompanyInfo.ReviewID),
			zap.Error(err),
		)
		return fallback
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return fallback
	}
	return text
}

func buildPrompt(payload *model.ReportPayload, n model.Narrative) string {
	var b strings.Builder
	b.WriteString(n.Overview)
	b.WriteString("\n\n")
	b.WriteString(n.Strengths)
	b.WriteString("\n")
	b.WriteString(n.Weaknesses)
	b.WriteString("\n")
	b.WriteString(n.Opportunities)
	b.WriteString("\n")
	b.WriteString(n.Threats)
	b.WriteString("\n\n")
	b.WriteString(n.PriorityActions)
	if len(payload.Recommendations) > 0 {
		b.WriteString("\n\nRecommendations:\n")
		for _, r := range payload.Recommendations {
			b.WriteString("- ")
			b.WriteString(r)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
