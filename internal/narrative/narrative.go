// Package narrative renders the deterministic executive summary from a
// review's BHI and SWOT contents.
package narrative

import (
	"fmt"
	"strings"

	"github.com/stratiq/diagnostic-cli/internal/model"
)

// Fixed sentences for empty SWOT categories.
const (
	noStrengths     = "No major operational or financial strengths were identified during this assessment."
	noWeaknesses    = "No critical weaknesses were identified, indicating relatively stable internal performance."
	noOpportunities = "Current market positioning indicates limited short-term external growth opportunities."
	noThreats       = "No immediate external threats were identified that could significantly impact operations."
)

// HealthBand labels the BHI for the overview sentence. This ladder is
// independent of the priority-action ladder below; the two use different
// thresholds on purpose.
func HealthBand(bhi float64) string {
	switch {
	case bhi >= 4:
		return "strong"
	case bhi >= 3:
		return "moderate"
	default:
		return "weak"
	}
}

// priorityActions picks the closing guidance. Note the distinct banding from
// HealthBand: urgent below 3, targeted below 4, sustain otherwise.
func priorityActions(bhi float64) string {
	switch {
	case bhi < 3:
		return "Immediate management attention is required to address structural and operational weaknesses."
	case bhi < 4:
		return "Management should prioritize targeted performance improvements to strengthen competitiveness."
	default:
		return "Management should focus on sustaining performance and pursuing strategic expansion opportunities."
	}
}

// Summarize produces the six-field executive narrative.
func Summarize(company, industry string, bhi float64, s model.SWOT) model.Narrative {
	return model.Narrative{
		Overview: fmt.Sprintf(
			"%s operates within the %s sector and currently demonstrates a %s level of overall business health, with a Business Health Index (BHI) of %g.",
			company, industry, HealthBand(bhi), bhi,
		),
		Strengths:       categoryText("Key strengths include: ", s.Strengths, noStrengths),
		Weaknesses:      categoryText("Key weaknesses include: ", s.Weaknesses, noWeaknesses),
		Opportunities:   categoryText("Key growth opportunities include: ", s.Opportunities, noOpportunities),
		Threats:         categoryText("Key external threats include: ", s.Threats, noThreats),
		PriorityActions: priorityActions(bhi),
	}
}

func categoryText(prefix string, items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return prefix + strings.Join(items, "; ") + "."
}
