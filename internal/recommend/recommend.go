// Package recommend maps Weaknesses and Threats onto short actionable
// statements.
package recommend

import (
	"fmt"

	"github.com/stratiq/diagnostic-cli/internal/model"
)

// Fallback is returned when the SWOT holds no weaknesses and no threats.
const Fallback = "Maintain current performance level"

// Recommend emits one recommendation per Weakness followed by one per
// Threat, preserving each source list's order.
func Recommend(s model.SWOT) []string {
	recs := make([]string, 0, len(s.Weaknesses)+len(s.Threats))

	for _, w := range s.Weaknesses {
		recs = append(recs, fmt.Sprintf("Improve performance on %s", w))
	}
	for _, t := range s.Threats {
		recs = append(recs, fmt.Sprintf("Mitigate risk related to %s", t))
	}

	if len(recs) == 0 {
		recs = append(recs, Fallback)
	}
	return recs
}
