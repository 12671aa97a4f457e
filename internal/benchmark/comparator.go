// Package benchmark resolves industry reference values and computes per-KPI
// gaps and status versus the reference median.
package benchmark

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/stratiq/diagnostic-cli/internal/model"
)

// Reference holds one industry's KPI/pillar reference values. Values may be
// a bare median or a quartile spread.
type Reference struct {
	Median float64  `yaml:"median" json:"median"`
	P25    *float64 `yaml:"p25,omitempty" json:"p25,omitempty"`
	P75    *float64 `yaml:"p75,omitempty" json:"p75,omitempty"`
}

// Comparator looks up industry references through an alias table and compares
// scored values against them. Read-only after construction.
type Comparator struct {
	references map[string]map[string]Reference
	aliases    map[string]string
}

// NewComparator builds a Comparator from a reference table and alias table.
// Alias keys and industry keys are canonicalized to trimmed lowercase.
func NewComparator(refs map[string]map[string]Reference, aliases map[string]string) *Comparator {
	canonical := make(map[string]map[string]Reference, len(refs))
	for industry, set := range refs {
		canonical[normalize(industry)] = set
	}
	canonicalAliases := make(map[string]string, len(aliases))
	for alias, industry := range aliases {
		canonicalAliases[normalize(alias)] = normalize(industry)
	}
	return &Comparator{references: canonical, aliases: canonicalAliases}
}

// Resolve maps an industry string to its canonical reference set. Unmatched
// industries return model.ErrUnresolvedIndustry; callers degrade to an empty
// comparison rather than failing the report.
func (c *Comparator) Resolve(industry string) (map[string]Reference, error) {
	key := normalize(industry)
	if mapped, ok := c.aliases[key]; ok {
		key = mapped
	}
	if set, ok := c.references[key]; ok {
		return set, nil
	}
	if set, ok := c.references["default"]; ok {
		return set, nil
	}
	return nil, model.ErrUnresolvedIndustry
}

// Compare reduces scores to the canonical {kpi_id: value} form, resolves the
// industry reference, and returns one row per KPI present in both. Rows are
// sorted by KPI id for reproducible output. An unresolved industry yields an
// empty slice.
func (c *Comparator) Compare(scores any, industry string) []model.BenchmarkRow {
	values := NormalizeScores(scores)

	refset, err := c.Resolve(industry)
	if err != nil {
		zap.L().Info("benchmark: no reference set for industry",
			zap.String("industry", industry),
		)
		return nil
	}

	rows := make([]model.BenchmarkRow, 0, len(values))
	for kpiID, value := range values {
		ref, ok := refset[kpiID]
		if !ok {
			continue
		}
		gap := model.Round2(value - ref.Median)

		status := model.StatusAt
		switch {
		case gap > 0:
			status = model.StatusAbove
		case gap < 0:
			status = model.StatusBelow
		}

		rows = append(rows, model.BenchmarkRow{
			KPIID:     kpiID,
			Score:     model.Round2(value),
			Benchmark: model.Round2(ref.Median),
			Gap:       gap,
			Status:    status,
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].KPIID < rows[j].KPIID })
	return rows
}

func normalize(industry string) string {
	return strings.ToLower(strings.TrimSpace(industry))
}
