package benchmark

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/stratiq/diagnostic-cli/internal/model"
)

// NormalizeScores reduces the three score shapes that reach the comparator
// to the canonical {kpi_id: value} form. The scoring engine emits
// []model.ScoreRecord, the persistence layer round-trips generic maps, and
// older callers pass plain value maps or pair slices; normalization here
// keeps every downstream branch-free.
//
// Supported shapes:
//   - map[string]float64 / map[string]int / map[string]any
//   - []model.ScoreRecord
//   - []any of two-element pairs ([]any{id, value}) or row maps
//     (map[string]any with kpi_id/kpi/id and score/value keys)
//
// Values that cannot be coerced to a finite number substitute 0.0 and are
// logged, never propagated as errors.
func NormalizeScores(scores any) map[string]float64 {
	out := make(map[string]float64)

	switch s := scores.(type) {
	case nil:
		return out

	case map[string]float64:
		for k, v := range s {
			out[k] = v
		}

	case map[string]int:
		for k, v := range s {
			out[k] = float64(v)
		}

	case map[string]any:
		for k, v := range s {
			out[k] = coerce(k, v)
		}

	case []model.ScoreRecord:
		for _, r := range s {
			out[r.KPIID] = float64(r.Score)
		}

	case []any:
		for _, item := range s {
			if id, v, ok := rowKeyValue(item); ok {
				out[id] = v
			}
		}
	}

	return out
}

// rowKeyValue extracts (kpi_id, value) from a pair slice or a row map.
func rowKeyValue(item any) (string, float64, bool) {
	switch row := item.(type) {
	case []any:
		if len(row) < 2 {
			return "", 0, false
		}
		id := fmt.Sprint(row[0])
		return id, coerce(id, row[1]), true

	case map[string]any:
		id, ok := rowID(row)
		if !ok {
			return "", 0, false
		}
		if v, present := row["score"]; present {
			return id, coerce(id, v), true
		}
		if v, present := row["value"]; present {
			return id, coerce(id, v), true
		}
		return id, 0, true

	case model.ScoreRecord:
		return row.KPIID, float64(row.Score), true
	}
	return "", 0, false
}

func rowID(row map[string]any) (string, bool) {
	for _, key := range []string{"kpi_id", "kpi", "id"} {
		if v, ok := row[key]; ok && v != nil {
			return fmt.Sprint(v), true
		}
	}
	return "", false
}

func coerce(kpiID string, v any) float64 {
	f, ok := model.CoerceFloat(v)
	if !ok {
		zap.L().Warn("benchmark: non-numeric score value substituted with 0.0",
			zap.String("kpi_id", kpiID),
		)
	}
	return f
}
