package model

import (
	"math"
	"strconv"
)

// CoerceFloat converts an arbitrary value to float64. Values that cannot be
// parsed as a finite number coerce to 0.0 with ok=false so callers can audit
// data quality without breaking the non-fatal contract.
func CoerceFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	case nil:
		return 0, false
	}
	return 0, false
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Round2 rounds to two decimal places, the precision used throughout the
// report payload.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}
