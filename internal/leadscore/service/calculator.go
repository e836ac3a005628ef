package service

import (
	"math"

	leaddomain "github.com/casekit/lexbill/internal/leadscore/domain"
)

// Compute folds the recognized factors into a single 0..100 score. Unknown
// keys are ignored. A missing factor contributes zero and its weight is NOT
// redistributed across the factors that were supplied, so partial submissions
// cap below 100. Factor values are clamped to [0,100] before weighting.
func Compute(factors map[string]float64) int {
	var score float64
	for name, weight := range leaddomain.Weights {
		value, ok := factors[name]
		if !ok || math.IsNaN(value) {
			continue
		}
		score += clamp(value, 0, 100) * weight
	}

	rounded := math.Floor(score + 0.5)
	return int(clamp(rounded, 0, 100))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
