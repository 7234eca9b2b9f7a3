package content

import "github.com/duskforge/labyrinth/internal/dice"

// pickWeighted draws an index in [0,len(weights)) with probability
// proportional to each weight. Non-positive weights never win. If every
// weight is non-positive it falls back to a uniform pick so callers never
// get stuck with zero candidates.
func pickWeighted(r *dice.Roller, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		if len(weights) == 0 {
			return -1
		}
		return r.Intn(len(weights))
	}
	draw := r.Float64() * total
	acc := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if draw < acc {
			return i
		}
	}
	return len(weights) - 1
}
