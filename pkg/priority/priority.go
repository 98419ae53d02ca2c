// Package priority implements the weighted-score arithmetic the resolver
// uses to combine per-condition scores into a condition-set's match score.
package priority

// DefaultPriority is the per-condition priority value that means "no
// override": a condition declared with it takes the owning qualifier's
// default priority instead.
const DefaultPriority int16 = 0

// Range is the valid inclusive bound for a qualifier's default priority and
// any per-condition override.
const (
	MinPriority int16 = 0
	MaxPriority int16 = 1000
)

// InRange reports whether p falls within [MinPriority, MaxPriority].
func InRange(p int16) bool {
	return p >= MinPriority && p <= MaxPriority
}

// Weight converts a priority into the [0.0, 1.0] weight the resolver
// multiplies a condition's score by.
func Weight(p int16) float64 {
	return float64(p) / float64(MaxPriority)
}

// WeightedMean combines per-condition scores and priorities into a single
// condition-set score: Σ(weight_i · score_i) / Σ(weight_i). Returns 0 if
// every weight is 0 (an all-zero-priority set can never contribute).
func WeightedMean(priorities []int16, scores []float64) float64 {
	var sum, total float64
	for i, p := range priorities {
		w := Weight(p)
		sum += w * scores[i]
		total += w
	}
	if total == 0 {
		return 0
	}
	return sum / total
}
