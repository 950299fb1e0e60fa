// Package metrics derives scalar attention metrics from per-app usage.
package metrics

import (
	"math"
	"sort"
)

// UsageRecord maps an application name to seconds of use.
type UsageRecord map[string]float64

// Entropy thresholds used by Level. Display only; nothing else reads them.
const (
	focusedBelow    = 1.0
	fragmentedAbove = 2.0
)

// Entropy returns the Shannon entropy, in bits, of the distribution formed by
// normalising each value in u by the sum of all values. The result is rounded
// to two decimals. A zero sum, including an empty map, yields exactly 0.
func Entropy(u UsageRecord) float64 {
	vs := sortedValues(u)
	total := Total(u)
	if total == 0 {
		return 0
	}
	if math.IsInf(total, 0) {
		// Entropy is scale invariant; shrink so the sum fits.
		scale := float64(2 * len(vs))
		for i := range vs {
			vs[i] /= scale
		}
		total = 0
		for _, v := range vs {
			total += v
		}
	}

	var h float64
	for _, v := range vs {
		if v <= 0 {
			continue // 0·log2(0) = 0
		}
		p := v / total
		h -= p * math.Log2(p)
	}
	// Rounding can leave -0 for a single-outcome distribution.
	return math.Abs(Round2(h))
}

// Total sums the values of u in ascending order, so the result depends only
// on the multiset of values and not on map iteration or app names.
func Total(u UsageRecord) float64 {
	var total float64
	for _, v := range sortedValues(u) {
		total += v
	}
	return total
}

// Round2 rounds x to two decimal places, halves away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Level labels an entropy value as "focused", "balanced" or "fragmented".
func Level(entropy float64) string {
	switch {
	case entropy < focusedBelow:
		return "focused"
	case entropy < fragmentedAbove:
		return "balanced"
	default:
		return "fragmented"
	}
}

func sortedValues(u UsageRecord) []float64 {
	vs := make([]float64, 0, len(u))
	for _, v := range u {
		vs = append(vs, v)
	}
	sort.Float64s(vs)
	return vs
}
