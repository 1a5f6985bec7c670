package generator

import (
	"math"
	"math/rand/v2"
)

// weightedChoice picks one value with probability proportional to its weight.
func weightedChoice[T any](r *rand.Rand, values []T, weights []float64) T {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	target := r.Float64() * total
	for i, w := range weights {
		target -= w
		if target < 0 {
			return values[i]
		}
	}
	return values[len(values)-1]
}

// choice picks one value uniformly.
func choice[T any](r *rand.Rand, values []T) T {
	return values[r.IntN(len(values))]
}

// sampleWithoutReplacement picks up to k distinct values. Draw order is the
// permutation order; subset rules downstream rely on it being stable.
func sampleWithoutReplacement[T any](r *rand.Rand, values []T, k int) []T {
	if k > len(values) {
		k = len(values)
	}
	if k <= 0 {
		return nil
	}
	out := make([]T, 0, k)
	for _, idx := range r.Perm(len(values))[:k] {
		out = append(out, values[idx])
	}
	return out
}

// intBetween returns a uniform integer in [lo, hi] inclusive.
func intBetween(r *rand.Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}

// floatBetween returns a uniform float in [lo, hi).
func floatBetween(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// normal draws from a Normal(mean, stddev) distribution.
func normal(r *rand.Rand, mean, stddev float64) float64 {
	return r.NormFloat64()*stddev + mean
}

// round2 rounds half away from zero to 2 decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
