package analyzer

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property (scoring boundary): weightedScore never exceeds its own
// weight and is never negative, for any optimal/actual pair.
func TestProperty_WeightedScoreStaysWithinItsWeight(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("weightedScore is always in [0, weight]", prop.ForAll(
		func(optimal, actual, weight int) bool {
			got := weightedScore(optimal, actual, weight)
			return got >= 0 && got <= weight
		},
		gen.IntRange(0, 10000),
		gen.IntRange(-10000, 10000),
		gen.IntRange(0, 100),
	))

	properties.Property("weightedScore at the optimal actual value scores the full weight", prop.ForAll(
		func(optimal, weight int) bool {
			if optimal < 1 {
				optimal = 1
			}
			return weightedScore(optimal, optimal, weight) == weight
		},
		gen.IntRange(1, 10000),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property (scoring boundary): starsFor is monotonic non-decreasing in
// score, and every star count it can return maps back to a score range
// consistent with the fixed thresholds.
func TestProperty_StarsForIsMonotonic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("a higher or equal score never yields fewer stars", prop.ForAll(
		func(a, b int) bool {
			if a > b {
				a, b = b, a
			}
			return starsFor(a) <= starsFor(b)
		},
		gen.IntRange(-50, 150),
		gen.IntRange(-50, 150),
	))

	properties.Property("starsFor never returns outside 0..5", prop.ForAll(
		func(score int) bool {
			s := starsFor(score)
			return s >= 0 && s <= 5
		},
		gen.IntRange(-1000, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property (scoring boundary): clamp always returns a value inside the
// requested bounds, and is idempotent.
func TestProperty_ClampIsIdempotentAndBounded(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("clamp(v, lo, hi) is always within [lo, hi] and idempotent", prop.ForAll(
		func(v, lo, hi int) bool {
			if lo > hi {
				lo, hi = hi, lo
			}
			once := clamp(v, lo, hi)
			twice := clamp(once, lo, hi)
			return once >= lo && once <= hi && once == twice
		},
		gen.IntRange(-10000, 10000),
		gen.IntRange(-100, 100),
		gen.IntRange(-100, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
