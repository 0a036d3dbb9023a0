package fsrs

import (
	"math"
	"math/rand"
)

type fuzzRange struct {
	start, end float64
	factor     float64
}

var fuzzRanges = []fuzzRange{
	{2.5, 7.0, 0.15},
	{7.0, 20.0, 0.10},
	{20.0, math.Inf(1), 0.05},
}

// fuzzDelta is the half-width of the fuzz window for a given interval.
func fuzzDelta(interval float64) float64 {
	delta := 1.0
	for _, r := range fuzzRanges {
		delta += r.factor * math.Max(math.Min(interval, r.end)-r.start, 0)
	}
	return delta
}

// applyFuzz jitters the interval to spread reviews out. Intervals under
// 2.5 days pass through unchanged so short reviews stay predictable.
func applyFuzz(interval, maxDays int, rng *rand.Rand) int {
	if float64(interval) < 2.5 {
		return interval
	}

	ivl := float64(interval)
	delta := fuzzDelta(ivl)

	lo := max(2, int(math.Round(ivl-delta)))
	hi := min(int(math.Round(ivl+delta)), maxDays)
	lo = min(lo, hi)

	fuzzed := lo + int(rng.Float64()*float64(hi-lo+1))
	return min(fuzzed, maxDays)
}
