// Package metrics folds timed samples into run statistics.
package metrics

import "math"

// Aggregate is the running accumulator for one experiment: sample count,
// sum of magnitudes and signed extrema.
type Aggregate struct {
	Count  int64
	AbsSum int64
	Max    int64
	Min    int64
}

// Add folds one signed sample in nanoseconds.
func (a *Aggregate) Add(v int64) {
	if a.Count == 0 {
		a.Max, a.Min = v, v
	} else {
		if v > a.Max {
			a.Max = v
		}
		if v < a.Min {
			a.Min = v
		}
	}
	a.Count++
	a.AbsSum += abs(v)
}

// Mean is the mean magnitude. Zero for an empty aggregate.
func (a *Aggregate) Mean() float64 {
	if a.Count == 0 {
		return 0
	}
	return float64(a.AbsSum) / float64(a.Count)
}

func abs(v int64) int64 {
	if v < 0 {
		if v == math.MinInt64 {
			return math.MaxInt64
		}
		return -v
	}
	return v
}
