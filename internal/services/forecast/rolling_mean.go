// Package forecast computes the rolling-mean baseline forecast and scores
// predictions against observed values.
package forecast

import (
	"math"
	"sort"
)

// AlgorithmVersion tags every persisted prediction with the algorithm that
// produced it.
const AlgorithmVersion = "mean_v1"

// DefaultWindow is the rolling-mean window size.
const DefaultWindow = 7

// Point is a dated value. Cadence-agnostic: the mean is taken over whatever
// points the caller assembles, regardless of their real spacing.
type Point struct {
	Date  string
	Value float64
}

// RollingMean sorts points chronologically and returns the arithmetic mean of
// the last min(windowSize, len) values. Empty input returns 0 by definition.
func RollingMean(points []Point, windowSize int) float64 {
	if len(points) == 0 {
		return 0
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	n := windowSize
	if len(sorted) < n {
		n = len(sorted)
	}
	window := sorted[len(sorted)-n:]

	var sum float64
	for _, p := range window {
		sum += p.Value
	}
	return sum / float64(n)
}

// EvaluationResult scores a prediction against the observed actual.
type EvaluationResult struct {
	Error           float64 // actual - predicted
	AbsoluteError   float64
	PercentageError float64
}

// Evaluate computes signed, absolute, and percentage error. When actual is
// exactly zero the percentage denominator substitutes 1 to avoid division by
// zero; the resulting percentage is inflated, not hidden.
func Evaluate(predicted, actual float64) EvaluationResult {
	err := actual - predicted
	abs := math.Abs(err)

	denom := math.Abs(actual)
	if actual == 0 {
		denom = 1
	}

	return EvaluationResult{
		Error:           err,
		AbsoluteError:   abs,
		PercentageError: abs / denom,
	}
}
