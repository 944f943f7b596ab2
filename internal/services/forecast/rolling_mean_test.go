package forecast

import (
	"fmt"
	"testing"
)

func TestRollingMeanEmptyInput(t *testing.T) {
	if got := RollingMean(nil, DefaultWindow); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestRollingMeanSinglePoint(t *testing.T) {
	got := RollingMean([]Point{{Date: "2024-01-01", Value: 10}}, DefaultWindow)
	if got != 10 {
		t.Fatalf("expected 10, got %v", got)
	}
}

func TestRollingMeanWindowTrimsOldest(t *testing.T) {
	// Eight consecutive daily values 1..8: the 7-window covers 2..8, mean 5.
	points := make([]Point, 0, 8)
	for i := 1; i <= 8; i++ {
		points = append(points, Point{Date: fmt.Sprintf("2024-01-%02d", i), Value: float64(i)})
	}
	if got := RollingMean(points, 7); got != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
}

func TestRollingMeanSortsInput(t *testing.T) {
	// Unordered input; only the chronologically newest two fall in a 2-window.
	points := []Point{
		{Date: "2024-01-03", Value: 30},
		{Date: "2024-01-01", Value: 1},
		{Date: "2024-01-02", Value: 10},
	}
	if got := RollingMean(points, 2); got != 20 {
		t.Fatalf("expected 20, got %v", got)
	}
}

func TestRollingMeanDoesNotMutateInput(t *testing.T) {
	points := []Point{
		{Date: "2024-01-02", Value: 2},
		{Date: "2024-01-01", Value: 1},
	}
	_ = RollingMean(points, 7)
	if points[0].Date != "2024-01-02" {
		t.Fatalf("input slice reordered")
	}
}

func TestEvaluateSignedAndAbsolute(t *testing.T) {
	res := Evaluate(10, 12)
	if res.Error != 2 || res.AbsoluteError != 2 {
		t.Fatalf("unexpected errors %+v", res)
	}
	if res.PercentageError != 2.0/12.0 {
		t.Fatalf("unexpected percentage %v", res.PercentageError)
	}
}

func TestEvaluateNegativeError(t *testing.T) {
	res := Evaluate(12, 10)
	if res.Error != -2 || res.AbsoluteError != 2 {
		t.Fatalf("unexpected errors %+v", res)
	}
}

func TestEvaluateZeroActualGuard(t *testing.T) {
	res := Evaluate(5, 0)
	if res.PercentageError != 5 {
		t.Fatalf("expected inflated percentage 5, got %v", res.PercentageError)
	}
}
