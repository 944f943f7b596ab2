package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/maifast-lab/maifast/internal/domain/models"
	xhttp "github.com/maifast-lab/maifast/pkg/http"
)

// fixNow pins the engine clock to a date far from any test data so the
// today-in-dataset branch stays off unless a test opts in.
func fixNow(env *testEnv, day string) {
	t, _ := time.Parse("2006-01-02", day)
	env.prediction.now = func() time.Time { return t }
}

func seedPoints(t *testing.T, env *testEnv, seriesID string, rows ...models.DataPoint) {
	t.Helper()
	for i := range rows {
		rows[i].SeriesID = seriesID
	}
	if err := env.points.InsertBatch(context.Background(), rows); err != nil {
		t.Fatalf("seed points: %v", err)
	}
}

func TestPredictWithoutFrequency(t *testing.T) {
	env := newTestEnv(t)
	env.addSeries(t, "s1", nil)

	_, err := env.prediction.Predict(context.Background(), "s1")
	appErr, ok := err.(*xhttp.AppError)
	if !ok || appErr.Status != 400 {
		t.Fatalf("expected 400 AppError, got %v", err)
	}
	if appErr.Message != "Cannot predict without data history / frequency." {
		t.Fatalf("unexpected message: %q", appErr.Message)
	}
}

func TestPredictWithoutPoints(t *testing.T) {
	env := newTestEnv(t)
	freq := 1
	env.addSeries(t, "s1", &freq)
	fixNow(env, "2030-01-01")

	_, err := env.prediction.Predict(context.Background(), "s1")
	appErr, ok := err.(*xhttp.AppError)
	if !ok || appErr.Status != 400 || appErr.Message != "Not enough data to predict." {
		t.Fatalf("expected not-enough-data 400, got %v", err)
	}
}

func TestPredictUnknownSeries(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.prediction.Predict(context.Background(), "missing")
	appErr, ok := err.(*xhttp.AppError)
	if !ok || appErr.Status != 404 {
		t.Fatalf("expected 404 AppError, got %v", err)
	}
}

func TestPredictRollingMeanOverLastSeven(t *testing.T) {
	env := newTestEnv(t)
	freq := 1
	env.addSeries(t, "s1", &freq)
	fixNow(env, "2030-01-01")

	// 2024-01-01..08 with values 1..8; the last 7 average to 5.
	var rows []models.DataPoint
	for i := 0; i < 8; i++ {
		rows = append(rows, models.DataPoint{
			Date:  time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			Value: float64(i + 1),
		})
	}
	seedPoints(t, env, "s1", rows...)

	res, err := env.prediction.Predict(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if res.Prediction != 5 {
		t.Fatalf("prediction = %v, want 5", res.Prediction)
	}
	if res.TargetDate != "2024-01-09" {
		t.Fatalf("targetDate = %q, want 2024-01-09", res.TargetDate)
	}
	if res.Algorithm != "mean_v1" {
		t.Fatalf("algorithm = %q", res.Algorithm)
	}

	stored, _ := env.preds.BySeries(context.Background(), "s1")
	if len(stored) != 1 {
		t.Fatalf("stored %d predictions, want 1", len(stored))
	}
	if stored[0].BasedOnLastDate != "2024-01-08" {
		t.Fatalf("basedOnLastDate = %q", stored[0].BasedOnLastDate)
	}
	if env.pub.predicted != 1 {
		t.Fatalf("predicted events = %d, want 1", env.pub.predicted)
	}
}

func TestPredictChainsForwardWithoutNewData(t *testing.T) {
	env := newTestEnv(t)
	freq := 1
	env.addSeries(t, "s1", &freq)
	fixNow(env, "2030-01-01")

	seedPoints(t, env, "s1",
		models.DataPoint{Date: "2024-01-01", Value: 10},
		models.DataPoint{Date: "2024-01-02", Value: 10},
		models.DataPoint{Date: "2024-01-03", Value: 10},
	)

	first, err := env.prediction.Predict(context.Background(), "s1")
	if err != nil {
		t.Fatalf("first Predict: %v", err)
	}
	if first.TargetDate != "2024-01-04" || first.Prediction != 10 {
		t.Fatalf("first prediction: %+v", first)
	}

	second, err := env.prediction.Predict(context.Background(), "s1")
	if err != nil {
		t.Fatalf("second Predict: %v", err)
	}
	// The first forecast becomes effective history for the second.
	if second.TargetDate != "2024-01-05" {
		t.Fatalf("second targetDate = %q, want 2024-01-05", second.TargetDate)
	}
	if second.Prediction != 10 {
		t.Fatalf("second prediction = %v, want 10", second.Prediction)
	}

	stored, _ := env.preds.BySeries(context.Background(), "s1")
	if len(stored) != 2 {
		t.Fatalf("stored %d predictions, want 2", len(stored))
	}
	// BasedOnLastDate stays pinned to the real-data frontier.
	if stored[1].BasedOnLastDate != "2024-01-03" {
		t.Fatalf("basedOnLastDate = %q, want 2024-01-03", stored[1].BasedOnLastDate)
	}
}

func TestPredictTargetsTodayWhenPresent(t *testing.T) {
	env := newTestEnv(t)
	freq := 1
	env.addSeries(t, "s1", &freq)
	fixNow(env, "2024-01-03")

	seedPoints(t, env, "s1",
		models.DataPoint{Date: "2024-01-01", Value: 10},
		models.DataPoint{Date: "2024-01-02", Value: 20},
		models.DataPoint{Date: "2024-01-03", Value: 30},
	)

	res, err := env.prediction.Predict(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if res.TargetDate != "2024-01-03" {
		t.Fatalf("targetDate = %q, want today", res.TargetDate)
	}
	if res.Prediction != 20 {
		t.Fatalf("prediction = %v, want 20", res.Prediction)
	}
}

func TestPredictRoundsIntegerSeries(t *testing.T) {
	env := newTestEnv(t)
	freq := 1
	env.addSeries(t, "s1", &freq)
	fixNow(env, "2030-01-01")

	seedPoints(t, env, "s1",
		models.DataPoint{Date: "2024-01-01", Value: 1},
		models.DataPoint{Date: "2024-01-02", Value: 2},
	)

	res, err := env.prediction.Predict(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if res.Prediction != 2 {
		t.Fatalf("prediction = %v, want rounded 2", res.Prediction)
	}
}

func TestPredictKeepsFractionsForRealSeries(t *testing.T) {
	env := newTestEnv(t)
	freq := 1
	env.addSeries(t, "s1", &freq)
	fixNow(env, "2030-01-01")

	seedPoints(t, env, "s1",
		models.DataPoint{Date: "2024-01-01", Value: 1.5},
		models.DataPoint{Date: "2024-01-02", Value: 2},
	)

	res, err := env.prediction.Predict(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if res.Prediction != 1.75 {
		t.Fatalf("prediction = %v, want 1.75", res.Prediction)
	}
}

func TestPredictClampsToBounds(t *testing.T) {
	env := newTestEnv(t)
	freq := 1
	minBound := 100.0
	if err := env.series.Create(context.Background(), &models.Series{
		ID: "s1", Company: "water consumption", Place: "Berlin",
		FrequencyDays: &freq, MinBound: &minBound,
	}); err != nil {
		t.Fatalf("seed series: %v", err)
	}
	fixNow(env, "2030-01-01")

	seedPoints(t, env, "s1",
		models.DataPoint{Date: "2024-01-01", Value: 80},
		models.DataPoint{Date: "2024-01-02", Value: 80},
	)

	res, err := env.prediction.Predict(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if res.Prediction != 100 {
		t.Fatalf("prediction = %v, want clamped 100", res.Prediction)
	}
}

func TestPredictWeeklyCadenceSteps(t *testing.T) {
	env := newTestEnv(t)
	freq := 7
	env.addSeries(t, "s1", &freq)
	fixNow(env, "2030-01-01")

	seedPoints(t, env, "s1",
		models.DataPoint{Date: "2024-01-01", Value: 10},
		models.DataPoint{Date: "2024-01-08", Value: 20},
	)

	res, err := env.prediction.Predict(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if res.TargetDate != "2024-01-15" {
		t.Fatalf("targetDate = %q, want 2024-01-15", res.TargetDate)
	}
}
