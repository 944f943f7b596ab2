package usecase

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/maifast-lab/maifast/internal/domain/models"
	"github.com/maifast-lab/maifast/internal/domain/repository"
	"github.com/maifast-lab/maifast/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return l
}

type fakeSeriesStore struct {
	mu     sync.Mutex
	series map[string]*models.Series
}

func newFakeSeriesStore() *fakeSeriesStore {
	return &fakeSeriesStore{series: make(map[string]*models.Series)}
}

func (f *fakeSeriesStore) Create(_ context.Context, s *models.Series) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.series[s.ID] = &cp
	return nil
}

func (f *fakeSeriesStore) Get(_ context.Context, id string) (*models.Series, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.series[id]
	if !ok || s.IsDeleted {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSeriesStore) List(_ context.Context) ([]models.Series, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Series
	for _, s := range f.series {
		if !s.IsDeleted {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSeriesStore) SetFrequency(_ context.Context, id string, days int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.series[id].FrequencyDays = &days
	return nil
}

func (f *fakeSeriesStore) SetLastDate(_ context.Context, id, day string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.series[id].LastDate = day
	return nil
}

func (f *fakeSeriesStore) SoftDelete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.series[id].IsDeleted = true
	return nil
}

type fakePointStore struct {
	mu     sync.Mutex
	points map[string][]models.DataPoint
}

func newFakePointStore() *fakePointStore {
	return &fakePointStore{points: make(map[string][]models.DataPoint)}
}

func (f *fakePointStore) sorted(seriesID string) []models.DataPoint {
	pts := append([]models.DataPoint(nil), f.points[seriesID]...)
	sort.Slice(pts, func(i, j int) bool { return pts[i].Date < pts[j].Date })
	return pts
}

func (f *fakePointStore) MaxDate(_ context.Context, seriesID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pts := f.sorted(seriesID)
	if len(pts) == 0 {
		return "", nil
	}
	return pts[len(pts)-1].Date, nil
}

func (f *fakePointStore) InsertBatch(_ context.Context, points []models.DataPoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range points {
		f.points[p.SeriesID] = append(f.points[p.SeriesID], p)
	}
	return nil
}

func (f *fakePointStore) History(_ context.Context, seriesID string) ([]models.DataPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(seriesID), nil
}

func (f *fakePointStore) LatestN(_ context.Context, seriesID string, n int) ([]models.DataPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pts := f.sorted(seriesID)
	if len(pts) > n {
		pts = pts[len(pts)-n:]
	}
	return pts, nil
}

type fakePredictionStore struct {
	mu    sync.Mutex
	preds map[string][]models.Prediction
}

func newFakePredictionStore() *fakePredictionStore {
	return &fakePredictionStore{preds: make(map[string][]models.Prediction)}
}

func (f *fakePredictionStore) sorted(seriesID string) []models.Prediction {
	ps := append([]models.Prediction(nil), f.preds[seriesID]...)
	sort.Slice(ps, func(i, j int) bool { return ps[i].TargetDate < ps[j].TargetDate })
	return ps
}

func (f *fakePredictionStore) Insert(_ context.Context, p *models.Prediction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.preds[p.SeriesID] = append(f.preds[p.SeriesID], *p)
	return nil
}

func (f *fakePredictionStore) BySeries(_ context.Context, seriesID string) ([]models.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(seriesID), nil
}

func (f *fakePredictionStore) TargetAfter(_ context.Context, seriesID, day string) ([]models.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Prediction
	for _, p := range f.sorted(seriesID) {
		if p.TargetDate > day {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePredictionStore) TargetBetween(_ context.Context, seriesID, after, before string) ([]models.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Prediction
	for _, p := range f.sorted(seriesID) {
		if p.TargetDate > after && p.TargetDate < before {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePredictionStore) ByTargetDates(_ context.Context, seriesID string, dates []string) ([]models.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set := make(map[string]bool, len(dates))
	for _, d := range dates {
		set[d] = true
	}
	var out []models.Prediction
	for _, p := range f.sorted(seriesID) {
		if set[p.TargetDate] {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeEvaluationStore struct {
	mu    sync.Mutex
	evals map[string]models.Evaluation
}

func newFakeEvaluationStore() *fakeEvaluationStore {
	return &fakeEvaluationStore{evals: make(map[string]models.Evaluation)}
}

func (f *fakeEvaluationStore) Insert(_ context.Context, e *models.Evaluation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evals[e.PredictionID] = *e
	return nil
}

func (f *fakeEvaluationStore) Exists(_ context.Context, predictionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.evals[predictionID]
	return ok, nil
}

func (f *fakeEvaluationStore) ByPredictionIDs(_ context.Context, ids []string) (map[string]models.Evaluation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]models.Evaluation)
	for _, id := range ids {
		if e, ok := f.evals[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	ingested  int
	predicted int
}

func (f *fakePublisher) PublishIngested(context.Context, string, int, int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ingested++
	return nil
}

func (f *fakePublisher) PublishPredicted(context.Context, *models.Prediction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.predicted++
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type fakeMetrics struct {
	mu          sync.Mutex
	uploads     map[string]int
	rows        map[string]int
	predictions int
	evaluations int
	errors      int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{uploads: make(map[string]int), rows: make(map[string]int)}
}

func (f *fakeMetrics) RecordUpload(result string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[result]++
}

func (f *fakeMetrics) RecordRows(outcome string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[outcome] += n
}

func (f *fakeMetrics) RecordPrediction(string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.predictions++
}

func (f *fakeMetrics) RecordEvaluation() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evaluations++
}

func (f *fakeMetrics) RecordError(string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors++
}

func (f *fakeMetrics) RecordLatency(string, float64) {}
