package usecase

import (
	"context"
	"math"
	"time"

	"github.com/maifast-lab/maifast/internal/domain/models"
	"github.com/maifast-lab/maifast/internal/domain/repository"
	"github.com/maifast-lab/maifast/internal/services/forecast"
	"github.com/maifast-lab/maifast/pkg/cache"
	xhttp "github.com/maifast-lab/maifast/pkg/http"
	"github.com/maifast-lab/maifast/pkg/logger"
	"github.com/maifast-lab/maifast/pkg/util"
)

// recentWindow is how many of the latest real points feed a forecast.
const recentWindow = 20

// PredictionEngine generates and persists rolling-mean forecasts. Repeated
// calls without new uploads chain forward: each forecast's target becomes part
// of the next forecast's effective history.
type PredictionEngine struct {
	series      repository.SeriesStore
	points      repository.PointStore
	predictions repository.PredictionStore
	publisher   repository.Publisher
	cache       cache.Service
	metrics     repository.Metrics
	locks       *SeriesLocks
	logger      *logger.Logger

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewPredictionEngine creates a PredictionEngine. publisher may be nil when
// messaging is disabled.
func NewPredictionEngine(
	series repository.SeriesStore,
	points repository.PointStore,
	predictions repository.PredictionStore,
	publisher repository.Publisher,
	cacheService cache.Service,
	metrics repository.Metrics,
	locks *SeriesLocks,
	l *logger.Logger,
) *PredictionEngine {
	return &PredictionEngine{
		series:      series,
		points:      points,
		predictions: predictions,
		publisher:   publisher,
		cache:       cacheService,
		metrics:     metrics,
		locks:       locks,
		logger:      l,
		now:         time.Now,
	}
}

// Predict computes, persists, and returns the next forecast for seriesID.
//
// Target selection: when today's date is already present among the recent real
// points the forecast targets today; otherwise it targets one cadence step
// past the latest known date, where "latest known" includes previously
// predicted target dates beyond the real-data frontier.
func (e *PredictionEngine) Predict(ctx context.Context, seriesID string) (*models.PredictionResult, error) {
	start := time.Now()

	s, err := e.series.Get(ctx, seriesID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, xhttp.NotFoundError("Series not found")
		}
		e.metrics.RecordError("storage")
		return nil, err
	}
	if s.FrequencyDays == nil {
		return nil, xhttp.BadRequestError("Cannot predict without data history / frequency.")
	}
	freq := *s.FrequencyDays

	unlock := e.locks.Lock(seriesID)
	defer unlock()

	recent, err := e.points.LatestN(ctx, seriesID, recentWindow)
	if err != nil {
		e.metrics.RecordError("storage")
		return nil, err
	}
	if len(recent) == 0 {
		return nil, xhttp.BadRequestError("Not enough data to predict.")
	}
	lastReal := recent[len(recent)-1].Date

	today := util.FormatDay(e.now())
	hasToday := false
	for _, p := range recent {
		if p.Date == today {
			hasToday = true
			break
		}
	}

	var target string
	if hasToday {
		target = today
	} else {
		// Chain past earlier forecasts: the next target steps one cadence
		// beyond the latest of real frontier and predicted targets.
		latest := lastReal
		ahead, err := e.predictions.TargetAfter(ctx, seriesID, lastReal)
		if err != nil {
			e.metrics.RecordError("storage")
			return nil, err
		}
		if len(ahead) > 0 {
			latest = ahead[len(ahead)-1].TargetDate
		}
		target = util.AddDays(latest, freq)
	}

	window := make([]forecast.Point, 0, len(recent)+4)
	for _, p := range recent {
		window = append(window, forecast.Point{Date: p.Date, Value: p.Value})
	}
	// Predictions strictly between the real frontier and the target count as
	// history so chained forecasts build on each other.
	bridge, err := e.predictions.TargetBetween(ctx, seriesID, lastReal, target)
	if err != nil {
		e.metrics.RecordError("storage")
		return nil, err
	}
	for _, p := range bridge {
		window = append(window, forecast.Point{Date: p.TargetDate, Value: p.PredictedValue})
	}

	value := forecast.RollingMean(window, forecast.DefaultWindow)

	// Integer-valued series stay integer-valued: when every sampled real
	// point is integral, round the forecast.
	if allIntegral(recent) {
		value = math.Round(value)
	}
	if s.MinBound != nil && value < *s.MinBound {
		value = *s.MinBound
	}
	if s.MaxBound != nil && value > *s.MaxBound {
		value = *s.MaxBound
	}

	pred := &models.Prediction{
		ID:               newID(),
		SeriesID:         seriesID,
		TargetDate:       target,
		PredictedValue:   value,
		AlgorithmVersion: forecast.AlgorithmVersion,
		BasedOnLastDate:  lastReal,
		CreatedAt:        time.Now().UTC(),
	}
	if err := e.predictions.Insert(ctx, pred); err != nil {
		e.metrics.RecordError("storage")
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Delete(ctx, detailCacheKey(seriesID)); err != nil {
			e.logger.Warn("detail cache invalidation failed",
				logger.String("series_id", seriesID),
				logger.Error(err))
		}
	}

	e.metrics.RecordPrediction(forecast.AlgorithmVersion)
	e.metrics.RecordLatency("predict", time.Since(start).Seconds())

	if e.publisher != nil {
		if err := e.publisher.PublishPredicted(ctx, pred); err != nil {
			e.logger.Warn("publish predicted event failed",
				logger.String("series_id", seriesID),
				logger.Error(err))
		}
	}

	e.logger.Info("prediction generated",
		logger.String("series_id", seriesID),
		logger.String("target_date", target),
		logger.Float64("value", value))

	return &models.PredictionResult{
		Prediction: value,
		TargetDate: target,
		Algorithm:  forecast.AlgorithmVersion,
	}, nil
}

func allIntegral(points []models.DataPoint) bool {
	for _, p := range points {
		if p.Value != math.Trunc(p.Value) {
			return false
		}
	}
	return true
}
