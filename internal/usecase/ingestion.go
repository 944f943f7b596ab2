// Package usecase wires the domain services to storage, cache, and messaging.
// Each engine owns one write path and serializes it per series.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/maifast-lab/maifast/internal/domain/models"
	"github.com/maifast-lab/maifast/internal/domain/repository"
	"github.com/maifast-lab/maifast/internal/services/forecast"
	"github.com/maifast-lab/maifast/internal/services/ingest"
	"github.com/maifast-lab/maifast/pkg/cache"
	xhttp "github.com/maifast-lab/maifast/pkg/http"
	"github.com/maifast-lab/maifast/pkg/logger"
)

// MaxUploadBytes caps the accepted upload body size.
const MaxUploadBytes = 200 << 20 // 200MB

// UploadIndexer indexes a successful upload for later retrieval by the
// assistant. Indexing is best-effort; failures are logged, never surfaced.
type UploadIndexer interface {
	IndexUpload(ctx context.Context, s *models.Series, rows []ingest.Row, frequencyDays int) error
}

// IngestionEngine processes uploaded CSV files: validation, cadence
// enforcement, idempotent inserts, frontier advancement, and retroactive
// evaluation of matured predictions.
type IngestionEngine struct {
	series      repository.SeriesStore
	points      repository.PointStore
	predictions repository.PredictionStore
	evaluations repository.EvaluationStore
	publisher   repository.Publisher
	indexer     UploadIndexer
	cache       cache.Service
	metrics     repository.Metrics
	locks       *SeriesLocks
	logger      *logger.Logger
}

// NewIngestionEngine creates an IngestionEngine. publisher and indexer may be
// nil when the corresponding subsystem is disabled.
func NewIngestionEngine(
	series repository.SeriesStore,
	points repository.PointStore,
	predictions repository.PredictionStore,
	evaluations repository.EvaluationStore,
	publisher repository.Publisher,
	indexer UploadIndexer,
	cacheService cache.Service,
	metrics repository.Metrics,
	locks *SeriesLocks,
	l *logger.Logger,
) *IngestionEngine {
	return &IngestionEngine{
		series:      series,
		points:      points,
		predictions: predictions,
		evaluations: evaluations,
		publisher:   publisher,
		indexer:     indexer,
		cache:       cacheService,
		metrics:     metrics,
		locks:       locks,
		logger:      l,
	}
}

// Upload validates content and merges it into the series' history. Rows at or
// before the current max stored date are skipped silently; the whole file is
// rejected on any validation failure. On success the series frontier advances
// to the file's own max date and any predictions whose target date just
// received real data are evaluated.
func (e *IngestionEngine) Upload(ctx context.Context, seriesID, content string) (*models.UploadResult, error) {
	start := time.Now()

	parsed, err := ingest.ValidateCSV(content)
	if err != nil {
		e.metrics.RecordUpload("rejected")
		return nil, xhttp.BadRequestError(err.Error())
	}

	unlock := e.locks.Lock(seriesID)
	defer unlock()

	// Fetched under the lock so concurrent first uploads cannot both see an
	// unset cadence.
	s, err := e.series.Get(ctx, seriesID)
	if err != nil {
		if err == repository.ErrNotFound {
			e.metrics.RecordUpload("rejected")
			return nil, xhttp.NotFoundError("Series not found")
		}
		e.metrics.RecordError("storage")
		return nil, err
	}

	// First successful upload fixes the cadence for the life of the series;
	// later uploads must match it exactly.
	if s.FrequencyDays == nil {
		if err := e.series.SetFrequency(ctx, seriesID, parsed.FrequencyDays); err != nil {
			e.metrics.RecordError("storage")
			return nil, err
		}
		freq := parsed.FrequencyDays
		s.FrequencyDays = &freq
	} else if *s.FrequencyDays != parsed.FrequencyDays {
		e.metrics.RecordUpload("rejected")
		return nil, xhttp.BadRequestErrorf(
			"Frequency mismatch. Series is %d days, but CSV is %d days.",
			*s.FrequencyDays, parsed.FrequencyDays,
		)
	}

	maxDate, err := e.points.MaxDate(ctx, seriesID)
	if err != nil {
		e.metrics.RecordError("storage")
		return nil, err
	}

	var (
		fresh   []models.DataPoint
		skipped int
	)
	for _, row := range parsed.Rows {
		if maxDate != "" && row.Date <= maxDate {
			skipped++
			continue
		}
		fresh = append(fresh, models.DataPoint{
			SeriesID: seriesID,
			Date:     row.Date,
			Value:    row.Value,
		})
	}

	if len(fresh) > 0 {
		if err := e.points.InsertBatch(ctx, fresh); err != nil {
			e.metrics.RecordError("storage")
			return nil, err
		}
		// The frontier is the file's own max date, which after the skip
		// filter is also the last fresh row.
		lastDate := fresh[len(fresh)-1].Date
		if err := e.series.SetLastDate(ctx, seriesID, lastDate); err != nil {
			e.metrics.RecordError("storage")
			return nil, err
		}

		e.evaluatePending(ctx, seriesID, fresh)
		e.invalidateDetail(ctx, seriesID)
	}

	result := &models.UploadResult{Added: len(fresh), Skipped: skipped}

	e.metrics.RecordUpload("accepted")
	e.metrics.RecordRows("added", result.Added)
	e.metrics.RecordRows("skipped", result.Skipped)
	e.metrics.RecordLatency("upload", time.Since(start).Seconds())

	if e.publisher != nil {
		if err := e.publisher.PublishIngested(ctx, seriesID, result.Added, result.Skipped); err != nil {
			e.logger.Warn("publish ingested event failed",
				logger.String("series_id", seriesID),
				logger.Error(err))
		}
	}
	if e.indexer != nil && result.Added > 0 {
		if err := e.indexer.IndexUpload(ctx, s, parsed.Rows, parsed.FrequencyDays); err != nil {
			e.logger.Warn("context indexing failed",
				logger.String("series_id", seriesID),
				logger.Error(err))
		}
	}

	e.logger.Info("upload processed",
		logger.String("series_id", seriesID),
		logger.Int("added", result.Added),
		logger.Int("skipped", result.Skipped))

	return result, nil
}

// evaluatePending scores predictions whose target date is covered by the
// freshly inserted points. Silent and best-effort: upload results never
// mention evaluation, and evaluation errors never fail the upload.
func (e *IngestionEngine) evaluatePending(ctx context.Context, seriesID string, fresh []models.DataPoint) {
	actualByDate := make(map[string]float64, len(fresh))
	dates := make([]string, 0, len(fresh))
	for _, p := range fresh {
		actualByDate[p.Date] = p.Value
		dates = append(dates, p.Date)
	}

	matured, err := e.predictions.ByTargetDates(ctx, seriesID, dates)
	if err != nil {
		e.logger.Warn("matured prediction lookup failed",
			logger.String("series_id", seriesID),
			logger.Error(err))
		return
	}

	for _, pred := range matured {
		exists, err := e.evaluations.Exists(ctx, pred.ID)
		if err != nil {
			e.logger.Warn("evaluation existence check failed",
				logger.String("prediction_id", pred.ID),
				logger.Error(err))
			continue
		}
		if exists {
			continue
		}

		actual := actualByDate[pred.TargetDate]
		scored := forecast.Evaluate(pred.PredictedValue, actual)
		eval := &models.Evaluation{
			PredictionID:    pred.ID,
			ActualValue:     actual,
			Error:           scored.Error,
			AbsoluteError:   scored.AbsoluteError,
			PercentageError: scored.PercentageError,
			EvaluatedAt:     time.Now().UTC(),
		}
		if err := e.evaluations.Insert(ctx, eval); err != nil {
			e.logger.Warn("evaluation insert failed",
				logger.String("prediction_id", pred.ID),
				logger.Error(err))
			continue
		}
		e.metrics.RecordEvaluation()
	}
}

func (e *IngestionEngine) invalidateDetail(ctx context.Context, seriesID string) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Delete(ctx, detailCacheKey(seriesID)); err != nil {
		e.logger.Warn("detail cache invalidation failed",
			logger.String("series_id", seriesID),
			logger.Error(err))
	}
}

func newID() string {
	return uuid.NewString()
}
