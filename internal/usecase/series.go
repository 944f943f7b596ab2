package usecase

import (
	"context"
	"time"

	"github.com/maifast-lab/maifast/internal/domain/models"
	"github.com/maifast-lab/maifast/internal/domain/repository"
	"github.com/maifast-lab/maifast/pkg/cache"
	xhttp "github.com/maifast-lab/maifast/pkg/http"
	"github.com/maifast-lab/maifast/pkg/logger"
)

func detailCacheKey(seriesID string) string {
	return "series:detail:" + seriesID
}

// SeriesService handles series lifecycle and the aggregated read path.
type SeriesService struct {
	series      repository.SeriesStore
	points      repository.PointStore
	predictions repository.PredictionStore
	evaluations repository.EvaluationStore
	cache       cache.Service
	detailTTL   time.Duration
	logger      *logger.Logger
}

// NewSeriesService creates a SeriesService.
func NewSeriesService(
	series repository.SeriesStore,
	points repository.PointStore,
	predictions repository.PredictionStore,
	evaluations repository.EvaluationStore,
	cacheService cache.Service,
	detailTTL time.Duration,
	l *logger.Logger,
) *SeriesService {
	return &SeriesService{
		series:      series,
		points:      points,
		predictions: predictions,
		evaluations: evaluations,
		cache:       cacheService,
		detailTTL:   detailTTL,
		logger:      l,
	}
}

// Create registers a new series. Bounds, when both present, must be ordered.
func (s *SeriesService) Create(ctx context.Context, req *models.CreateSeriesRequest) (*models.Series, error) {
	if req.MinBound != nil && req.MaxBound != nil && *req.MinBound > *req.MaxBound {
		return nil, xhttp.BadRequestError("minBound must not exceed maxBound.")
	}

	series := &models.Series{
		ID:        newID(),
		Company:   req.Company,
		Place:     req.Place,
		MinBound:  req.MinBound,
		MaxBound:  req.MaxBound,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.series.Create(ctx, series); err != nil {
		return nil, err
	}

	s.logger.Info("series created",
		logger.String("series_id", series.ID),
		logger.String("company", series.Company),
		logger.String("place", series.Place))

	return series, nil
}

// List returns all non-deleted series.
func (s *SeriesService) List(ctx context.Context) ([]models.Series, error) {
	return s.series.List(ctx)
}

// Detail returns the full read model for one series: metadata, complete
// history ascending, and every prediction with its evaluation when available.
// Served from cache when possible; writes invalidate.
func (s *SeriesService) Detail(ctx context.Context, seriesID string) (*models.SeriesDetail, error) {
	if s.cache != nil {
		var cached models.SeriesDetail
		err := s.cache.Get(ctx, detailCacheKey(seriesID), &cached)
		if err == nil {
			return &cached, nil
		}
		if err != cache.ErrCacheMiss {
			s.logger.Warn("detail cache read failed",
				logger.String("series_id", seriesID),
				logger.Error(err))
		}
	}

	series, err := s.series.Get(ctx, seriesID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, xhttp.NotFoundError("Series not found")
		}
		return nil, err
	}

	history, err := s.points.History(ctx, seriesID)
	if err != nil {
		return nil, err
	}

	preds, err := s.predictions.BySeries(ctx, seriesID)
	if err != nil {
		return nil, err
	}

	detail := &models.SeriesDetail{
		Series:      *series,
		History:     history,
		Predictions: make([]models.PredictionWithEvaluation, 0, len(preds)),
	}

	if len(preds) > 0 {
		ids := make([]string, len(preds))
		for i, p := range preds {
			ids[i] = p.ID
		}
		evals, err := s.evaluations.ByPredictionIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, p := range preds {
			pe := models.PredictionWithEvaluation{Prediction: p}
			if ev, ok := evals[p.ID]; ok {
				evCopy := ev
				pe.Evaluation = &evCopy
			}
			detail.Predictions = append(detail.Predictions, pe)
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, detailCacheKey(seriesID), detail, s.detailTTL); err != nil {
			s.logger.Warn("detail cache write failed",
				logger.String("series_id", seriesID),
				logger.Error(err))
		}
	}

	return detail, nil
}

// Delete soft-deletes a series. History, predictions, and evaluations stay on
// disk; the series just stops appearing in reads.
func (s *SeriesService) Delete(ctx context.Context, seriesID string) error {
	if _, err := s.series.Get(ctx, seriesID); err != nil {
		if err == repository.ErrNotFound {
			return xhttp.NotFoundError("Series not found")
		}
		return err
	}
	if err := s.series.SoftDelete(ctx, seriesID); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, detailCacheKey(seriesID)); err != nil {
			s.logger.Warn("detail cache invalidation failed",
				logger.String("series_id", seriesID),
				logger.Error(err))
		}
	}

	s.logger.Info("series deleted", logger.String("series_id", seriesID))
	return nil
}
