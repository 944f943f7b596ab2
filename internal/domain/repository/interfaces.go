package repository

import (
	"context"
	"errors"

	"github.com/maifast-lab/maifast/internal/domain/models"
)

// ErrNotFound is returned by stores when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// SeriesStore persists series metadata.
type SeriesStore interface {
	Create(ctx context.Context, s *models.Series) error
	Get(ctx context.Context, id string) (*models.Series, error)
	List(ctx context.Context) ([]models.Series, error)
	SetFrequency(ctx context.Context, id string, days int) error
	SetLastDate(ctx context.Context, id, day string) error
	SoftDelete(ctx context.Context, id string) error
}

// PointStore persists observed data points. (series, date) is unique and
// append-only; the store never overwrites.
type PointStore interface {
	MaxDate(ctx context.Context, seriesID string) (string, error) // "" when empty
	InsertBatch(ctx context.Context, points []models.DataPoint) error
	History(ctx context.Context, seriesID string) ([]models.DataPoint, error)        // ascending by date
	LatestN(ctx context.Context, seriesID string, n int) ([]models.DataPoint, error) // ascending by date
}

// PredictionStore persists forecasts (append-only).
type PredictionStore interface {
	Insert(ctx context.Context, p *models.Prediction) error
	BySeries(ctx context.Context, seriesID string) ([]models.Prediction, error)                     // ascending by target date
	TargetAfter(ctx context.Context, seriesID, day string) ([]models.Prediction, error)             // targetDate > day, ascending
	TargetBetween(ctx context.Context, seriesID, after, before string) ([]models.Prediction, error) // strictly between, ascending
	ByTargetDates(ctx context.Context, seriesID string, dates []string) ([]models.Prediction, error)
}

// EvaluationStore persists at-most-one evaluation per prediction.
type EvaluationStore interface {
	Insert(ctx context.Context, e *models.Evaluation) error
	Exists(ctx context.Context, predictionID string) (bool, error)
	ByPredictionIDs(ctx context.Context, predictionIDs []string) (map[string]models.Evaluation, error)
}

// MessageStore persists conversation turns.
type MessageStore interface {
	Insert(ctx context.Context, m *models.Message) error
	BySeries(ctx context.Context, seriesID string, limit int) ([]models.Message, error) // ascending by creation
}

// ChunkStore persists embedded context chunks for retrieval.
type ChunkStore interface {
	Insert(ctx context.Context, c *models.ContextChunk) error
	BySeries(ctx context.Context, seriesID string, limit int) ([]models.ContextChunk, error)
}

// Publisher emits best-effort audit events; failures never surface to callers.
type Publisher interface {
	PublishIngested(ctx context.Context, seriesID string, added, skipped int) error
	PublishPredicted(ctx context.Context, p *models.Prediction) error
	Close() error
}

// Metrics records domain-level counters and latencies.
type Metrics interface {
	RecordUpload(result string)
	RecordRows(outcome string, n int)
	RecordPrediction(algorithm string)
	RecordEvaluation()
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
