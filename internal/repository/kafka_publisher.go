package repository

import (
	"context"
	"time"

	"github.com/maifast-lab/maifast/internal/domain/models"
	pkgkafka "github.com/maifast-lab/maifast/pkg/kafka"
)

// Event types emitted on the audit topic.
const (
	EventSeriesIngested  = "series.ingested"
	EventSeriesPredicted = "series.predicted"
)

// KafkaPublisher implements Publisher on the shared producer. Events are keyed
// by series so consumers see each series' history in order.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

type ingestedEvent struct {
	Type     string    `json:"type"`
	SeriesID string    `json:"seriesId"`
	Added    int       `json:"added"`
	Skipped  int       `json:"skipped"`
	At       time.Time `json:"at"`
}

type predictedEvent struct {
	Type           string    `json:"type"`
	SeriesID       string    `json:"seriesId"`
	PredictionID   string    `json:"predictionId"`
	TargetDate     string    `json:"targetDate"`
	PredictedValue float64   `json:"predictedValue"`
	Algorithm      string    `json:"algorithm"`
	At             time.Time `json:"at"`
}

func (p *KafkaPublisher) PublishIngested(ctx context.Context, seriesID string, added, skipped int) error {
	return p.producer.Publish(ctx, p.topic, []byte(seriesID), ingestedEvent{
		Type:     EventSeriesIngested,
		SeriesID: seriesID,
		Added:    added,
		Skipped:  skipped,
		At:       time.Now().UTC(),
	})
}

func (p *KafkaPublisher) PublishPredicted(ctx context.Context, pred *models.Prediction) error {
	return p.producer.Publish(ctx, p.topic, []byte(pred.SeriesID), predictedEvent{
		Type:           EventSeriesPredicted,
		SeriesID:       pred.SeriesID,
		PredictionID:   pred.ID,
		TargetDate:     pred.TargetDate,
		PredictedValue: pred.PredictedValue,
		Algorithm:      pred.AlgorithmVersion,
		At:             time.Now().UTC(),
	})
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
