package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/maifast-lab/maifast/internal/domain/models"
	pkgch "github.com/maifast-lab/maifast/pkg/clickhouse"
	applogger "github.com/maifast-lab/maifast/pkg/logger"
)

// CHPredictionStore implements PredictionStore backed by ClickHouse.
type CHPredictionStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHPredictionStore(ch *pkgch.Client, l *applogger.Logger) *CHPredictionStore {
	return &CHPredictionStore{db: ch.DB(), l: l}
}

const predictionColumns = `id, series_id, target_date, predicted_value, algorithm_version, based_on_last_date, created_at`

func (s *CHPredictionStore) Insert(ctx context.Context, p *models.Prediction) error {
	const q = `
        INSERT INTO maifast.predictions
            (id, series_id, target_date, predicted_value, algorithm_version, based_on_last_date, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	_, err := s.db.ExecContext(ctx, q,
		p.ID, p.SeriesID, p.TargetDate, p.PredictedValue,
		p.AlgorithmVersion, p.BasedOnLastDate, p.CreatedAt,
	)
	if err != nil {
		s.l.Error("clickhouse prediction insert error",
			applogger.String("series_id", p.SeriesID),
			applogger.String("target_date", p.TargetDate),
			applogger.Error(err))
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

func (s *CHPredictionStore) BySeries(ctx context.Context, seriesID string) ([]models.Prediction, error) {
	q := fmt.Sprintf(`
        SELECT %s FROM maifast.predictions
        WHERE series_id = ?
        ORDER BY target_date ASC, created_at ASC
    `, predictionColumns)
	return s.queryPredictions(ctx, q, seriesID)
}

func (s *CHPredictionStore) TargetAfter(ctx context.Context, seriesID, day string) ([]models.Prediction, error) {
	q := fmt.Sprintf(`
        SELECT %s FROM maifast.predictions
        WHERE series_id = ? AND target_date > ?
        ORDER BY target_date ASC
    `, predictionColumns)
	return s.queryPredictions(ctx, q, seriesID, day)
}

func (s *CHPredictionStore) TargetBetween(ctx context.Context, seriesID, after, before string) ([]models.Prediction, error) {
	q := fmt.Sprintf(`
        SELECT %s FROM maifast.predictions
        WHERE series_id = ? AND target_date > ? AND target_date < ?
        ORDER BY target_date ASC
    `, predictionColumns)
	return s.queryPredictions(ctx, q, seriesID, after, before)
}

func (s *CHPredictionStore) ByTargetDates(ctx context.Context, seriesID string, dates []string) ([]models.Prediction, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(dates)), ", ")
	q := fmt.Sprintf(`
        SELECT %s FROM maifast.predictions
        WHERE series_id = ? AND target_date IN (%s)
        ORDER BY target_date ASC
    `, predictionColumns, placeholders)

	args := make([]interface{}, 0, len(dates)+1)
	args = append(args, seriesID)
	for _, d := range dates {
		args = append(args, d)
	}
	return s.queryPredictions(ctx, q, args...)
}

func (s *CHPredictionStore) queryPredictions(ctx context.Context, q string, args ...interface{}) ([]models.Prediction, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		s.l.Error("clickhouse predictions query error", applogger.Error(err))
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	out := make([]models.Prediction, 0, 64)
	for rows.Next() {
		var p models.Prediction
		if err := rows.Scan(&p.ID, &p.SeriesID, &p.TargetDate, &p.PredictedValue,
			&p.AlgorithmVersion, &p.BasedOnLastDate, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
