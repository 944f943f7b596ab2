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

// CHEvaluationStore implements EvaluationStore backed by ClickHouse. The
// ReplacingMergeTree key on prediction_id plus the Exists check in the caller
// keep evaluations write-once.
type CHEvaluationStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHEvaluationStore(ch *pkgch.Client, l *applogger.Logger) *CHEvaluationStore {
	return &CHEvaluationStore{db: ch.DB(), l: l}
}

func (s *CHEvaluationStore) Insert(ctx context.Context, e *models.Evaluation) error {
	const q = `
        INSERT INTO maifast.evaluations
            (prediction_id, actual_value, error, absolute_error, percentage_error, evaluated_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	_, err := s.db.ExecContext(ctx, q,
		e.PredictionID, e.ActualValue, e.Error, e.AbsoluteError, e.PercentageError, e.EvaluatedAt,
	)
	if err != nil {
		s.l.Error("clickhouse evaluation insert error",
			applogger.String("prediction_id", e.PredictionID),
			applogger.Error(err))
		return fmt.Errorf("insert evaluation: %w", err)
	}
	return nil
}

func (s *CHEvaluationStore) Exists(ctx context.Context, predictionID string) (bool, error) {
	const q = `SELECT count() FROM maifast.evaluations FINAL WHERE prediction_id = ?`

	var n uint64
	if err := s.db.QueryRowContext(ctx, q, predictionID).Scan(&n); err != nil {
		s.l.Error("clickhouse evaluation exists error",
			applogger.String("prediction_id", predictionID),
			applogger.Error(err))
		return false, fmt.Errorf("evaluation exists: %w", err)
	}
	return n > 0, nil
}

func (s *CHEvaluationStore) ByPredictionIDs(ctx context.Context, predictionIDs []string) (map[string]models.Evaluation, error) {
	if len(predictionIDs) == 0 {
		return map[string]models.Evaluation{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(predictionIDs)), ", ")
	q := fmt.Sprintf(`
        SELECT prediction_id, actual_value, error, absolute_error, percentage_error, evaluated_at
        FROM maifast.evaluations FINAL
        WHERE prediction_id IN (%s)
    `, placeholders)

	args := make([]interface{}, len(predictionIDs))
	for i, id := range predictionIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		s.l.Error("clickhouse evaluations query error", applogger.Error(err))
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	defer rows.Close()

	out := make(map[string]models.Evaluation, len(predictionIDs))
	for rows.Next() {
		var e models.Evaluation
		if err := rows.Scan(&e.PredictionID, &e.ActualValue, &e.Error,
			&e.AbsoluteError, &e.PercentageError, &e.EvaluatedAt); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		out[e.PredictionID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
