package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/maifast-lab/maifast/internal/domain/models"
	pkgch "github.com/maifast-lab/maifast/pkg/clickhouse"
	applogger "github.com/maifast-lab/maifast/pkg/logger"
)

// CHPointStore implements PointStore backed by ClickHouse. Points are
// append-only; callers guarantee fresh dates, the ReplacingMergeTree key is a
// backstop against exact duplicates.
type CHPointStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHPointStore(ch *pkgch.Client, l *applogger.Logger) *CHPointStore {
	return &CHPointStore{db: ch.DB(), l: l}
}

func (s *CHPointStore) MaxDate(ctx context.Context, seriesID string) (string, error) {
	const q = `SELECT max(date) FROM maifast.points WHERE series_id = ?`

	var maxDate string
	err := s.db.QueryRowContext(ctx, q, seriesID).Scan(&maxDate)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		s.l.Error("clickhouse points max_date error",
			applogger.String("series_id", seriesID),
			applogger.Error(err))
		return "", fmt.Errorf("max date: %w", err)
	}
	return maxDate, nil
}

func (s *CHPointStore) InsertBatch(ctx context.Context, points []models.DataPoint) error {
	if len(points) == 0 {
		return nil
	}
	start := time.Now()

	var sb strings.Builder
	sb.WriteString(`INSERT INTO maifast.points (series_id, date, value) VALUES `)
	args := make([]interface{}, 0, len(points)*3)
	for i, p := range points {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?)")
		args = append(args, p.SeriesID, p.Date, p.Value)
	}

	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		s.l.Error("clickhouse points batch insert error",
			applogger.Int("rows", len(points)),
			applogger.Error(err))
		return fmt.Errorf("insert points: %w", err)
	}

	s.l.Info("clickhouse points batch insert ok",
		applogger.Int("rows", len(points)),
		applogger.Duration("duration_ms", time.Since(start)))
	return nil
}

func (s *CHPointStore) History(ctx context.Context, seriesID string) ([]models.DataPoint, error) {
	const q = `
        SELECT series_id, date, value FROM maifast.points
        WHERE series_id = ?
        ORDER BY date ASC
    `
	return s.queryPoints(ctx, q, seriesID)
}

func (s *CHPointStore) LatestN(ctx context.Context, seriesID string, n int) ([]models.DataPoint, error) {
	// Innermost DESC+LIMIT picks the newest n, outer query restores ascending
	// order for the caller.
	const q = `
        SELECT series_id, date, value FROM (
            SELECT series_id, date, value FROM maifast.points
            WHERE series_id = ?
            ORDER BY date DESC
            LIMIT ?
        )
        ORDER BY date ASC
    `
	return s.queryPoints(ctx, q, seriesID, n)
}

func (s *CHPointStore) queryPoints(ctx context.Context, q string, args ...interface{}) ([]models.DataPoint, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		s.l.Error("clickhouse points query error", applogger.Error(err))
		return nil, fmt.Errorf("query points: %w", err)
	}
	defer rows.Close()

	out := make([]models.DataPoint, 0, 256)
	for rows.Next() {
		var p models.DataPoint
		if err := rows.Scan(&p.SeriesID, &p.Date, &p.Value); err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
