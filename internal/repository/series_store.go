// Package repository implements the domain stores on ClickHouse and the audit
// publisher on Kafka.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/maifast-lab/maifast/internal/domain/models"
	domrepo "github.com/maifast-lab/maifast/internal/domain/repository"
	pkgch "github.com/maifast-lab/maifast/pkg/clickhouse"
	applogger "github.com/maifast-lab/maifast/pkg/logger"
)

// CHSeriesStore implements SeriesStore backed by ClickHouse. Metadata updates
// re-insert the full row with a fresh updated_at; FINAL collapses versions on
// read.
type CHSeriesStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHSeriesStore(ch *pkgch.Client, l *applogger.Logger) *CHSeriesStore {
	return &CHSeriesStore{db: ch.DB(), l: l}
}

const seriesColumns = `id, company, place, frequency_days, last_date, min_bound, max_bound, is_deleted, created_at`

func (s *CHSeriesStore) Create(ctx context.Context, m *models.Series) error {
	const q = `
        INSERT INTO maifast.series
            (id, company, place, frequency_days, last_date, min_bound, max_bound, is_deleted, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, q,
		m.ID, m.Company, m.Place, m.FrequencyDays, m.LastDate,
		m.MinBound, m.MaxBound, boolToUInt8(m.IsDeleted), m.CreatedAt, now,
	)
	if err != nil {
		s.l.Error("clickhouse series insert error",
			applogger.String("series_id", m.ID),
			applogger.Error(err))
		return fmt.Errorf("insert series: %w", err)
	}
	return nil
}

func (s *CHSeriesStore) Get(ctx context.Context, id string) (*models.Series, error) {
	q := fmt.Sprintf(`SELECT %s FROM maifast.series FINAL WHERE id = ?`, seriesColumns)

	row := s.db.QueryRowContext(ctx, q, id)
	m, err := scanSeries(row)
	if err == sql.ErrNoRows {
		return nil, domrepo.ErrNotFound
	}
	if err != nil {
		s.l.Error("clickhouse series get error",
			applogger.String("series_id", id),
			applogger.Error(err))
		return nil, fmt.Errorf("get series: %w", err)
	}
	if m.IsDeleted {
		return nil, domrepo.ErrNotFound
	}
	return m, nil
}

func (s *CHSeriesStore) List(ctx context.Context) ([]models.Series, error) {
	q := fmt.Sprintf(`
        SELECT %s FROM maifast.series FINAL
        WHERE is_deleted = 0
        ORDER BY created_at DESC
    `, seriesColumns)

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		s.l.Error("clickhouse series list error", applogger.Error(err))
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	out := make([]models.Series, 0, 32)
	for rows.Next() {
		m, err := scanSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHSeriesStore) SetFrequency(ctx context.Context, id string, days int) error {
	return s.reinsert(ctx, id, func(m *models.Series) {
		m.FrequencyDays = &days
	})
}

func (s *CHSeriesStore) SetLastDate(ctx context.Context, id, day string) error {
	return s.reinsert(ctx, id, func(m *models.Series) {
		m.LastDate = day
	})
}

func (s *CHSeriesStore) SoftDelete(ctx context.Context, id string) error {
	return s.reinsert(ctx, id, func(m *models.Series) {
		m.IsDeleted = true
	})
}

// reinsert reads the current row, applies mutate, and writes a new version.
// Callers serialize per series, so read-modify-write is safe here.
func (s *CHSeriesStore) reinsert(ctx context.Context, id string, mutate func(*models.Series)) error {
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	mutate(m)

	const q = `
        INSERT INTO maifast.series
            (id, company, place, frequency_days, last_date, min_bound, max_bound, is_deleted, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, q,
		m.ID, m.Company, m.Place, m.FrequencyDays, m.LastDate,
		m.MinBound, m.MaxBound, boolToUInt8(m.IsDeleted), m.CreatedAt, now,
	)
	if err != nil {
		s.l.Error("clickhouse series update error",
			applogger.String("series_id", id),
			applogger.Error(err))
		return fmt.Errorf("update series: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSeries(r rowScanner) (*models.Series, error) {
	var (
		m       models.Series
		freq    sql.NullInt32
		minB    sql.NullFloat64
		maxB    sql.NullFloat64
		deleted uint8
	)
	if err := r.Scan(&m.ID, &m.Company, &m.Place, &freq, &m.LastDate, &minB, &maxB, &deleted, &m.CreatedAt); err != nil {
		return nil, err
	}
	if freq.Valid {
		f := int(freq.Int32)
		m.FrequencyDays = &f
	}
	if minB.Valid {
		v := minB.Float64
		m.MinBound = &v
	}
	if maxB.Valid {
		v := maxB.Float64
		m.MaxBound = &v
	}
	m.IsDeleted = deleted != 0
	return &m, nil
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
