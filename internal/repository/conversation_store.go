package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/maifast-lab/maifast/internal/domain/models"
	pkgch "github.com/maifast-lab/maifast/pkg/clickhouse"
	applogger "github.com/maifast-lab/maifast/pkg/logger"
)

// CHMessageStore implements MessageStore backed by ClickHouse.
type CHMessageStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHMessageStore(ch *pkgch.Client, l *applogger.Logger) *CHMessageStore {
	return &CHMessageStore{db: ch.DB(), l: l}
}

func (s *CHMessageStore) Insert(ctx context.Context, m *models.Message) error {
	const q = `
        INSERT INTO maifast.messages (id, series_id, role, content, created_at)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err := s.db.ExecContext(ctx, q, m.ID, m.SeriesID, m.Role, m.Content, m.CreatedAt)
	if err != nil {
		s.l.Error("clickhouse message insert error",
			applogger.String("series_id", m.SeriesID),
			applogger.Error(err))
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *CHMessageStore) BySeries(ctx context.Context, seriesID string, limit int) ([]models.Message, error) {
	const q = `
        SELECT id, series_id, role, content, created_at FROM maifast.messages
        WHERE series_id = ?
        ORDER BY created_at ASC, id ASC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, seriesID, limit)
	if err != nil {
		s.l.Error("clickhouse messages query error",
			applogger.String("series_id", seriesID),
			applogger.Error(err))
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	out := make([]models.Message, 0, 64)
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SeriesID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// CHChunkStore implements ChunkStore backed by ClickHouse. Embeddings ride in
// an Array(Float32) column; similarity scoring happens in the application.
type CHChunkStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHChunkStore(ch *pkgch.Client, l *applogger.Logger) *CHChunkStore {
	return &CHChunkStore{db: ch.DB(), l: l}
}

func (s *CHChunkStore) Insert(ctx context.Context, c *models.ContextChunk) error {
	const q = `
        INSERT INTO maifast.context_chunks (id, series_id, content, embedding, created_at)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err := s.db.ExecContext(ctx, q, c.ID, c.SeriesID, c.Content, c.Embedding, c.CreatedAt)
	if err != nil {
		s.l.Error("clickhouse chunk insert error",
			applogger.String("series_id", c.SeriesID),
			applogger.Error(err))
		return fmt.Errorf("insert chunk: %w", err)
	}
	return nil
}

func (s *CHChunkStore) BySeries(ctx context.Context, seriesID string, limit int) ([]models.ContextChunk, error) {
	const q = `
        SELECT id, series_id, content, embedding, created_at FROM maifast.context_chunks
        WHERE series_id = ?
        ORDER BY created_at DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, seriesID, limit)
	if err != nil {
		s.l.Error("clickhouse chunks query error",
			applogger.String("series_id", seriesID),
			applogger.Error(err))
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	out := make([]models.ContextChunk, 0, 64)
	for rows.Next() {
		var c models.ContextChunk
		if err := rows.Scan(&c.ID, &c.SeriesID, &c.Content, &c.Embedding, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
