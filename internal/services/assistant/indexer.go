package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/maifast-lab/maifast/internal/domain/models"
	"github.com/maifast-lab/maifast/internal/domain/repository"
	"github.com/maifast-lab/maifast/internal/services/ingest"
)

// Indexer turns accepted uploads into embedded context chunks so later
// questions can be answered from the data.
type Indexer struct {
	chunks repository.ChunkStore
	client *Client
}

// NewIndexer creates an Indexer.
func NewIndexer(chunks repository.ChunkStore, client *Client) *Indexer {
	return &Indexer{chunks: chunks, client: client}
}

// IndexUpload summarizes one validated upload, embeds the summary, and stores
// it as a retrieval chunk for the series.
func (ix *Indexer) IndexUpload(ctx context.Context, s *models.Series, rows []ingest.Row, frequencyDays int) error {
	content := summarizeUpload(s, rows, frequencyDays)

	embedding, err := ix.client.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("embed upload summary: %w", err)
	}

	return ix.chunks.Insert(ctx, &models.ContextChunk{
		ID:        uuid.NewString(),
		SeriesID:  s.ID,
		Content:   content,
		Embedding: embedding,
		CreatedAt: time.Now().UTC(),
	})
}

// summarizeUpload condenses an upload into one retrievable line: identity,
// cadence, range, and summary statistics.
func summarizeUpload(s *models.Series, rows []ingest.Row, frequencyDays int) string {
	first, last := rows[0], rows[len(rows)-1]

	minVal, maxVal, sum := first.Value, first.Value, 0.0
	for _, r := range rows {
		if r.Value < minVal {
			minVal = r.Value
		}
		if r.Value > maxVal {
			maxVal = r.Value
		}
		sum += r.Value
	}
	mean := sum / float64(len(rows))

	return fmt.Sprintf(
		"Upload for %s in %s: %d points every %d days from %s to %s. Values range %.2f to %.2f, mean %.2f. Latest value %.2f on %s.",
		s.Company, s.Place, len(rows), frequencyDays, first.Date, last.Date,
		minVal, maxVal, mean, last.Value, last.Date,
	)
}
