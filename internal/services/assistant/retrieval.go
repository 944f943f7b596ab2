package assistant

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/maifast-lab/maifast/internal/domain/models"
	"github.com/maifast-lab/maifast/internal/domain/repository"
)

// chunkFetchLimit bounds how many stored chunks one retrieval scans.
const chunkFetchLimit = 500

// Retriever ranks a series' stored context chunks against a query by cosine
// similarity of embeddings.
type Retriever struct {
	chunks repository.ChunkStore
	client *Client
}

// NewRetriever creates a Retriever.
func NewRetriever(chunks repository.ChunkStore, client *Client) *Retriever {
	return &Retriever{chunks: chunks, client: client}
}

// Search returns up to k chunks most similar to query, best first.
func (r *Retriever) Search(ctx context.Context, seriesID, query string, k int) ([]models.ScoredChunk, error) {
	queryVec, err := r.client.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	stored, err := r.chunks.BySeries(ctx, seriesID, chunkFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}

	scored := make([]models.ScoredChunk, 0, len(stored))
	for _, c := range stored {
		score := cosineSimilarity(queryVec, c.Embedding)
		scored = append(scored, models.ScoredChunk{Content: c.Content, Score: score})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// FormatContext renders retrieval hits as a bulleted block for the prompt.
func FormatContext(hits []models.ScoredChunk) string {
	if len(hits) == 0 {
		return ""
	}
	lines := make([]string, len(hits))
	for i, h := range hits {
		lines[i] = "- " + h.Content
	}
	return strings.Join(lines, "\n")
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
