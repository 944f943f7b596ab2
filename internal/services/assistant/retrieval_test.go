package assistant

import (
	"math"
	"strings"
	"testing"

	"github.com/maifast-lab/maifast/internal/domain/models"
	"github.com/maifast-lab/maifast/internal/services/ingest"
)

func TestCosineSimilarity(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 0}, []float32{1, 0}); math.Abs(got-1) > 1e-9 {
		t.Fatalf("identical vectors: got %v, want 1", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); math.Abs(got) > 1e-9 {
		t.Fatalf("orthogonal vectors: got %v, want 0", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{-1, 0}); math.Abs(got+1) > 1e-9 {
		t.Fatalf("opposite vectors: got %v, want -1", got)
	}
}

func TestCosineSimilarityDegenerateInputs(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 2}, []float32{1}); got != 0 {
		t.Fatalf("mismatched lengths: got %v, want 0", got)
	}
	if got := cosineSimilarity(nil, nil); got != 0 {
		t.Fatalf("empty vectors: got %v, want 0", got)
	}
	if got := cosineSimilarity([]float32{0, 0}, []float32{1, 1}); got != 0 {
		t.Fatalf("zero vector: got %v, want 0", got)
	}
}

func TestFormatContext(t *testing.T) {
	if got := FormatContext(nil); got != "" {
		t.Fatalf("empty hits: got %q", got)
	}
	got := FormatContext([]models.ScoredChunk{
		{Content: "first", Score: 0.9},
		{Content: "second", Score: 0.5},
	})
	want := "- first\n- second"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSystemPromptFallsBackWithoutContext(t *testing.T) {
	s := &models.Series{Company: "water consumption", Place: "Berlin"}

	p := systemPrompt(s, "")
	if !strings.Contains(p, noContextFallback) {
		t.Fatal("empty context must use the fallback line")
	}
	if !strings.Contains(p, `"water consumption"`) || !strings.Contains(p, `"Berlin"`) {
		t.Fatal("prompt must name company and place")
	}

	p = systemPrompt(s, "- a chunk")
	if strings.Contains(p, noContextFallback) {
		t.Fatal("provided context must replace the fallback line")
	}
}

func TestSummarizeUpload(t *testing.T) {
	s := &models.Series{ID: "s1", Company: "water consumption", Place: "Berlin"}
	rows := []ingest.Row{
		{Date: "2024-01-01", Value: 10},
		{Date: "2024-01-02", Value: 30},
		{Date: "2024-01-03", Value: 20},
	}

	got := summarizeUpload(s, rows, 1)
	for _, want := range []string{
		"water consumption", "Berlin", "3 points", "every 1 days",
		"2024-01-01", "2024-01-03", "10.00", "30.00", "mean 20.00",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary %q missing %q", got, want)
		}
	}
}
