package models

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn in a series' conversation.
type Message struct {
	ID        string    `json:"id"`
	SeriesID  string    `json:"-"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContextChunk is an indexed piece of text with its embedding, retrieved by
// cosine similarity to ground assistant answers in uploaded data.
type ContextChunk struct {
	ID        string
	SeriesID  string
	Content   string
	Embedding []float32
	CreatedAt time.Time
}

// ScoredChunk is a retrieval hit.
type ScoredChunk struct {
	Content string
	Score   float64
}
