// Package assistant grounds a chat model in uploaded series data. Uploads are
// summarized and embedded at ingest time; at question time the closest chunks
// are retrieved by cosine similarity and folded into the prompt.
package assistant

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/maifast-lab/maifast/internal/domain/models"
	"github.com/maifast-lab/maifast/pkg/logger"
)

// Config holds model selection and generation parameters.
type Config struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	Temperature    float32
	MaxTokens      int
	Timeout        time.Duration
	RetrievalTopK  int
}

// DefaultConfig returns sensible defaults for grounded Q&A.
func DefaultConfig() Config {
	return Config{
		Model:          openai.GPT4oMini,
		EmbeddingModel: string(openai.SmallEmbedding3),
		Temperature:    0.3,
		MaxTokens:      1024,
		Timeout:        60 * time.Second,
		RetrievalTopK:  20,
	}
}

// Client wraps the OpenAI API for chat completion and embeddings.
type Client struct {
	client *openai.Client
	config Config
	logger *logger.Logger
}

// NewClient creates an assistant client.
func NewClient(config Config, l *logger.Logger) *Client {
	return &Client{
		client: openai.NewClient(config.APIKey),
		config: config,
		logger: l,
	}
}

// Embed returns the embedding vector for text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.config.EmbeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("create embedding: empty response")
	}
	return resp.Data[0].Embedding, nil
}

// Reply generates a grounded answer to input for the given series.
// contextBlock holds the retrieved chunk text, already formatted; empty means
// retrieval found nothing and the model falls back to general knowledge.
func (c *Client) Reply(ctx context.Context, s *models.Series, contextBlock, input string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt(s, contextBlock),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: input,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("create chat completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// TopK returns the configured retrieval depth.
func (c *Client) TopK() int {
	return c.config.RetrievalTopK
}
