package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/maifast-lab/maifast/internal/domain/models"
	"github.com/maifast-lab/maifast/internal/domain/repository"
	"github.com/maifast-lab/maifast/internal/services/assistant"
	xhttp "github.com/maifast-lab/maifast/pkg/http"
	"github.com/maifast-lab/maifast/pkg/logger"
)

// defaultMessageLimit bounds one page of conversation history.
const defaultMessageLimit = 200

// ConversationService runs the per-series chat: it stores the user turn,
// retrieves grounding context, asks the model, and stores the reply.
type ConversationService struct {
	series    repository.SeriesStore
	messages  repository.MessageStore
	retriever *assistant.Retriever
	client    *assistant.Client
	logger    *logger.Logger
}

// NewConversationService creates a ConversationService. client and retriever
// are nil when the assistant is disabled; posting then fails with 503 while
// history remains readable.
func NewConversationService(
	series repository.SeriesStore,
	messages repository.MessageStore,
	retriever *assistant.Retriever,
	client *assistant.Client,
	l *logger.Logger,
) *ConversationService {
	return &ConversationService{
		series:    series,
		messages:  messages,
		retriever: retriever,
		client:    client,
		logger:    l,
	}
}

// Post handles one user turn and returns the assistant's reply message.
// Retrieval failures degrade to an ungrounded answer rather than failing the
// turn.
func (c *ConversationService) Post(ctx context.Context, seriesID, text string) (*models.Message, error) {
	s, err := c.series.Get(ctx, seriesID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, xhttp.NotFoundError("Series not found")
		}
		return nil, err
	}
	if c.client == nil {
		return nil, xhttp.NewAppError("ERR_UNAVAILABLE", "Assistant is not configured.", http.StatusServiceUnavailable)
	}

	userMsg := &models.Message{
		ID:        newID(),
		SeriesID:  seriesID,
		Role:      models.RoleUser,
		Content:   text,
		CreatedAt: time.Now().UTC(),
	}
	if err := c.messages.Insert(ctx, userMsg); err != nil {
		return nil, err
	}

	contextBlock := ""
	if c.retriever != nil {
		hits, err := c.retriever.Search(ctx, seriesID, text, c.client.TopK())
		if err != nil {
			c.logger.Warn("context retrieval failed, answering ungrounded",
				logger.String("series_id", seriesID),
				logger.Error(err))
		} else {
			contextBlock = assistant.FormatContext(hits)
		}
	}

	replyText, err := c.client.Reply(ctx, s, contextBlock, text)
	if err != nil {
		c.logger.Error("assistant reply failed",
			logger.String("series_id", seriesID),
			logger.Error(err))
		return nil, err
	}

	reply := &models.Message{
		ID:        newID(),
		SeriesID:  seriesID,
		Role:      models.RoleAssistant,
		Content:   replyText,
		CreatedAt: time.Now().UTC(),
	}
	if err := c.messages.Insert(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// History returns the series' conversation, oldest first.
func (c *ConversationService) History(ctx context.Context, seriesID string) ([]models.Message, error) {
	if _, err := c.series.Get(ctx, seriesID); err != nil {
		if err == repository.ErrNotFound {
			return nil, xhttp.NotFoundError("Series not found")
		}
		return nil, err
	}
	return c.messages.BySeries(ctx, seriesID, defaultMessageLimit)
}
