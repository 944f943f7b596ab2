package assistant

import (
	"fmt"

	"github.com/maifast-lab/maifast/internal/domain/models"
)

const noContextFallback = "No specific data found in the uploads for this query."

const systemTemplate = `You are Maifast, a premium AI assistant. The user is in a chat about "%s" in "%s".

GOAL:
1. Provide intelligent, helpful, and concise answers to user queries.
2. Use the provided context from any uploaded files to ground your responses accurately.
3. If no specific data is provided in context, answer based on your general knowledge.
4. Maintain a professional yet friendly and modern tone.

CONTEXT FROM FILES:
%s`

func systemPrompt(s *models.Series, contextBlock string) string {
	if contextBlock == "" {
		contextBlock = noContextFallback
	}
	return fmt.Sprintf(systemTemplate, s.Company, s.Place, contextBlock)
}
