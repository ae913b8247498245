package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

var ErrChatDisabled = errors.New("chat is not configured")

const (
	maxChatHistory = 20
	systemPrompt   = "You are the AlgoForge Studios assistant. Help visitors find AI and machine learning courses, " +
		"explain our consulting services, and point them to the contact form for anything you cannot answer. Keep answers short."
)

type ChatService interface {
	// StreamReply sends the conversation upstream and returns the raw SSE
	// body. The caller must close it.
	StreamReply(ctx context.Context, messages []ChatMessage, model string) (io.ReadCloser, error)
}

type chatService struct {
	client       ChatClient
	defaultModel string
	logger       zerolog.Logger
}

// NewChatService wraps client. A nil client disables chat.
func NewChatService(client ChatClient, defaultModel string, logger zerolog.Logger) ChatService {
	return &chatService{
		client:       client,
		defaultModel: defaultModel,
		logger:       logger.With().Str("service", "ChatService").Logger(),
	}
}

func (s *chatService) StreamReply(ctx context.Context, messages []ChatMessage, model string) (io.ReadCloser, error) {
	if s.client == nil {
		return nil, ErrChatDisabled
	}
	if model == "" {
		model = s.defaultModel
	}
	stream, err := s.client.StreamChat(ctx, buildConversation(messages), model)
	if err != nil {
		return nil, fmt.Errorf("streaming chat reply: %w", err)
	}
	s.logger.Debug().Str("model", model).Int("messages", len(messages)).Msg("Chat stream opened")
	return stream, nil
}

// buildConversation keeps the most recent turns and puts the site prompt
// first. Client-supplied system messages are dropped.
func buildConversation(messages []ChatMessage) []ChatMessage {
	turns := make([]ChatMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role != "system" {
			turns = append(turns, m)
		}
	}
	if len(turns) > maxChatHistory {
		turns = turns[len(turns)-maxChatHistory:]
	}
	return append([]ChatMessage{{Role: "system", Content: systemPrompt}}, turns...)
}
