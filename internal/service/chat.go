package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "github.com/Aasim47/vendorconex/pkg/errors"
	"github.com/Aasim47/vendorconex/pkg/httpclient"
)

// ChatMessage is one turn of prior conversation, role "user" or "model".
type ChatMessage struct {
	Role string `json:"role" validate:"required,oneof=user model"`
	Text string `json:"text" validate:"required"`
}

// ChatInput holds the parameters for a chat completion request.
type ChatInput struct {
	Message     string        `json:"message" validate:"required,max=4000"`
	ChatHistory []ChatMessage `json:"chat_history" validate:"dive"`
}

// ChatResult is the assistant's reply.
type ChatResult struct {
	Reply string `json:"reply"`
}

// Wire types for the generateContent request/response.
type chatPart struct {
	Text string `json:"text"`
}

type chatContent struct {
	Role  string     `json:"role"`
	Parts []chatPart `json:"parts"`
}

type chatRequest struct {
	Contents []chatContent `json:"contents"`
}

type chatResponse struct {
	Candidates []struct {
		Content struct {
			Parts []chatPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ChatService relays conversations to the text-completion upstream through
// the circuit-breaking HTTP client.
type ChatService struct {
	client *httpclient.CircuitBreakerClient
	apiURL string
	apiKey string
	logger *slog.Logger
}

// NewChatService creates a new chat relay service.
func NewChatService(client *httpclient.CircuitBreakerClient, apiURL, apiKey string, logger *slog.Logger) *ChatService {
	return &ChatService{
		client: client,
		apiURL: apiURL,
		apiKey: apiKey,
		logger: logger,
	}
}

// Complete sends the history plus the new message upstream and returns the
// first candidate's text. Upstream non-200s are relayed with their status and
// message; no conversation state is kept server-side.
func (s *ChatService) Complete(ctx context.Context, input ChatInput) (*ChatResult, error) {
	if input.Message == "" {
		return nil, apperrors.InvalidInput("message is required")
	}

	contents := make([]chatContent, 0, len(input.ChatHistory)+1)
	for _, m := range input.ChatHistory {
		if m.Role != "user" && m.Role != "model" {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid chat history role %q", m.Role))
		}
		contents = append(contents, chatContent{Role: m.Role, Parts: []chatPart{{Text: m.Text}}})
	}
	contents = append(contents, chatContent{Role: "user", Parts: []chatPart{{Text: input.Message}}})

	body, err := json.Marshal(chatRequest{Contents: contents})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		s.logger.ErrorContext(ctx, "chat upstream request failed",
			slog.String("error", err.Error()),
		)
		return nil, apperrors.Upstream(http.StatusBadGateway, "chat service unavailable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseUpstreamError(resp)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, apperrors.Upstream(http.StatusBadGateway, "no completion candidates returned")
	}

	reply := parsed.Candidates[0].Content.Parts[0].Text

	s.logger.InfoContext(ctx, "chat completion relayed",
		slog.Int("history_turns", len(input.ChatHistory)),
		slog.Int("reply_chars", len(reply)),
	)

	return &ChatResult{Reply: reply}, nil
}
