package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// ErrStreamDone is returned by ParseSSEChunk for the terminal [DONE] event.
var ErrStreamDone = errors.New("stream done")

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatClient talks to an OpenAI-compatible chat completions endpoint.
type ChatClient interface {
	// StreamChat returns the raw SSE body. The caller must close it.
	StreamChat(ctx context.Context, messages []ChatMessage, model string) (io.ReadCloser, error)
}

type chatClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger
}

func NewChatClient(baseURL, apiKey string, logger zerolog.Logger) ChatClient {
	return &chatClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		// No timeout for streaming, the request context bounds it
		client: &http.Client{},
		logger: logger.With().Str("service", "ChatClient").Logger(),
	}
}

type completionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

func (c *chatClient) StreamChat(ctx context.Context, messages []ChatMessage, model string) (io.ReadCloser, error) {
	jsonBody, err := json.Marshal(completionRequest{Model: model, Messages: messages, Stream: true})
	if err != nil {
		return nil, fmt.Errorf("marshaling request body: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request to chat service: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		bodyBytes, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		if readErr != nil {
			c.logger.Warn().Err(readErr).Int("status_code", resp.StatusCode).Msg("Failed to read error body from chat service")
			return nil, fmt.Errorf("chat service returned status %d", resp.StatusCode)
		}
		c.logger.Error().
			Int("status_code", resp.StatusCode).
			Str("error_body", string(bodyBytes)).
			Msg("Chat service returned error")
		return nil, fmt.Errorf("chat service returned status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// ParseSSEChunk reads one SSE event. Comment lines are skipped and
// multi-line data is joined with newlines. It returns io.EOF at the end of
// the stream and ErrStreamDone for a "[DONE]" payload.
func ParseSSEChunk(reader *bufio.Reader) (map[string]interface{}, error) {
	var data []string

	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		eof := err == io.EOF

		line = strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(line, "data:") {
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
		// A blank line ends the event.
		if (line == "" && len(data) > 0) || eof {
			break
		}
	}

	if len(data) == 0 {
		return nil, io.EOF
	}
	payload := strings.Join(data, "\n")
	if payload == "[DONE]" {
		return nil, ErrStreamDone
	}

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("unmarshaling SSE data %q: %w", payload, err)
	}
	return result, nil
}

// DeltaContent extracts choices[0].delta.content from a completion chunk.
func DeltaContent(chunk map[string]interface{}) string {
	choices, ok := chunk["choices"].([]interface{})
	if !ok || len(choices) == 0 {
		return ""
	}
	choice, ok := choices[0].(map[string]interface{})
	if !ok {
		return ""
	}
	delta, ok := choice["delta"].(map[string]interface{})
	if !ok {
		return ""
	}
	content, _ := delta["content"].(string)
	return content
}
