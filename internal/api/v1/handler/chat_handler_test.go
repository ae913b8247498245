package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upstreamChat(t *testing.T, deltas ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		for _, d := range deltas {
			chunk, _ := json.Marshal(map[string]any{
				"choices": []any{map[string]any{"delta": map[string]any{"content": d}}},
			})
			fmt.Fprintf(w, "data: %s\n\n", chunk)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(srv.Close)
	return srv
}

// events returns the data payloads of an SSE body.
func events(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		if data, ok := strings.CutPrefix(line, "data: "); ok {
			out = append(out, data)
		}
	}
	return out
}

func TestChat_RelaysDeltas(t *testing.T) {
	upstream := upstreamChat(t, "Hel", "lo")
	api := newTestAPI(t, withChat(service.NewChatClient(upstream.URL, "key", zerolog.Nop())))

	rec := api.do(t, request{method: http.MethodPost, path: "/api/chat", body: map[string]any{
		"messages": []any{map[string]any{"role": "user", "content": "Hi"}},
	}})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	got := events(rec.Body.String())
	require.Len(t, got, 6)
	var types, deltas []string
	for _, e := range got[:5] {
		var part map[string]any
		require.NoError(t, json.Unmarshal([]byte(e), &part))
		types = append(types, part["type"].(string))
		if d, ok := part["delta"].(string); ok {
			deltas = append(deltas, d)
		}
	}
	assert.Equal(t, []string{"text-start", "text-delta", "text-delta", "text-end", "finish"}, types)
	assert.Equal(t, []string{"Hel", "lo"}, deltas)
	assert.Equal(t, "[DONE]", got[5])
}

func TestChat_Disabled(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, request{method: http.MethodPost, path: "/api/chat", body: map[string]any{
		"messages": []any{map[string]any{"role": "user", "content": "Hi"}},
	}})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestChat_Validation(t *testing.T) {
	api := newTestAPI(t)

	for name, body := range map[string]any{
		"no messages":   map[string]any{"messages": []any{}},
		"bad role":      map[string]any{"messages": []any{map[string]any{"role": "tool", "content": "x"}}},
		"empty content": map[string]any{"messages": []any{map[string]any{"role": "user", "content": ""}}},
	} {
		rec := api.do(t, request{method: http.MethodPost, path: "/api/chat", body: body})
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestChat_UpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	t.Cleanup(upstream.Close)
	api := newTestAPI(t, withChat(service.NewChatClient(upstream.URL, "key", zerolog.Nop())))

	rec := api.do(t, request{method: http.MethodPost, path: "/api/chat", body: map[string]any{
		"messages": []any{map[string]any{"role": "user", "content": "Hi"}},
	}})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "quota")
}
