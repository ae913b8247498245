package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	cases := map[string]struct {
		ping error
		want string
	}{
		"up":   {nil, `{"status":"ok","database":"up"}`},
		"down": {errors.New("no reachable servers"), `{"status":"ok","database":"down"}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			h := NewHealthHandler(func(context.Context) error { return tc.ping }, zerolog.Nop())
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tc.want, rec.Body.String())
		})
	}
}
