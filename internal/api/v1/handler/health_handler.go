package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Pinger reports whether the document store is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	ping   Pinger
	logger zerolog.Logger
}

func NewHealthHandler(ping Pinger, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{ping: ping, logger: logger.With().Str("handler", "HealthHandler").Logger()}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// ServeHTTP godoc
// @Summary Liveness and database status
// @Tags health
// @Produce json
// @Success 200 {object} healthResponse
// @Router /health [get]
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "up"}
	if err := h.ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("Database ping failed")
		resp.Database = "down"
	}
	writeJSON(w, http.StatusOK, resp, h.logger)
}
