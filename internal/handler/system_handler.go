package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/cutoff-backend/internal/database"
	"github.com/stemsi/cutoff-backend/internal/response"
)

const healthPingTimeout = 2 * time.Second

// SystemHandler serves the root greeting and the health probe.
type SystemHandler struct {
	store     database.Store
	startTime time.Time
	log       zerolog.Logger
}

func NewSystemHandler(store database.Store, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		store:     store,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

func (h *SystemHandler) Root(c *gin.Context) {
	response.OK(c, gin.H{"message": "Hello World"})
}

// Health pings the store; an unreachable store answers 503.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn().Err(err).Msg("Health check failed")
		response.Fail(c, http.StatusServiceUnavailable, response.ErrStoreUnavailable)
		return
	}

	response.OK(c, gin.H{
		"status": "ok",
		"driver": h.store.Driver(),
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}
