package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/school-eval-api/internal/dto"
)

// HealthCheck reports whether the database answers.
type HealthCheck func(ctx context.Context) error

// HealthHandler reports liveness and database reachability.
type HealthHandler struct {
	check  HealthCheck
	logger *zap.Logger
}

// NewHealthHandler constructs a health handler.
func NewHealthHandler(check HealthCheck, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{check: check, logger: logger}
}

// Health godoc
// @Summary Database health check
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	if h.check == nil {
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{OK: false, DB: "fail"})
		return
	}
	if err := h.check(c.Request.Context()); err != nil {
		h.logger.Warn("database ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{OK: false, DB: "fail"})
		return
	}
	c.JSON(http.StatusOK, dto.HealthResponse{OK: true, DB: "ok"})
}

// Ready godoc
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
