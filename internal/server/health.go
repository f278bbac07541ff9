package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/histchat/provider"
	"github.com/mohammad-safakhou/histchat/session"
)

// HealthHandler reports API and model status.
type HealthHandler struct {
	Store session.Store
	LLM   provider.Provider
}

func (h *HealthHandler) Register(g *echo.Group) {
	g.GET("/health", h.health)
}

// health checks the inference backend and reports session counts. An
// unreachable or unloaded model yields 503 with status "unhealthy".
//
//	@Summary Health check
//	@Produce json
//	@Success 200 {object} HealthResponse
//	@Failure 503 {object} HealthResponse
//	@Router  /api/v1/health [get]
func (h *HealthHandler) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:         "healthy",
		ModelName:      h.LLM.ModelName(),
		ModelStatus:    "connected",
		ActiveSessions: h.Store.Count(),
	}
	if err := h.LLM.Ready(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.ModelStatus = "disconnected"
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	return c.JSON(http.StatusOK, resp)
}
