package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/histchat/internal/chat"
)

// ChatHandler exposes the conversational endpoint.
type ChatHandler struct {
	Orch    *chat.Orchestrator
	Metrics *Metrics
}

func (h *ChatHandler) Register(g *echo.Group) {
	g.POST("/chat", h.chat)
}

// chat answers a prompt within a session.
//
//	@Summary Chat with the model
//	@Accept  json
//	@Produce json
//	@Success 200 {object} ChatResponse
//	@Failure 400 {object} HTTPError
//	@Failure 500 {object} HTTPError
//	@Router  /api/v1/chat [post]
func (h *ChatHandler) chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	start := time.Now()
	answer, err := h.Orch.Respond(c.Request().Context(), req.SessionID, req.Prompt)
	if err != nil {
		var verr *chat.ValidationError
		if errors.As(err, &verr) {
			h.observe("rejected", 0)
			return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
		}
		var ierr *chat.InferenceError
		if errors.As(err, &ierr) {
			h.observe("failed", time.Since(start))
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate response: "+ierr.Err.Error())
		}
		h.observe("failed", time.Since(start))
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.observe("ok", time.Since(start))
	return c.JSON(http.StatusOK, ChatResponse{Answer: answer, SessionID: req.SessionID})
}

func (h *ChatHandler) observe(outcome string, d time.Duration) {
	if h.Metrics == nil {
		return
	}
	h.Metrics.ChatRequests.WithLabelValues(outcome).Inc()
	if d > 0 {
		h.Metrics.InferenceDuration.Observe(d.Seconds())
	}
}
