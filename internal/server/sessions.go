package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/histchat/session"
)

// SessionsHandler exposes session bookkeeping endpoints. The three
// id-scoped endpoints apply the strict policy: operating on a never-created
// session id answers 404 rather than silently succeeding.
type SessionsHandler struct {
	Store session.Store
}

func (h *SessionsHandler) Register(g *echo.Group) {
	g.GET("/sessions", h.list)
	g.GET("/sessions/:id/info", h.info)
	g.POST("/sessions/:id/clear-history", h.clearHistory)
	g.DELETE("/sessions/:id", h.delete)
}

// info returns message count and creation time for one session.
//
//	@Summary Session info
//	@Produce json
//	@Success 200 {object} SessionInfoResponse
//	@Failure 404 {object} HTTPError
//	@Router  /api/v1/sessions/{id}/info [get]
func (h *SessionsHandler) info(c echo.Context) error {
	id := c.Param("id")
	if !h.Store.Exists(id) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("session '%s' not found", id))
	}
	created, _ := h.Store.CreatedAt(id)
	return c.JSON(http.StatusOK, SessionInfoResponse{
		SessionID:    id,
		MessageCount: h.Store.MessageCount(id),
		CreatedAt:    created.Format(time.RFC3339),
	})
}

// list returns a snapshot of all live sessions.
//
//	@Summary List sessions
//	@Produce json
//	@Success 200 {object} SessionListResponse
//	@Router  /api/v1/sessions [get]
func (h *SessionsHandler) list(c echo.Context) error {
	infos := h.Store.List()
	items := make([]SessionListItem, 0, len(infos))
	for _, info := range infos {
		items = append(items, SessionListItem{SessionID: info.ID, MessageCount: info.MessageCount})
	}
	return c.JSON(http.StatusOK, SessionListResponse{Sessions: items, Count: len(items)})
}

// clearHistory empties a session's history but keeps the session alive.
// Repeating the call on the same live session stays a 200 no-op.
func (h *SessionsHandler) clearHistory(c echo.Context) error {
	id := c.Param("id")
	if !h.Store.Exists(id) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("session '%s' not found", id))
	}
	h.Store.Clear(id)
	return c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Chat history cleared for session '%s'", id),
	})
}

// delete removes a session entirely.
func (h *SessionsHandler) delete(c echo.Context) error {
	id := c.Param("id")
	if !h.Store.Exists(id) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("session '%s' not found", id))
	}
	h.Store.Delete(id)
	return c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Session '%s' deleted successfully", id),
	})
}
