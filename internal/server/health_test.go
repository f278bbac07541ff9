package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/histchat/session"
	"github.com/mohammad-safakhou/histchat/session/inmemory"
)

func TestHealthHealthy(t *testing.T) {
	e := echo.New()
	store := inmemory.NewStore(10)
	store.Append("s1", session.Turn{Role: session.RoleUser, Content: "hi", Timestamp: time.Now()})
	store.GetOrCreate("s2")
	handler := &HealthHandler{Store: store, LLM: &stubLLM{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	if err := handler.health(e.NewContext(req, rec)); err != nil {
		t.Fatalf("health: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "healthy" || resp.ModelStatus != "connected" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.ModelName != "qwen2.5-history" {
		t.Fatalf("unexpected model name: %s", resp.ModelName)
	}
	if resp.ActiveSessions != 2 {
		t.Fatalf("expected 2 active sessions, got %d", resp.ActiveSessions)
	}
}

func TestHealthUnhealthy(t *testing.T) {
	e := echo.New()
	handler := &HealthHandler{
		Store: inmemory.NewStore(10),
		LLM:   &stubLLM{readyErr: errors.New("connection refused")},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	if err := handler.health(e.NewContext(req, rec)); err != nil {
		t.Fatalf("health: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503 got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "unhealthy" || resp.ModelStatus != "disconnected" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
