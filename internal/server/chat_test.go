package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/histchat/config"
	"github.com/mohammad-safakhou/histchat/internal/chat"
	"github.com/mohammad-safakhou/histchat/models"
	"github.com/mohammad-safakhou/histchat/session/inmemory"
)

// stubLLM scripts the inference collaborator for handler tests.
type stubLLM struct {
	answer   string
	chatErr  error
	readyErr error
}

func (s *stubLLM) Chat(context.Context, []models.Message) (string, error) {
	if s.chatErr != nil {
		return "", s.chatErr
	}
	return s.answer, nil
}

func (s *stubLLM) Ready(context.Context) error { return s.readyErr }
func (s *stubLLM) ModelName() string           { return "qwen2.5-history" }

func newChatHandler(llm *stubLLM) (*ChatHandler, *inmemory.Store) {
	store := inmemory.NewStore(10)
	orch := chat.NewOrchestrator(config.ModelConfig{SystemPrompt: "persona"}, store, llm, nil)
	return &ChatHandler{Orch: orch, Metrics: NewMetrics(store)}, store
}

func chatCtx(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestChatSuccess(t *testing.T) {
	e := echo.New()
	handler, store := newChatHandler(&stubLLM{answer: "The Allies."})

	ctx, rec := chatCtx(e, `{"prompt":"Who won WWII?","session_id":"session_12345"}`)
	if err := handler.chat(ctx); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	var resp ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Answer != "The Allies." || resp.SessionID != "session_12345" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if got := store.MessageCount("session_12345"); got != 2 {
		t.Fatalf("expected exchange recorded, got %d turns", got)
	}
}

func TestChatEmptyPrompt(t *testing.T) {
	e := echo.New()
	handler, store := newChatHandler(&stubLLM{answer: "unused"})

	ctx, _ := chatCtx(e, `{"prompt":"   ","session_id":"session_12345"}`)
	err := handler.chat(ctx)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 error, got %#v", err)
	}
	if msg, _ := httpErr.Message.(string); !strings.Contains(msg, "prompt") {
		t.Fatalf("error should identify the offending field, got %q", msg)
	}
	if store.Count() != 0 {
		t.Fatalf("rejected request must not create a session")
	}
}

func TestChatEmptySessionID(t *testing.T) {
	e := echo.New()
	handler, _ := newChatHandler(&stubLLM{answer: "unused"})

	ctx, _ := chatCtx(e, `{"prompt":"Hello","session_id":""}`)
	err := handler.chat(ctx)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 error, got %#v", err)
	}
	if msg, _ := httpErr.Message.(string); !strings.Contains(msg, "session_id") {
		t.Fatalf("error should identify the offending field, got %q", msg)
	}
}

func TestChatMalformedBody(t *testing.T) {
	e := echo.New()
	handler, _ := newChatHandler(&stubLLM{answer: "unused"})

	ctx, _ := chatCtx(e, `{"prompt": 42}`)
	err := handler.chat(ctx)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 error, got %#v", err)
	}
}

func TestChatInferenceFailure(t *testing.T) {
	e := echo.New()
	handler, store := newChatHandler(&stubLLM{chatErr: errors.New("model not ready")})

	ctx, _ := chatCtx(e, `{"prompt":"Hello","session_id":"session_12345"}`)
	err := handler.chat(ctx)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 error, got %#v", err)
	}
	// History untouched per the atomic pair-append rule.
	if got := store.MessageCount("session_12345"); got != 0 {
		t.Fatalf("failed inference must not record turns, got %d", got)
	}
}
