package ollama_provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mohammad-safakhou/histchat/config"
	"github.com/mohammad-safakhou/histchat/models"
)

func testConfig(baseURL string) config.ModelConfig {
	return config.ModelConfig{
		Provider:    "ollama",
		Name:        "qwen2.5-history",
		BaseURL:     baseURL,
		Temperature: 0.7,
		MaxTokens:   512,
		TopP:        0.9,
		Timeout:     5 * time.Second,
	}
}

func TestChatSendsConversationAndOptions(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"message": map[string]string{"role": "assistant", "content": "The Allies won."},
			"done":    true,
		})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	answer, err := c.Chat(context.Background(), []models.Message{
		{Role: models.RoleSystem, Content: "persona"},
		{Role: models.RoleUser, Content: "Who won WWII?"},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if answer != "The Allies won." {
		t.Fatalf("unexpected answer: %q", answer)
	}

	if got.Model != "qwen2.5-history" || got.Stream {
		t.Fatalf("unexpected request: %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[1].Content != "Who won WWII?" {
		t.Fatalf("conversation not forwarded: %+v", got.Messages)
	}
	if got.Options.Temperature != 0.7 || got.Options.NumPredict != 512 || got.Options.TopP != 0.9 {
		t.Fatalf("generation options not forwarded: %+v", got.Options)
	}
}

func TestChatServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	if _, err := c.Chat(context.Background(), []models.Message{{Role: models.RoleUser, Content: "hi"}}); err == nil {
		t.Fatalf("expected error on 500 response")
	}
}

func TestReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"models": []map[string]string{{"name": "qwen2.5-history:latest"}},
		})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	if err := c.Ready(context.Background()); err != nil {
		t.Fatalf("Ready: %v", err)
	}
}

func TestReadyModelMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"models": []map[string]string{{"name": "llama3:latest"}},
		})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	if err := c.Ready(context.Background()); err == nil {
		t.Fatalf("expected error when model is not loaded")
	}
}

func TestReadyServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(testConfig(srv.URL))
	if err := c.Ready(context.Background()); err == nil {
		t.Fatalf("expected error when server is unreachable")
	}
}
