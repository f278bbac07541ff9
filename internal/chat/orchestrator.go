package chat

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/mohammad-safakhou/histchat/config"
	"github.com/mohammad-safakhou/histchat/models"
	"github.com/mohammad-safakhou/histchat/provider"
	"github.com/mohammad-safakhou/histchat/session"
)

// maxPromptLen bounds a single user prompt.
const maxPromptLen = 5000

// fallbackAnswer is returned (and recorded) when the model produces an
// empty generation.
const fallbackAnswer = "I apologize, but I couldn't generate a proper response. " +
	"Please try rephrasing your question."

// Orchestrator drives a single chat exchange: it validates the input,
// assembles the model conversation from retained history, calls the
// inference backend and records the exchange. It holds no state of its own;
// everything lives in the session store.
type Orchestrator struct {
	cfg    config.ModelConfig
	store  session.Store
	llm    provider.Provider
	logger *log.Logger
}

// NewOrchestrator creates a new orchestrator instance
func NewOrchestrator(cfg config.ModelConfig, store session.Store, llm provider.Provider, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(log.Writer(), "[CHAT] ", log.LstdFlags)
	}
	return &Orchestrator{cfg: cfg, store: store, llm: llm, logger: logger}
}

// Respond answers prompt within the given session and appends the exchange
// to its history. Either both the user turn and the assistant turn are
// recorded or, when inference fails, neither is.
func (o *Orchestrator) Respond(ctx context.Context, sessionID, prompt string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", &ValidationError{Field: "session_id", Reason: "cannot be empty"}
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", &ValidationError{Field: "prompt", Reason: "cannot be empty or whitespace"}
	}
	if len(prompt) > maxPromptLen {
		return "", &ValidationError{Field: "prompt", Reason: "exceeds maximum length"}
	}

	history := o.store.GetOrCreate(sessionID)
	messages := o.buildMessages(history, prompt)

	o.logger.Printf("chat request session=%s history=%d", sessionID, len(history))

	// The model call runs outside any store lock; a caller-imposed timeout
	// behaves like any other inference failure.
	answer, err := o.llm.Chat(ctx, messages)
	if err != nil {
		o.logger.Printf("inference failed session=%s: %v", sessionID, err)
		return "", &InferenceError{Err: err}
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		o.logger.Printf("empty generation session=%s, using fallback", sessionID)
		answer = fallbackAnswer
	}

	now := time.Now()
	o.store.Append(sessionID,
		session.Turn{Role: session.RoleUser, Content: prompt, Timestamp: now},
		session.Turn{Role: session.RoleAssistant, Content: answer, Timestamp: now},
	)

	return answer, nil
}

// buildMessages assembles the model conversation: system persona, retained
// history (already bounded by the store), then the new user turn.
func (o *Orchestrator) buildMessages(history []session.Turn, prompt string) []models.Message {
	messages := make([]models.Message, 0, len(history)+2)
	if o.cfg.SystemPrompt != "" {
		messages = append(messages, models.Message{Role: models.RoleSystem, Content: o.cfg.SystemPrompt})
	}
	for _, t := range history {
		messages = append(messages, models.Message{Role: t.Role, Content: t.Content})
	}
	messages = append(messages, models.Message{Role: models.RoleUser, Content: prompt})
	return messages
}
