package server

// HTTPError is a generic error envelope returned by the server.
type HTTPError struct {
	Error string `json:"error"`
}

// ChatRequest represents the chat payload.
type ChatRequest struct {
	Prompt    string `json:"prompt"`
	SessionID string `json:"session_id"`
}

// ChatResponse carries the generated answer.
type ChatResponse struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
}

// SessionInfoResponse is a detailed view of one session.
type SessionInfoResponse struct {
	SessionID    string `json:"session_id"`
	MessageCount int    `json:"message_count"`
	CreatedAt    string `json:"created_at"`
}

// SessionListItem is one row in the session listing.
type SessionListItem struct {
	SessionID    string `json:"session_id"`
	MessageCount int    `json:"message_count"`
}

// SessionListResponse lists all live sessions with their message counts.
type SessionListResponse struct {
	Sessions []SessionListItem `json:"sessions"`
	Count    int               `json:"count"`
}

// MessageResponse is a generic confirmation wrapper.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports service and model status.
type HealthResponse struct {
	Status         string `json:"status"` // healthy, unhealthy
	ModelName      string `json:"model_name"`
	ModelStatus    string `json:"model_status"` // connected, disconnected
	ActiveSessions int    `json:"active_sessions"`
}

// RootResponse describes the API for the bare root endpoint.
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Model   string `json:"model"`
	Docs    string `json:"docs"`
	Health  string `json:"health"`
}
