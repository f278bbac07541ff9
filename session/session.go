package session

import "time"

// Turn is one role-tagged message within a session's history.
type Turn struct {
	Role      string    `json:"role"` // user, assistant
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Info is a point-in-time summary of one session.
type Info struct {
	ID           string    `json:"session_id"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store owns the mapping from session id to bounded turn history. A session
// is created implicitly on first reference; reads on a missing session
// degrade to empty/zero results and mutations on a missing session are
// no-ops. Implementations must be safe for concurrent use and must never
// hold a lock across anything slower than a map access.
type Store interface {
	// GetOrCreate returns the session's history, creating an empty session
	// if the id was never seen.
	GetOrCreate(id string) []Turn
	// Append adds the given turns to the session's history in order, under a
	// single critical section, creating the session if absent. The retained
	// history is trimmed to the configured bound, oldest turns first.
	Append(id string, turns ...Turn)
	// History returns a copy of the session's turns, nil if absent.
	History(id string) []Turn
	// Clear empties the session's history but keeps the session alive.
	Clear(id string)
	// Delete removes the session entirely. Idempotent.
	Delete(id string)
	Exists(id string) bool
	MessageCount(id string) int
	// List returns a snapshot of all sessions sorted by id.
	List() []Info
	// Count reports the number of live sessions.
	Count() int
	CreatedAt(id string) (time.Time, bool)
	LastAccess(id string) (time.Time, bool)
	// EvictIdle removes sessions untouched for longer than olderThan and
	// returns how many were removed.
	EvictIdle(olderThan time.Duration) int
}
