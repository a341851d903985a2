package domain

import "context"

// GenerateOptions are the sampling knobs passed to the generation backend.
type GenerateOptions struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// Generator is the external text-generation backend. Implementations return
// errors wrapping ErrBackendUnavailable or ErrBackendTimeout.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// SessionStore holds session contexts keyed by id. Update runs fn while holding
// the session's lock, so read-modify-write of one session is serialized.
type SessionStore interface {
	Create(session *SessionContext) error
	Get(id SessionID) (*SessionContext, error)
	Update(id SessionID, fn func(*SessionContext) error) error
	Delete(id SessionID) error
	ActiveForUser(userID UserID) (SessionID, bool)
}
