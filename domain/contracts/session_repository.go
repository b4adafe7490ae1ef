package contracts

import (
	"context"
	"time"

	"todolists/domain/sessions"
)

// SessionRepository defines persistence operations for session state.
type SessionRepository interface {
	// Load retrieves a session by ID, returning ErrSessionNotFound if absent.
	Load(ctx context.Context, sessionID string) (*sessions.State, error)

	// Save inserts or replaces the stored session.
	Save(ctx context.Context, state *sessions.State) error

	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// DeleteExpired removes every session whose expiry is at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SessionStats summarizes stored sessions.
type SessionStats struct {
	Sessions int64 `json:"sessions"`
	Lists    int64 `json:"lists"`
	Todos    int64 `json:"todos"`
}

// SessionStatsReader is implemented by repositories that can report aggregate counts.
type SessionStatsReader interface {
	Stats(ctx context.Context) (*SessionStats, error)
}
