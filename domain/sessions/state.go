// Package sessions models the per-visitor state a todo session carries between requests.
package sessions

import (
	"time"

	"todolists/domain/todos"
)

// FlashKind distinguishes success notices from error notices.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// State is everything stored for one session: its lists and a pending flash message.
type State struct {
	ID         string
	Collection *todos.Collection
	Flash      *Flash
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ExpiresAt  time.Time
}

// NewState creates an empty session that expires ttl after now.
func NewState(id string, now time.Time, ttl time.Duration) *State {
	return &State{
		ID:         id,
		Collection: todos.NewCollection(),
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
}

// IsExpired reports whether the session lifetime has ended.
func (s *State) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Touch records activity and pushes the expiry forward.
func (s *State) Touch(now time.Time, ttl time.Duration) {
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// SetSuccess queues a success message, replacing any pending one.
func (s *State) SetSuccess(message string) {
	s.Flash = &Flash{Kind: FlashSuccess, Message: message}
}

// SetError queues an error message, replacing any pending one.
func (s *State) SetError(message string) {
	s.Flash = &Flash{Kind: FlashError, Message: message}
}

// TakeFlash returns the pending message and clears it.
func (s *State) TakeFlash() *Flash {
	flash := s.Flash
	s.Flash = nil
	return flash
}
