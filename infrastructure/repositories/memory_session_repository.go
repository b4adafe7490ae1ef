package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"todolists/domain/contracts"
	"todolists/domain/sessions"
	"todolists/infrastructure/serialization"
)

type memorySession struct {
	data      string
	createdAt time.Time
	updatedAt time.Time
	expiresAt time.Time
	lists     int
	todos     int
}

// MemorySessionRepository keeps sessions in process memory. Sessions are stored in
// serialized form so callers never share state between requests.
type MemorySessionRepository struct {
	mu         sync.RWMutex
	sessions   map[string]memorySession
	serializer *serialization.SessionSerializer
}

// NewMemorySessionRepository creates an empty in-memory session repository.
func NewMemorySessionRepository(serializer *serialization.SessionSerializer) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions:   make(map[string]memorySession),
		serializer: serializer,
	}
}

var _ contracts.SessionRepository = (*MemorySessionRepository)(nil)

// Load retrieves a copy of the stored session.
func (r *MemorySessionRepository) Load(ctx context.Context, sessionID string) (*sessions.State, error) {
	r.mu.RLock()
	stored, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return nil, contracts.ErrSessionNotFound
	}

	state := &sessions.State{
		ID:        sessionID,
		CreatedAt: stored.createdAt,
		UpdatedAt: stored.updatedAt,
		ExpiresAt: stored.expiresAt,
	}
	if err := r.serializer.Deserialize(stored.data, state); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return state, nil
}

// Save stores a snapshot of the session.
func (r *MemorySessionRepository) Save(ctx context.Context, state *sessions.State) error {
	data, err := r.serializer.Serialize(state)
	if err != nil {
		return err
	}

	stored := memorySession{
		data:      data,
		createdAt: state.CreatedAt,
		updatedAt: state.UpdatedAt,
		expiresAt: state.ExpiresAt,
	}
	if state.Collection != nil {
		stored.lists = len(state.Collection.Lists)
		stored.todos = state.Collection.TotalTodos()
	}

	r.mu.Lock()
	r.sessions[state.ID] = stored
	r.mu.Unlock()
	return nil
}

// Delete removes a session if present.
func (r *MemorySessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
	return nil
}

// DeleteExpired removes sessions whose expiry is at or before now.
func (r *MemorySessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, stored := range r.sessions {
		if !now.Before(stored.expiresAt) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Stats sums list and todo counts across stored sessions.
func (r *MemorySessionRepository) Stats(ctx context.Context) (*contracts.SessionStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &contracts.SessionStats{Sessions: int64(len(r.sessions))}
	for _, stored := range r.sessions {
		stats.Lists += int64(stored.lists)
		stats.Todos += int64(stored.todos)
	}
	return stats, nil
}
