package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todolists/database"
	"todolists/domain/contracts"
	"todolists/domain/sessions"
	"todolists/infrastructure/serialization"
)

// SqliteSessionRepository stores session state as JSON documents in the sessions table.
type SqliteSessionRepository struct {
	*BaseRepository
	serializer *serialization.SessionSerializer
}

// NewSqliteSessionRepository creates a sqlite-backed session repository.
func NewSqliteSessionRepository(database *database.Database, serializer *serialization.SessionSerializer) *SqliteSessionRepository {
	return &SqliteSessionRepository{
		BaseRepository: NewBaseRepository(database),
		serializer:     serializer,
	}
}

var _ contracts.SessionRepository = (*SqliteSessionRepository)(nil)

// Load retrieves a session by ID.
func (r *SqliteSessionRepository) Load(ctx context.Context, sessionID string) (*sessions.State, error) {
	var (
		data                            string
		createdAt, updatedAt, expiresAt string
	)

	err := r.ReadDB().QueryRowContext(ctx,
		`SELECT data, created_at, updated_at, expires_at FROM sessions WHERE id = ?`,
		sessionID,
	).Scan(&data, &createdAt, &updatedAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contracts.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	state := &sessions.State{ID: sessionID}
	if state.CreatedAt, err = r.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if state.UpdatedAt, err = r.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	if state.ExpiresAt, err = r.ParseTime(expiresAt); err != nil {
		return nil, err
	}

	if err := r.serializer.Deserialize(data, state); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}

	return state, nil
}

// Save upserts the session row.
func (r *SqliteSessionRepository) Save(ctx context.Context, state *sessions.State) error {
	data, err := r.serializer.Serialize(state)
	if err != nil {
		return err
	}

	listCount, todoCount := 0, 0
	if state.Collection != nil {
		listCount = len(state.Collection.Lists)
		todoCount = state.Collection.TotalTodos()
	}

	_, err = r.WriteDB().ExecContext(ctx, `
		INSERT INTO sessions (id, data, created_at, updated_at, expires_at, list_count, todo_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at,
			expires_at = excluded.expires_at,
			list_count = excluded.list_count,
			todo_count = excluded.todo_count`,
		state.ID,
		data,
		r.FormatTime(state.CreatedAt),
		r.FormatTime(state.UpdatedAt),
		r.FormatTime(state.ExpiresAt),
		listCount,
		todoCount,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes a session row if present.
func (r *SqliteSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if _, err := r.WriteDB().ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions whose expiry is at or before now.
func (r *SqliteSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var removed int64
	err := r.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, r.FormatTime(now))
		if err != nil {
			return fmt.Errorf("failed to delete expired sessions: %w", err)
		}
		removed, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// Stats aggregates the denormalized list and todo counters.
func (r *SqliteSessionRepository) Stats(ctx context.Context) (*contracts.SessionStats, error) {
	var stats contracts.SessionStats
	err := r.ReadDB().QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(list_count), 0), COALESCE(SUM(todo_count), 0) FROM sessions`,
	).Scan(&stats.Sessions, &stats.Lists, &stats.Todos)
	if err != nil {
		return nil, fmt.Errorf("failed to compute session stats: %w", err)
	}
	return &stats, nil
}
