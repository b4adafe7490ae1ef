package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"todolists/database"
)

// storedTimeLayout is fixed-width UTC so stored timestamps compare correctly as text.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z"

// BaseRepository provides database access and SQL conversion helpers shared by sqlite repositories.
type BaseRepository struct {
	db *database.Database
}

// NewBaseRepository creates a new BaseRepository with database access
func NewBaseRepository(database *database.Database) *BaseRepository {
	return &BaseRepository{
		db: database,
	}
}

// ReadDB returns the pooled connection for SELECT statements
func (b *BaseRepository) ReadDB() *sql.DB {
	return b.db.ReadDB()
}

// WriteDB returns the serialized connection for INSERT/UPDATE/DELETE statements
func (b *BaseRepository) WriteDB() *sql.DB {
	return b.db.WriteDB()
}

// WithTx executes a function within a write transaction
func (b *BaseRepository) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return b.db.WithTx(ctx, fn)
}

// FormatTime converts a time to its stored text form.
func (b *BaseRepository) FormatTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

// ParseTime converts a scanned timestamp back to a time.
// DATETIME columns come back from the driver as time.Time, which database/sql
// renders as RFC3339Nano with trailing fraction zeros dropped, so any fraction width is accepted.
func (b *BaseRepository) ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t.UTC(), nil
}
