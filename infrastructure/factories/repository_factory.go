package factories

import (
	"errors"
	"fmt"

	"todolists/database"
	"todolists/domain/contracts"
	"todolists/infrastructure/repositories"
	"todolists/infrastructure/serialization"
	"todolists/infrastructure/sessions"
)

// ErrDatabaseRequired is returned when the sqlite store is selected without a database.
var ErrDatabaseRequired = errors.New("sqlite session store requires a database")

// SessionRepositoryFactory builds the session repository selected by configuration.
type SessionRepositoryFactory struct {
	serializer *serialization.SessionSerializer
}

// NewSessionRepositoryFactory creates a factory sharing one serializer across repositories.
func NewSessionRepositoryFactory(serializer *serialization.SessionSerializer) *SessionRepositoryFactory {
	return &SessionRepositoryFactory{serializer: serializer}
}

// NeedsDatabase reports whether the configured store is backed by sqlite.
func NeedsDatabase(cfg *sessions.Config) bool {
	return cfg.Store == "" || cfg.Store == sessions.StoreSqlite
}

// Create returns the repository for cfg.Store. db may be nil for the memory store.
func (f *SessionRepositoryFactory) Create(cfg *sessions.Config, db *database.Database) (contracts.SessionRepository, error) {
	switch cfg.Store {
	case sessions.StoreSqlite, "":
		if db == nil {
			return nil, ErrDatabaseRequired
		}
		return repositories.NewSqliteSessionRepository(db, f.serializer), nil
	case sessions.StoreMemory:
		return repositories.NewMemorySessionRepository(f.serializer), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}
