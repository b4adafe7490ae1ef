// Package sessions carries todo session state across HTTP requests: cookie handling,
// per-request load and write-back, and pruning of expired sessions.
package sessions

import "time"

// Store backends understood by the repository factory.
const (
	StoreSqlite = "sqlite"
	StoreMemory = "memory"
)

// Config holds session configuration
type Config struct {
	Store         string        `env:"SESSION_STORE" default:"sqlite"`
	CookieName    string        `env:"SESSION_COOKIE_NAME" default:"todolists_session"`
	TTL           time.Duration `env:"SESSION_TTL" default:"24h"`
	SecureCookie  bool          `env:"SESSION_SECURE_COOKIE" default:"false"`
	PruneInterval time.Duration `env:"SESSION_PRUNE_INTERVAL" default:"15m"`
}

// DefaultConfig returns the default session configuration
func DefaultConfig() *Config {
	return &Config{
		Store:         StoreSqlite,
		CookieName:    "todolists_session",
		TTL:           24 * time.Hour,
		SecureCookie:  false,
		PruneInterval: 15 * time.Minute,
	}
}
