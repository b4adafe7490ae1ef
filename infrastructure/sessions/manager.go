package sessions

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"todolists/domain/contracts"
	sessiondom "todolists/domain/sessions"
	"todolists/logging"
)

type contextKey struct{}

// FromContext returns the session state attached by the middleware.
func FromContext(ctx context.Context) (*sessiondom.State, bool) {
	state, ok := ctx.Value(contextKey{}).(*sessiondom.State)
	return state, ok && state != nil
}

// WithState attaches session state to a context.
func WithState(ctx context.Context, state *sessiondom.State) context.Context {
	return context.WithValue(ctx, contextKey{}, state)
}

// Manager loads session state at the start of each request and writes it back at the end.
type Manager struct {
	repo   contracts.SessionRepository
	cfg    Config
	logger *logging.Logger
	locks  *sessionLocks

	now   func() time.Time
	newID func() string
}

// NewManager creates a session manager backed by repo.
func NewManager(repo contracts.SessionRepository, cfg *Config) *Manager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Manager{
		repo:   repo,
		cfg:    *cfg,
		logger: logging.Default().WithComponent("session_manager"),
		locks:  newSessionLocks(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Middleware attaches the visitor's session to the request context. Requests for the
// same session are serialized from load to write-back.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		state, unlock := m.acquire(ctx, r)
		defer unlock()

		state.Touch(m.now(), m.cfg.TTL)
		http.SetCookie(w, m.cookie(state.ID))

		next.ServeHTTP(w, r.WithContext(WithState(ctx, state)))

		// The client may already be gone; the write-back must still happen.
		saveCtx := context.WithoutCancel(ctx)
		start := m.now()
		if err := m.repo.Save(saveCtx, state); err != nil {
			m.logger.WithContext(ctx).Error("Failed to save session", "session_id", state.ID, "error", err)
			return
		}
		m.logger.Debug("Session saved", "session_id", state.ID, "duration_ms", m.now().Sub(start).Milliseconds())
	})
}

// acquire locks and loads the session named by the request cookie, or starts a new one.
func (m *Manager) acquire(ctx context.Context, r *http.Request) (*sessiondom.State, func()) {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err == nil && cookie.Value != "" {
		unlock := m.locks.lock(cookie.Value)
		state, err := m.repo.Load(ctx, cookie.Value)
		switch {
		case err == nil && !state.IsExpired(m.now()):
			return state, unlock
		case err == nil:
			m.logger.Session("Session expired", cookie.Value)
		case errors.Is(err, contracts.ErrSessionNotFound):
			m.logger.Session("Session not found", cookie.Value)
		default:
			m.logger.WithContext(ctx).Warn("Discarding unreadable session", "session_id", cookie.Value, "error", err)
		}
		unlock()
	}

	state := sessiondom.NewState(m.newID(), m.now(), m.cfg.TTL)
	m.logger.Session("Session started", state.ID)
	return state, m.locks.lock(state.ID)
}

func (m *Manager) cookie(sessionID string) *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(m.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

// Prune deletes every expired session and reports how many were removed.
func (m *Manager) Prune(ctx context.Context) (int64, error) {
	removed, err := m.repo.DeleteExpired(ctx, m.now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		m.logger.Info("Pruned expired sessions", "removed", removed)
	}
	return removed, nil
}

// StartPruner prunes expired sessions every PruneInterval until ctx is cancelled.
// The returned channel is closed once the pruner has stopped.
func (m *Manager) StartPruner(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	if m.cfg.PruneInterval <= 0 {
		close(done)
		return done
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(m.cfg.PruneInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := m.Prune(ctx); err != nil && ctx.Err() == nil {
					m.logger.Error("Failed to prune sessions", "error", err)
				}
			}
		}
	}()
	return done
}

// sessionLocks hands out one mutex per session ID and forgets it when unused.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (l *sessionLocks) lock(id string) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &sessionLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.Unlock()
			l.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(l.locks, id)
			}
			l.mu.Unlock()
		})
	}
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
