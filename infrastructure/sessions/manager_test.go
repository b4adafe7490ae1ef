package sessions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"todolists/domain/contracts"
	sessiondom "todolists/domain/sessions"
	"todolists/infrastructure/repositories"
	"todolists/infrastructure/serialization"
	"todolists/test/mocks"
)

var fixedNow = time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)

func newTestManager(repo contracts.SessionRepository) *Manager {
	m := NewManager(repo, &Config{
		Store:         StoreMemory,
		CookieName:    "sid",
		TTL:           time.Hour,
		PruneInterval: time.Minute,
	})
	m.now = func() time.Time { return fixedNow }
	ids := 0
	m.newID = func() string {
		ids++
		return fmt.Sprintf("session-%d", ids)
	}
	return m
}

func addListHandler(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, ok := FromContext(r.Context())
		if !ok {
			http.Error(w, "no session", http.StatusInternalServerError)
			return
		}
		state.Collection.InsertList(name)
		w.WriteHeader(http.StatusNoContent)
	})
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sid" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestManager_NewVisitorGetsSessionAndCookie(t *testing.T) {
	// Arrange
	repo := repositories.NewMemorySessionRepository(serialization.MustNewSessionSerializer())
	manager := newTestManager(repo)
	handler := manager.Middleware(addListHandler("Groceries"))

	// Act
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/lists", nil))

	// Assert
	cookie := sessionCookie(t, rec)
	assert.Equal(t, "session-1", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 3600, cookie.MaxAge)

	stored, err := repo.Load(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Groceries"}, stored.Collection.ListNames())
	assert.True(t, fixedNow.Add(time.Hour).Equal(stored.ExpiresAt))
}

func TestManager_ExistingSessionIsLoadedAndWrittenBack(t *testing.T) {
	repo := repositories.NewMemorySessionRepository(serialization.MustNewSessionSerializer())
	existing := sessiondom.NewState("known", fixedNow.Add(-time.Minute), time.Hour)
	existing.Collection.InsertList("Groceries")
	require.NoError(t, repo.Save(context.Background(), existing))
	handler := newTestManager(repo).Middleware(addListHandler("Chores"))

	req := httptest.NewRequest(http.MethodPost, "/lists", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "known"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "known", sessionCookie(t, rec).Value)
	stored, err := repo.Load(context.Background(), "known")
	require.NoError(t, err)
	assert.Equal(t, []string{"Groceries", "Chores"}, stored.Collection.ListNames())
}

func TestManager_ExpiredSessionIsReplaced(t *testing.T) {
	repo := repositories.NewMemorySessionRepository(serialization.MustNewSessionSerializer())
	stale := sessiondom.NewState("stale", fixedNow.Add(-2*time.Hour), time.Hour)
	stale.Collection.InsertList("Old")
	require.NoError(t, repo.Save(context.Background(), stale))
	handler := newTestManager(repo).Middleware(addListHandler("New"))

	req := httptest.NewRequest(http.MethodPost, "/lists", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "stale"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "session-1", sessionCookie(t, rec).Value)
	fresh, err := repo.Load(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"New"}, fresh.Collection.ListNames())
}

func TestManager_UnreadableSessionIsReplaced(t *testing.T) {
	repo := new(mocks.MockSessionRepository)
	repo.On("Load", mock.Anything, "broken").Return(nil, errors.New("invalid session payload"))
	repo.On("Save", mock.Anything, mock.MatchedBy(func(s *sessiondom.State) bool {
		return s.ID == "session-1"
	})).Return(nil)
	handler := newTestManager(repo).Middleware(addListHandler("New"))

	req := httptest.NewRequest(http.MethodGet, "/lists", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "broken"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "session-1", sessionCookie(t, rec).Value)
	repo.AssertExpectations(t)
}

func TestManager_SaveFailureDoesNotBreakResponse(t *testing.T) {
	repo := new(mocks.MockSessionRepository)
	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	handler := newTestManager(repo).Middleware(addListHandler("Groceries"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/lists", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	repo.AssertExpectations(t)
}

func TestManager_SerializesRequestsForSameSession(t *testing.T) {
	repo := repositories.NewMemorySessionRepository(serialization.MustNewSessionSerializer())
	require.NoError(t, repo.Save(context.Background(), sessiondom.NewState("shared", fixedNow, time.Hour)))
	manager := newTestManager(repo)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handler := manager.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				state, _ := FromContext(r.Context())
				state.Collection.InsertList("list")
			}))
			req := httptest.NewRequest(http.MethodPost, "/lists", nil)
			req.AddCookie(&http.Cookie{Name: "sid", Value: "shared"})
			handler.ServeHTTP(httptest.NewRecorder(), req)
		}(i)
	}
	wg.Wait()

	stored, err := repo.Load(context.Background(), "shared")
	require.NoError(t, err)
	assert.Len(t, stored.Collection.Lists, 20)
	assert.Equal(t, int64(21), stored.Collection.NextListID())
	assert.Zero(t, manager.locks.size())
}

func TestManager_Prune(t *testing.T) {
	repo := new(mocks.MockSessionRepository)
	repo.On("DeleteExpired", mock.Anything, fixedNow).Return(int64(3), nil)
	manager := newTestManager(repo)

	removed, err := manager.Prune(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	repo.AssertExpectations(t)
}

func TestManager_StartPrunerStopsOnCancel(t *testing.T) {
	repo := new(mocks.MockSessionRepository)
	repo.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()
	manager := newTestManager(repo)
	manager.cfg.PruneInterval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := manager.StartPruner(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pruner did not stop after cancel")
	}
}

func TestManager_StartPrunerDisabled(t *testing.T) {
	manager := newTestManager(new(mocks.MockSessionRepository))
	manager.cfg.PruneInterval = 0

	select {
	case <-manager.StartPruner(context.Background()):
	case <-time.After(time.Second):
		t.Fatal("disabled pruner should finish immediately")
	}
}

func TestFromContext_Missing(t *testing.T) {
	state, ok := FromContext(context.Background())

	assert.False(t, ok)
	assert.Nil(t, state)
}
