package repositories

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolists/database"
	"todolists/domain/contracts"
	"todolists/domain/sessions"
	"todolists/infrastructure/serialization"
	"todolists/logging"
)

type sessionRepository interface {
	contracts.SessionRepository
	contracts.SessionStatsReader
}

func newSqliteRepository(t *testing.T) sessionRepository {
	t.Helper()
	logger := logging.NewLoggerWithWriter(logging.DefaultConfig(), io.Discard)
	db, err := database.New(database.Config{
		Path:          filepath.Join(t.TempDir(), "sessions.db"),
		MaxOpenConns:  4,
		MaxIdleConns:  2,
		BusyTimeoutMs: 1000,
		EnableWAL:     true,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSqliteSessionRepository(db, serialization.MustNewSessionSerializer())
}

func newMemoryRepository(t *testing.T) sessionRepository {
	return NewMemorySessionRepository(serialization.MustNewSessionSerializer())
}

// forEachRepository runs the same contract test against every implementation.
func forEachRepository(t *testing.T, fn func(t *testing.T, repo sessionRepository)) {
	impls := map[string]func(*testing.T) sessionRepository{
		"sqlite": newSqliteRepository,
		"memory": newMemoryRepository,
	}
	for name, build := range impls {
		t.Run(name, func(t *testing.T) {
			fn(t, build(t))
		})
	}
}

var baseTime = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func TestSessionRepository_LoadMissing(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo sessionRepository) {
		state, err := repo.Load(context.Background(), "missing")

		assert.ErrorIs(t, err, contracts.ErrSessionNotFound)
		assert.Nil(t, state)
	})
}

func TestSessionRepository_SaveAndLoad(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo sessionRepository) {
		// Arrange
		ctx := context.Background()
		state := sessions.NewState("s-1", baseTime, time.Hour)
		list := state.Collection.InsertList("Groceries")
		list.InsertTodo("milk")
		state.SetSuccess("The todo has been added.")

		// Act
		require.NoError(t, repo.Save(ctx, state))
		loaded, err := repo.Load(ctx, "s-1")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "s-1", loaded.ID)
		assert.True(t, baseTime.Equal(loaded.CreatedAt))
		assert.True(t, baseTime.Add(time.Hour).Equal(loaded.ExpiresAt))
		require.Len(t, loaded.Collection.Lists, 1)
		assert.Equal(t, "milk", loaded.Collection.Lists[0].Todos[0].Name)
		require.NotNil(t, loaded.Flash)
		assert.Equal(t, "The todo has been added.", loaded.Flash.Message)
	})
}

func TestSessionRepository_LoadReturnsIndependentCopy(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo sessionRepository) {
		ctx := context.Background()
		state := sessions.NewState("s-1", baseTime, time.Hour)
		state.Collection.InsertList("Groceries")
		require.NoError(t, repo.Save(ctx, state))

		loaded, err := repo.Load(ctx, "s-1")
		require.NoError(t, err)
		loaded.Collection.InsertList("Unsaved")

		again, err := repo.Load(ctx, "s-1")
		require.NoError(t, err)
		assert.Len(t, again.Collection.Lists, 1)
	})
}

func TestSessionRepository_SaveOverwrites(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo sessionRepository) {
		ctx := context.Background()
		state := sessions.NewState("s-1", baseTime, time.Hour)
		require.NoError(t, repo.Save(ctx, state))

		state.Collection.InsertList("Chores")
		state.Touch(baseTime.Add(10*time.Minute), time.Hour)
		require.NoError(t, repo.Save(ctx, state))

		loaded, err := repo.Load(ctx, "s-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"Chores"}, loaded.Collection.ListNames())
		assert.True(t, baseTime.Add(70*time.Minute).Equal(loaded.ExpiresAt))
	})
}

func TestSessionRepository_Delete(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo sessionRepository) {
		ctx := context.Background()
		require.NoError(t, repo.Save(ctx, sessions.NewState("s-1", baseTime, time.Hour)))

		require.NoError(t, repo.Delete(ctx, "s-1"))
		require.NoError(t, repo.Delete(ctx, "s-1"))

		_, err := repo.Load(ctx, "s-1")
		assert.ErrorIs(t, err, contracts.ErrSessionNotFound)
	})
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo sessionRepository) {
		// Arrange
		ctx := context.Background()
		require.NoError(t, repo.Save(ctx, sessions.NewState("old", baseTime, time.Minute)))
		require.NoError(t, repo.Save(ctx, sessions.NewState("edge", baseTime, time.Hour)))
		require.NoError(t, repo.Save(ctx, sessions.NewState("fresh", baseTime, 2*time.Hour)))

		// Act
		removed, err := repo.DeleteExpired(ctx, baseTime.Add(time.Hour))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)
		_, err = repo.Load(ctx, "fresh")
		assert.NoError(t, err)
		_, err = repo.Load(ctx, "edge")
		assert.ErrorIs(t, err, contracts.ErrSessionNotFound)
	})
}

func TestSessionRepository_Stats(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo sessionRepository) {
		ctx := context.Background()
		first := sessions.NewState("a", baseTime, time.Hour)
		groceries := first.Collection.InsertList("Groceries")
		groceries.InsertTodo("milk")
		groceries.InsertTodo("eggs")
		second := sessions.NewState("b", baseTime, time.Hour)
		second.Collection.InsertList("Chores")
		require.NoError(t, repo.Save(ctx, first))
		require.NoError(t, repo.Save(ctx, second))

		stats, err := repo.Stats(ctx)

		require.NoError(t, err)
		assert.Equal(t, &contracts.SessionStats{Sessions: 2, Lists: 2, Todos: 2}, stats)
	})
}

func TestSessionRepository_RoundTripsAnyFractionalSecond(t *testing.T) {
	nanos := []int{0, 120000000, 123456780, 123456789}
	forEachRepository(t, func(t *testing.T, repo sessionRepository) {
		ctx := context.Background()
		for _, ns := range nanos {
			created := time.Date(2026, 10, 19, 12, 0, 0, ns, time.UTC)
			state := sessions.NewState("s-frac", created, time.Hour)
			state.Collection.InsertList("Groceries")
			require.NoError(t, repo.Save(ctx, state))

			loaded, err := repo.Load(ctx, "s-frac")

			require.NoError(t, err, "nanoseconds %d", ns)
			assert.True(t, created.Equal(loaded.CreatedAt), "nanoseconds %d", ns)
			assert.True(t, created.Add(time.Hour).Equal(loaded.ExpiresAt), "nanoseconds %d", ns)
			assert.Equal(t, []string{"Groceries"}, loaded.Collection.ListNames())
		}
	})
}

func TestBaseRepository_ParseTime(t *testing.T) {
	base := NewBaseRepository(nil)
	want := time.Date(2026, 10, 19, 12, 0, 0, 120000000, time.UTC)

	tests := []struct {
		name  string
		input string
	}{
		{"fixed width", "2026-10-19T12:00:00.120000000Z"},
		{"trimmed fraction", "2026-10-19T12:00:00.12Z"},
		{"offset", "2026-10-19T14:00:00.12+02:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := base.ParseTime(tt.input)

			require.NoError(t, err)
			assert.True(t, want.Equal(got))
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	_, err := base.ParseTime("yesterday")
	assert.Error(t, err)
}

func TestBaseRepository_FormatTimeIsFixedWidth(t *testing.T) {
	base := NewBaseRepository(nil)

	assert.Equal(t, "2026-10-19T12:00:00.000000000Z", base.FormatTime(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-10-19T12:00:00.120000000Z", base.FormatTime(time.Date(2026, 10, 19, 14, 0, 0, 120000000, time.FixedZone("x", 2*3600))))
}
