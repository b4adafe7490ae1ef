package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"todolists/domain/contracts"
	"todolists/domain/sessions"
)

// MockSessionRepository implements SessionRepository for testing
type MockSessionRepository struct {
	mock.Mock
}

var _ contracts.SessionRepository = (*MockSessionRepository)(nil)

func (m *MockSessionRepository) Load(ctx context.Context, sessionID string) (*sessions.State, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessions.State), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, state *sessions.State) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) Stats(ctx context.Context) (*contracts.SessionStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.SessionStats), args.Error(1)
}
