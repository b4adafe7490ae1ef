package mocks

import (
	"github.com/stretchr/testify/mock"

	"todolists/domain/events"
)

// MockTodoEventPublisher is a mock implementation of TodoEventPublisher for testing
type MockTodoEventPublisher struct {
	mock.Mock
}

var _ events.TodoEventPublisher = (*MockTodoEventPublisher)(nil)

func (m *MockTodoEventPublisher) PublishListCreated(event events.ListCreatedEvent) {
	m.Called(event)
}

func (m *MockTodoEventPublisher) PublishListRenamed(event events.ListRenamedEvent) {
	m.Called(event)
}

func (m *MockTodoEventPublisher) PublishListDeleted(event events.ListDeletedEvent) {
	m.Called(event)
}

func (m *MockTodoEventPublisher) PublishTodoAdded(event events.TodoAddedEvent) {
	m.Called(event)
}

func (m *MockTodoEventPublisher) PublishTodoDeleted(event events.TodoDeletedEvent) {
	m.Called(event)
}

func (m *MockTodoEventPublisher) PublishTodoToggled(event events.TodoToggledEvent) {
	m.Called(event)
}

func (m *MockTodoEventPublisher) PublishTodosCompleted(event events.TodosCompletedEvent) {
	m.Called(event)
}
