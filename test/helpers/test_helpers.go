package helpers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	sessiondom "todolists/domain/sessions"
	"todolists/domain/todos"
	"todolists/test/mocks"
)

// MockCollaborators holds the mocks a todo service or handler depends on
type MockCollaborators struct {
	Sessions  *mocks.MockSessionRepository
	Publisher *mocks.MockTodoEventPublisher
}

// NewMockCollaborators creates a new set of mocks
func NewMockCollaborators() *MockCollaborators {
	return &MockCollaborators{
		Sessions:  &mocks.MockSessionRepository{},
		Publisher: &mocks.MockTodoEventPublisher{},
	}
}

// AcceptAllEvents lets every publish call through without asserting on it
func (m *MockCollaborators) AcceptAllEvents() {
	for _, method := range []string{
		"PublishListCreated",
		"PublishListRenamed",
		"PublishListDeleted",
		"PublishTodoAdded",
		"PublishTodoDeleted",
		"PublishTodoToggled",
		"PublishTodosCompleted",
	} {
		m.Publisher.On(method, mock.Anything).Maybe()
	}
}

// AssertAllExpectations verifies all mock expectations were met
func (m *MockCollaborators) AssertAllExpectations(t mock.TestingT) {
	m.Sessions.AssertExpectations(t)
	m.Publisher.AssertExpectations(t)
}

// TestData provides simple builders for test data
type TestData struct{}

// NewTestData creates a test data builder
func NewTestData() *TestData {
	return &TestData{}
}

// Session creates an empty session that is valid for a day from TestNow.
func (td *TestData) Session(id string) *sessiondom.State {
	return sessiondom.NewState(id, TestNow, 24*time.Hour)
}

// SessionWithList creates a session holding a single list with the given todos.
func (td *TestData) SessionWithList(id, listName string, todoNames ...string) *sessiondom.State {
	state := td.Session(id)
	list := state.Collection.InsertList(listName)
	for _, name := range todoNames {
		list.InsertTodo(name)
	}
	return state
}

// ListWithTodos creates a detached list with the given todos, the first `completed` of them done.
func (td *TestData) ListWithTodos(id int64, name string, completed int, todoNames ...string) *todos.List {
	list := &todos.List{ID: id, Name: name, Todos: []*todos.Todo{}}
	for i, todoName := range todoNames {
		todo := list.InsertTodo(todoName)
		todo.Completed = i < completed
	}
	return list
}

// TestNow is the fixed clock used by session fixtures.
var TestNow = time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)

// Helper for common test context
func TestContext() context.Context {
	return context.Background()
}
