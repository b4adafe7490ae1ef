package application

import (
	"context"
	"strings"
	"time"

	"todolists/domain/events"
	sessiondom "todolists/domain/sessions"
	"todolists/domain/todos"
	"todolists/logging"
)

// Success messages shown after each mutating operation.
const (
	MsgListCreated    = "The list has been created."
	MsgListUpdated    = "List updated successfully."
	MsgListDeleted    = "The list has been deleted."
	MsgTodoAdded      = "The todo has been added."
	MsgTodoDeleted    = "The todo has been deleted."
	MsgTodoUpdated    = "The todo has been updated."
	MsgTodosCompleted = "All todos have been completed."
	MsgListNotFound   = "The specified list was not found."
	MsgTodoNotFound   = "The specified todo was not found."
)

// TodoService applies list and todo operations to a visitor's session state.
// Callers hold the session for the duration of each call.
type TodoService struct {
	publisher events.TodoEventPublisher
	logger    *logging.Logger
	now       func() time.Time
}

// NewTodoService creates a todo service publishing to publisher.
func NewTodoService(publisher events.TodoEventPublisher) *TodoService {
	return &TodoService{
		publisher: publisher,
		logger:    logging.Default().WithComponent("todo_service"),
		now:       time.Now,
	}
}

// Lists returns every list in the session in display order, incomplete lists first.
func (s *TodoService) Lists(ctx context.Context, state *sessiondom.State) []*todos.List {
	lists := todos.SortLists(state.Collection.Lists)
	s.logger.WithContext(ctx).Debug("Lists loaded", "session_id", state.ID, "count", len(lists))
	return lists
}

// List returns a single list.
func (s *TodoService) List(ctx context.Context, state *sessiondom.State, listID int64) (*todos.List, error) {
	list, err := state.Collection.FindList(listID)
	if err != nil {
		s.logger.WithContext(ctx).Debug("List lookup failed", "session_id", state.ID, "list_id", listID, "error", err)
		return nil, err
	}
	return list, nil
}

// CreateList validates name and appends a new empty list.
func (s *TodoService) CreateList(ctx context.Context, state *sessiondom.State, name string) (*todos.List, error) {
	name = strings.TrimSpace(name)
	if err := todos.ValidateListName(name, state.Collection, nil); err != nil {
		return nil, err
	}

	list := state.Collection.InsertList(name)
	state.SetSuccess(MsgListCreated)

	s.logger.WithContext(ctx).Debug("List created", "session_id", state.ID, "list_id", list.ID)
	s.publisher.PublishListCreated(events.ListCreatedEvent{
		SessionID: state.ID,
		ListID:    list.ID,
		Name:      list.Name,
		Timestamp: s.now(),
	})
	return list, nil
}

// UpdateList renames a list. Renaming a list to its current name succeeds.
func (s *TodoService) UpdateList(ctx context.Context, state *sessiondom.State, listID int64, name string) (*todos.List, error) {
	list, err := state.Collection.FindList(listID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	oldName := list.Name
	if err := todos.ValidateListName(name, state.Collection, &oldName); err != nil {
		return list, err
	}

	list.Rename(name)
	state.SetSuccess(MsgListUpdated)

	s.publisher.PublishListRenamed(events.ListRenamedEvent{
		SessionID: state.ID,
		ListID:    list.ID,
		OldName:   oldName,
		NewName:   name,
		Timestamp: s.now(),
	})
	return list, nil
}

// DeleteList removes a list and its todos. Deleting an absent list is not an error.
func (s *TodoService) DeleteList(ctx context.Context, state *sessiondom.State, listID int64) {
	removed := 0
	if list, err := state.Collection.FindList(listID); err == nil {
		removed = len(list.Todos)
	}

	state.SetSuccess(MsgListDeleted)
	if !state.Collection.DeleteList(listID) {
		s.logger.WithContext(ctx).Debug("Delete of absent list ignored", "session_id", state.ID, "list_id", listID)
		return
	}

	s.publisher.PublishListDeleted(events.ListDeletedEvent{
		SessionID:    state.ID,
		ListID:       listID,
		TodosRemoved: removed,
		Timestamp:    s.now(),
	})
}

// AddTodo validates name and appends an incomplete todo to the list. The list is
// returned alongside validation errors so the caller can re-render it.
func (s *TodoService) AddTodo(ctx context.Context, state *sessiondom.State, listID int64, name string) (*todos.List, *todos.Todo, error) {
	list, err := state.Collection.FindList(listID)
	if err != nil {
		return nil, nil, err
	}

	name = strings.TrimSpace(name)
	if err := todos.ValidateTodoName(name, list); err != nil {
		return list, nil, err
	}

	todo := list.InsertTodo(name)
	state.SetSuccess(MsgTodoAdded)

	s.publisher.PublishTodoAdded(events.TodoAddedEvent{
		SessionID: state.ID,
		ListID:    list.ID,
		TodoID:    todo.ID,
		Name:      todo.Name,
		Timestamp: s.now(),
	})
	return list, todo, nil
}

// DeleteTodo removes a todo from a list. An absent todo is not an error; an absent list is.
func (s *TodoService) DeleteTodo(ctx context.Context, state *sessiondom.State, listID, todoID int64) error {
	list, err := state.Collection.FindList(listID)
	if err != nil {
		return err
	}

	state.SetSuccess(MsgTodoDeleted)
	if !list.DeleteTodo(todoID) {
		return nil
	}

	s.publisher.PublishTodoDeleted(events.TodoDeletedEvent{
		SessionID: state.ID,
		ListID:    list.ID,
		TodoID:    todoID,
		Timestamp: s.now(),
	})
	return nil
}

// ToggleTodo sets a todo's completed flag.
func (s *TodoService) ToggleTodo(ctx context.Context, state *sessiondom.State, listID, todoID int64, completed bool) error {
	list, err := state.Collection.FindList(listID)
	if err != nil {
		return err
	}
	if err := list.ToggleTodo(todoID, completed); err != nil {
		return err
	}
	state.SetSuccess(MsgTodoUpdated)

	s.publisher.PublishTodoToggled(events.TodoToggledEvent{
		SessionID: state.ID,
		ListID:    list.ID,
		TodoID:    todoID,
		Completed: completed,
		Timestamp: s.now(),
	})
	return nil
}

// CompleteAll marks every todo in the list completed.
func (s *TodoService) CompleteAll(ctx context.Context, state *sessiondom.State, listID int64) error {
	list, err := state.Collection.FindList(listID)
	if err != nil {
		return err
	}

	list.CompleteAll()
	state.SetSuccess(MsgTodosCompleted)

	s.publisher.PublishTodosCompleted(events.TodosCompletedEvent{
		SessionID: state.ID,
		ListID:    list.ID,
		Count:     len(list.Todos),
		Timestamp: s.now(),
	})
	return nil
}
