package events

import (
	"sync"

	"todolists/domain/events"
	"todolists/logging"
)

// ActivityEventHandlers records todo list activity in the logs and keeps running totals.
type ActivityEventHandlers struct {
	logger *logging.Logger

	mu     sync.Mutex
	counts map[string]int64
}

// NewActivityEventHandlers creates the activity handlers.
func NewActivityEventHandlers() *ActivityEventHandlers {
	return &ActivityEventHandlers{
		logger: logging.Default().WithComponent("activity_events"),
		counts: make(map[string]int64),
	}
}

// RegisterHandlers registers all activity handlers with the event bus
func (h *ActivityEventHandlers) RegisterHandlers(eventBus *TodoEventBus) {
	eventBus.OnListCreated(h.handleListCreated)
	eventBus.OnListRenamed(h.handleListRenamed)
	eventBus.OnListDeleted(h.handleListDeleted)
	eventBus.OnTodoAdded(h.handleTodoAdded)
	eventBus.OnTodoDeleted(h.handleTodoDeleted)
	eventBus.OnTodoToggled(h.handleTodoToggled)
	eventBus.OnTodosCompleted(h.handleTodosCompleted)
}

// Counts returns a snapshot of how many events of each kind have been handled.
func (h *ActivityEventHandlers) Counts() map[string]int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	snapshot := make(map[string]int64, len(h.counts))
	for k, v := range h.counts {
		snapshot[k] = v
	}
	return snapshot
}

func (h *ActivityEventHandlers) record(kind string) {
	h.mu.Lock()
	h.counts[kind]++
	h.mu.Unlock()
}

func (h *ActivityEventHandlers) handleListCreated(event events.ListCreatedEvent) {
	h.record("list_created")
	h.logger.Session("List created", event.SessionID, "list_id", event.ListID, "name", event.Name)
}

func (h *ActivityEventHandlers) handleListRenamed(event events.ListRenamedEvent) {
	h.record("list_renamed")
	h.logger.Session("List renamed", event.SessionID,
		"list_id", event.ListID,
		"old_name", event.OldName,
		"new_name", event.NewName)
}

func (h *ActivityEventHandlers) handleListDeleted(event events.ListDeletedEvent) {
	h.record("list_deleted")
	h.logger.Session("List deleted", event.SessionID, "list_id", event.ListID, "todos_removed", event.TodosRemoved)
}

func (h *ActivityEventHandlers) handleTodoAdded(event events.TodoAddedEvent) {
	h.record("todo_added")
	h.logger.Session("Todo added", event.SessionID, "list_id", event.ListID, "todo_id", event.TodoID)
}

func (h *ActivityEventHandlers) handleTodoDeleted(event events.TodoDeletedEvent) {
	h.record("todo_deleted")
	h.logger.Session("Todo deleted", event.SessionID, "list_id", event.ListID, "todo_id", event.TodoID)
}

func (h *ActivityEventHandlers) handleTodoToggled(event events.TodoToggledEvent) {
	h.record("todo_toggled")
	h.logger.Session("Todo toggled", event.SessionID,
		"list_id", event.ListID,
		"todo_id", event.TodoID,
		"completed", event.Completed)
}

func (h *ActivityEventHandlers) handleTodosCompleted(event events.TodosCompletedEvent) {
	h.record("todos_completed")
	h.logger.Session("All todos completed", event.SessionID, "list_id", event.ListID, "count", event.Count)
}
