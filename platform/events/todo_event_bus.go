package events

import (
	"sync"

	"todolists/domain/events"
	"todolists/logging"
)

// TodoEventBus provides type-safe event publishing and subscription for todo list events
type TodoEventBus struct {
	mu     sync.RWMutex
	logger *logging.Logger
	wg     sync.WaitGroup

	listCreatedHandlers    []func(events.ListCreatedEvent)
	listRenamedHandlers    []func(events.ListRenamedEvent)
	listDeletedHandlers    []func(events.ListDeletedEvent)
	todoAddedHandlers      []func(events.TodoAddedEvent)
	todoDeletedHandlers    []func(events.TodoDeletedEvent)
	todoToggledHandlers    []func(events.TodoToggledEvent)
	todosCompletedHandlers []func(events.TodosCompletedEvent)
}

var _ events.TodoEventPublisher = (*TodoEventBus)(nil)

// NewTodoEventBus creates a new typed todo event bus
func NewTodoEventBus() *TodoEventBus {
	return &TodoEventBus{
		logger: logging.Default().WithComponent("todo_event_bus"),
	}
}

// Subscribe methods for each event type

func (bus *TodoEventBus) OnListCreated(handler func(events.ListCreatedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.listCreatedHandlers = append(bus.listCreatedHandlers, handler)
}

func (bus *TodoEventBus) OnListRenamed(handler func(events.ListRenamedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.listRenamedHandlers = append(bus.listRenamedHandlers, handler)
}

func (bus *TodoEventBus) OnListDeleted(handler func(events.ListDeletedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.listDeletedHandlers = append(bus.listDeletedHandlers, handler)
}

func (bus *TodoEventBus) OnTodoAdded(handler func(events.TodoAddedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.todoAddedHandlers = append(bus.todoAddedHandlers, handler)
}

func (bus *TodoEventBus) OnTodoDeleted(handler func(events.TodoDeletedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.todoDeletedHandlers = append(bus.todoDeletedHandlers, handler)
}

func (bus *TodoEventBus) OnTodoToggled(handler func(events.TodoToggledEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.todoToggledHandlers = append(bus.todoToggledHandlers, handler)
}

func (bus *TodoEventBus) OnTodosCompleted(handler func(events.TodosCompletedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.todosCompletedHandlers = append(bus.todosCompletedHandlers, handler)
}

// Publish methods for each event type

func (bus *TodoEventBus) PublishListCreated(event events.ListCreatedEvent) {
	bus.mu.RLock()
	handlers := append([]func(events.ListCreatedEvent){}, bus.listCreatedHandlers...)
	bus.mu.RUnlock()
	dispatch(bus, "ListCreated", event.SessionID, handlers, event)
}

func (bus *TodoEventBus) PublishListRenamed(event events.ListRenamedEvent) {
	bus.mu.RLock()
	handlers := append([]func(events.ListRenamedEvent){}, bus.listRenamedHandlers...)
	bus.mu.RUnlock()
	dispatch(bus, "ListRenamed", event.SessionID, handlers, event)
}

func (bus *TodoEventBus) PublishListDeleted(event events.ListDeletedEvent) {
	bus.mu.RLock()
	handlers := append([]func(events.ListDeletedEvent){}, bus.listDeletedHandlers...)
	bus.mu.RUnlock()
	dispatch(bus, "ListDeleted", event.SessionID, handlers, event)
}

func (bus *TodoEventBus) PublishTodoAdded(event events.TodoAddedEvent) {
	bus.mu.RLock()
	handlers := append([]func(events.TodoAddedEvent){}, bus.todoAddedHandlers...)
	bus.mu.RUnlock()
	dispatch(bus, "TodoAdded", event.SessionID, handlers, event)
}

func (bus *TodoEventBus) PublishTodoDeleted(event events.TodoDeletedEvent) {
	bus.mu.RLock()
	handlers := append([]func(events.TodoDeletedEvent){}, bus.todoDeletedHandlers...)
	bus.mu.RUnlock()
	dispatch(bus, "TodoDeleted", event.SessionID, handlers, event)
}

func (bus *TodoEventBus) PublishTodoToggled(event events.TodoToggledEvent) {
	bus.mu.RLock()
	handlers := append([]func(events.TodoToggledEvent){}, bus.todoToggledHandlers...)
	bus.mu.RUnlock()
	dispatch(bus, "TodoToggled", event.SessionID, handlers, event)
}

func (bus *TodoEventBus) PublishTodosCompleted(event events.TodosCompletedEvent) {
	bus.mu.RLock()
	handlers := append([]func(events.TodosCompletedEvent){}, bus.todosCompletedHandlers...)
	bus.mu.RUnlock()
	dispatch(bus, "TodosCompleted", event.SessionID, handlers, event)
}

// Wait blocks until every handler started so far has returned.
func (bus *TodoEventBus) Wait() {
	bus.wg.Wait()
}

// dispatch runs each handler on its own goroutine so publishers never block on subscribers.
func dispatch[E any](bus *TodoEventBus, name, sessionID string, handlers []func(E), event E) {
	for _, handler := range handlers {
		bus.wg.Add(1)
		go func(h func(E)) {
			defer bus.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in "+name,
						"session_id", sessionID,
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}
