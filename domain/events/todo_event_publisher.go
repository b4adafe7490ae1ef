package events

// TodoEventPublisher defines the interface for publishing todo list events.
type TodoEventPublisher interface {
	PublishListCreated(event ListCreatedEvent)
	PublishListRenamed(event ListRenamedEvent)
	PublishListDeleted(event ListDeletedEvent)
	PublishTodoAdded(event TodoAddedEvent)
	PublishTodoDeleted(event TodoDeletedEvent)
	PublishTodoToggled(event TodoToggledEvent)
	PublishTodosCompleted(event TodosCompletedEvent)
}
