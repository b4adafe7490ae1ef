package events

import "time"

// ListCreatedEvent represents a list added to a session
type ListCreatedEvent struct {
	SessionID string
	ListID    int64
	Name      string
	Timestamp time.Time
}

// ListRenamedEvent represents a list whose name changed
type ListRenamedEvent struct {
	SessionID string
	ListID    int64
	OldName   string
	NewName   string
	Timestamp time.Time
}

// ListDeletedEvent represents a list removed together with its todos
type ListDeletedEvent struct {
	SessionID    string
	ListID       int64
	TodosRemoved int
	Timestamp    time.Time
}

// TodoAddedEvent represents a todo appended to a list
type TodoAddedEvent struct {
	SessionID string
	ListID    int64
	TodoID    int64
	Name      string
	Timestamp time.Time
}

// TodoDeletedEvent represents a todo removed from a list
type TodoDeletedEvent struct {
	SessionID string
	ListID    int64
	TodoID    int64
	Timestamp time.Time
}

// TodoToggledEvent represents a todo whose completed flag was set
type TodoToggledEvent struct {
	SessionID string
	ListID    int64
	TodoID    int64
	Completed bool
	Timestamp time.Time
}

// TodosCompletedEvent represents a bulk completion of a list
type TodosCompletedEvent struct {
	SessionID string
	ListID    int64
	Count     int
	Timestamp time.Time
}
