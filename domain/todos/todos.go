// Package todos holds the session-scoped todo list model: lists, their todos,
// id assignment, name validation and the derived values used for display.
package todos

import "errors"

var (
	// ErrListNotFound is returned when no list in the collection has the requested ID.
	ErrListNotFound = errors.New("list not found")

	// ErrTodoNotFound is returned when no todo in the list has the requested ID.
	ErrTodoNotFound = errors.New("todo not found")
)

// Todo is a named item with a completion flag. Its ID is unique within the owning list only.
type Todo struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// IsComplete reports whether the todo has been completed.
func (t *Todo) IsComplete() bool {
	return t.Completed
}

// List is a named, ordered collection of todos. It exclusively owns its todos.
type List struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Todos []*Todo `json:"todos"`
}

// FindTodo returns the todo with the given ID.
func (l *List) FindTodo(id int64) (*Todo, error) {
	for _, todo := range l.Todos {
		if todo.ID == id {
			return todo, nil
		}
	}
	return nil, ErrTodoNotFound
}

// Rename sets the list name in place. Callers validate the name first.
func (l *List) Rename(name string) {
	l.Name = name
}

// NextTodoID returns the ID the next todo added to this list will receive.
func (l *List) NextTodoID() int64 {
	ids := make([]int64, len(l.Todos))
	for i, todo := range l.Todos {
		ids[i] = todo.ID
	}
	return NextID(ids)
}

// InsertTodo appends a new incomplete todo with a fresh list-scoped ID.
func (l *List) InsertTodo(name string) *Todo {
	todo := &Todo{ID: l.NextTodoID(), Name: name}
	l.Todos = append(l.Todos, todo)
	return todo
}

// DeleteTodo removes the todo with the given ID. It reports whether a todo was removed;
// an absent ID leaves the list unchanged.
func (l *List) DeleteTodo(id int64) bool {
	for i, todo := range l.Todos {
		if todo.ID == id {
			l.Todos = append(l.Todos[:i], l.Todos[i+1:]...)
			return true
		}
	}
	return false
}

// ToggleTodo sets the completed flag of a single todo.
func (l *List) ToggleTodo(id int64, completed bool) error {
	todo, err := l.FindTodo(id)
	if err != nil {
		return err
	}
	todo.Completed = completed
	return nil
}

// CompleteAll marks every todo in the list completed, whatever its current state.
func (l *List) CompleteAll() {
	for _, todo := range l.Todos {
		todo.Completed = true
	}
}

// TodoNames returns the names of the list's todos in order.
func (l *List) TodoNames() []string {
	names := make([]string, len(l.Todos))
	for i, todo := range l.Todos {
		names[i] = todo.Name
	}
	return names
}
