package todos

import "sort"

// TodosRemaining counts the list's incomplete todos.
func (l *List) TodosRemaining() int {
	remaining := 0
	for _, todo := range l.Todos {
		if !todo.Completed {
			remaining++
		}
	}
	return remaining
}

// TotalTodos returns the number of todos in the list.
func (l *List) TotalTodos() int {
	return len(l.Todos)
}

// IsComplete reports whether the list has at least one todo and all of them are completed.
// An empty list is never complete.
func (l *List) IsComplete() bool {
	return l.TotalTodos() > 0 && l.TodosRemaining() == 0
}

// SortByCompletion returns a copy of items with incomplete items first and complete
// items last. Relative order inside each group is preserved and items is not modified.
func SortByCompletion[T any](items []T, isComplete func(T) bool) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)

	rank := func(item T) int {
		if isComplete(item) {
			return 1
		}
		return 0
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return rank(sorted[i]) < rank(sorted[j])
	})
	return sorted
}

// SortLists orders lists for display: lists with work left first, complete lists last.
func SortLists(lists []*List) []*List {
	return SortByCompletion(lists, (*List).IsComplete)
}

// SortTodos orders todos for display: incomplete todos first, completed todos last.
func SortTodos(todos []*Todo) []*Todo {
	return SortByCompletion(todos, (*Todo).IsComplete)
}
