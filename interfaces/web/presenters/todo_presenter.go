// Package presenters transforms domain data into UI-ready view models.
package presenters

import (
	"fmt"

	sessiondom "todolists/domain/sessions"
	"todolists/domain/todos"
)

// FlashVM is a one-shot status message.
type FlashVM struct {
	Kind    string
	Message string
}

// IsError reports whether the message describes a failure.
func (f *FlashVM) IsError() bool {
	return f != nil && f.Kind == string(sessiondom.FlashError)
}

// ListSummaryVM is one row on the lists overview.
type ListSummaryVM struct {
	ID             int64
	Name           string
	TodosRemaining int
	TotalTodos     int
	Complete       bool
	URL            string
}

// ListsPageVM is the view model for the lists overview page.
type ListsPageVM struct {
	Flash *FlashVM
	Lists []ListSummaryVM
}

// TodoVM is one todo on a list page.
type TodoVM struct {
	ID        int64
	Name      string
	Completed bool
	ToggleURL string
	DeleteURL string
	// ToggleTo is the completed value submitted to flip this todo.
	ToggleTo string
}

// ListPageVM is the view model for a single list page.
type ListPageVM struct {
	Flash          *FlashVM
	List           ListSummaryVM
	Todos          []TodoVM
	TodoInput      string
	AddTodoURL     string
	EditURL        string
	CompleteAllURL string
}

// ListFormVM is the view model for the new and edit list forms.
type ListFormVM struct {
	Flash     *FlashVM
	ListID    int64
	Name      string
	Action    string
	DeleteURL string
}

// IsEdit reports whether the form edits an existing list.
func (vm *ListFormVM) IsEdit() bool {
	return vm.ListID != 0
}

// TodoPresenter transforms lists and todos for UI display.
type TodoPresenter struct{}

// NewTodoPresenter creates a todo presenter.
func NewTodoPresenter() *TodoPresenter {
	return &TodoPresenter{}
}

// ToFlashViewModel converts a pending session flash. Returns nil when there is none.
func (p *TodoPresenter) ToFlashViewModel(flash *sessiondom.Flash) *FlashVM {
	if flash == nil {
		return nil
	}
	return &FlashVM{Kind: string(flash.Kind), Message: flash.Message}
}

// ErrorFlash wraps a validation failure so forms can show it in place.
func (p *TodoPresenter) ErrorFlash(err error) *FlashVM {
	if err == nil {
		return nil
	}
	return &FlashVM{Kind: string(sessiondom.FlashError), Message: err.Error()}
}

// ToListsPageViewModel builds the overview. lists are expected in display order.
func (p *TodoPresenter) ToListsPageViewModel(lists []*todos.List, flash *FlashVM) *ListsPageVM {
	vm := &ListsPageVM{Flash: flash, Lists: make([]ListSummaryVM, 0, len(lists))}
	for _, list := range lists {
		vm.Lists = append(vm.Lists, p.toListSummary(list))
	}
	return vm
}

// ToListPageViewModel builds a list page with its todos sorted incomplete first.
// todoInput is echoed back into the add-todo field after a failed submission.
func (p *TodoPresenter) ToListPageViewModel(list *todos.List, flash *FlashVM, todoInput string) *ListPageVM {
	if list == nil {
		return &ListPageVM{Flash: flash, Todos: []TodoVM{}}
	}

	summary := p.toListSummary(list)
	sorted := todos.SortTodos(list.Todos)
	vm := &ListPageVM{
		Flash:          flash,
		List:           summary,
		Todos:          make([]TodoVM, 0, len(sorted)),
		TodoInput:      todoInput,
		AddTodoURL:     summary.URL + "/todos",
		EditURL:        summary.URL + "/edit",
		CompleteAllURL: summary.URL + "/complete_all",
	}
	for _, todo := range sorted {
		todoURL := fmt.Sprintf("%s/todos/%d", summary.URL, todo.ID)
		vm.Todos = append(vm.Todos, TodoVM{
			ID:        todo.ID,
			Name:      todo.Name,
			Completed: todo.Completed,
			ToggleURL: todoURL,
			DeleteURL: todoURL + "/destroy",
			ToggleTo:  fmt.Sprintf("%t", !todo.Completed),
		})
	}
	return vm
}

// ToNewListFormViewModel builds the create form, echoing back any rejected input.
func (p *TodoPresenter) ToNewListFormViewModel(input string, flash *FlashVM) *ListFormVM {
	return &ListFormVM{Flash: flash, Name: input, Action: "/lists"}
}

// ToEditListFormViewModel builds the rename form. An empty input falls back to the current name.
func (p *TodoPresenter) ToEditListFormViewModel(list *todos.List, input string, flash *FlashVM) *ListFormVM {
	name := input
	if name == "" {
		name = list.Name
	}
	url := listURL(list.ID)
	return &ListFormVM{
		Flash:     flash,
		ListID:    list.ID,
		Name:      name,
		Action:    url,
		DeleteURL: url + "/destroy",
	}
}

func (p *TodoPresenter) toListSummary(list *todos.List) ListSummaryVM {
	return ListSummaryVM{
		ID:             list.ID,
		Name:           list.Name,
		TodosRemaining: list.TodosRemaining(),
		TotalTodos:     list.TotalTodos(),
		Complete:       list.IsComplete(),
		URL:            listURL(list.ID),
	}
}

func listURL(id int64) string {
	return fmt.Sprintf("/lists/%d", id)
}
