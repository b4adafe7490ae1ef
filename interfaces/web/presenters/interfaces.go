package presenters

import (
	sessiondom "todolists/domain/sessions"
	"todolists/domain/todos"
)

// TodoPresenterInterface defines the contract for todo list presentation logic.
type TodoPresenterInterface interface {
	ToFlashViewModel(flash *sessiondom.Flash) *FlashVM
	ErrorFlash(err error) *FlashVM
	ToListsPageViewModel(lists []*todos.List, flash *FlashVM) *ListsPageVM
	ToListPageViewModel(list *todos.List, flash *FlashVM, todoInput string) *ListPageVM
	ToNewListFormViewModel(input string, flash *FlashVM) *ListFormVM
	ToEditListFormViewModel(list *todos.List, input string, flash *FlashVM) *ListFormVM
}

// Ensure TodoPresenter implements the interface.
var _ TodoPresenterInterface = (*TodoPresenter)(nil)
