package handlers

import (
	"errors"
	"net/http"

	"todolists/application"
	sessiondom "todolists/domain/sessions"
	"todolists/domain/todos"
	"todolists/infrastructure/sessions"
	"todolists/interfaces/web/presenters"
	"todolists/interfaces/web/templates/pages"
	"todolists/logging"
)

// TodoHandlers serves the todo list pages and form posts.
// Each handler runs inside the session middleware, which persists any change to the state.
type TodoHandlers struct {
	service   *application.TodoService
	presenter presenters.TodoPresenterInterface
	logger    *logging.Logger
}

// NewTodoHandlers creates todo handlers.
func NewTodoHandlers(service *application.TodoService, presenter presenters.TodoPresenterInterface) *TodoHandlers {
	return &TodoHandlers{
		service:   service,
		presenter: presenter,
		logger:    logging.Default().WithComponent("todo_handler"),
	}
}

// Home redirects to the lists overview.
func (h *TodoHandlers) Home(w http.ResponseWriter, r *http.Request) {
	Redirect(w, r, "/lists")
}

// Lists renders every list in the session.
func (h *TodoHandlers) Lists(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	lists := h.service.Lists(r.Context(), state)
	vm := h.presenter.ToListsPageViewModel(lists, h.takeFlash(state))
	RenderResponse(r.Context(), w, r, pages.ListsPage(vm))
}

// NewList renders the create-list form.
func (h *TodoHandlers) NewList(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	vm := h.presenter.ToNewListFormViewModel("", h.takeFlash(state))
	RenderResponse(r.Context(), w, r, pages.ListFormPage(vm))
}

// CreateList adds a list named by the list_name form value.
func (h *TodoHandlers) CreateList(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	input := r.FormValue("list_name")
	if _, err := h.service.CreateList(r.Context(), state, input); err != nil {
		vm := h.presenter.ToNewListFormViewModel(input, h.presenter.ErrorFlash(err))
		RenderResponseStatus(r.Context(), w, r, http.StatusUnprocessableEntity, pages.ListFormPage(vm))
		return
	}
	Redirect(w, r, "/lists")
}

// ShowList renders one list and its todos.
func (h *TodoHandlers) ShowList(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	list, err := h.service.List(r.Context(), state, pathID(r, "list_id"))
	if err != nil {
		h.notFound(w, r, state, err)
		return
	}

	vm := h.presenter.ToListPageViewModel(list, h.takeFlash(state), "")
	RenderResponse(r.Context(), w, r, pages.ListPage(vm))
}

// EditList renders the rename form for a list.
func (h *TodoHandlers) EditList(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	list, err := h.service.List(r.Context(), state, pathID(r, "list_id"))
	if err != nil {
		h.notFound(w, r, state, err)
		return
	}

	vm := h.presenter.ToEditListFormViewModel(list, "", h.takeFlash(state))
	RenderResponse(r.Context(), w, r, pages.ListFormPage(vm))
}

// UpdateList renames a list to the list_name form value.
func (h *TodoHandlers) UpdateList(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	listID := pathID(r, "list_id")
	input := r.FormValue("list_name")
	list, err := h.service.UpdateList(r.Context(), state, listID, input)
	switch {
	case errors.Is(err, todos.ErrListNotFound):
		h.notFound(w, r, state, err)
	case err != nil:
		vm := h.presenter.ToEditListFormViewModel(list, input, h.presenter.ErrorFlash(err))
		RenderResponseStatus(r.Context(), w, r, http.StatusUnprocessableEntity, pages.ListFormPage(vm))
	default:
		Redirect(w, r, listPath(listID))
	}
}

// DeleteList removes a list. Script callers receive the page to visit next in the body.
func (h *TodoHandlers) DeleteList(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	h.service.DeleteList(r.Context(), state, pathID(r, "list_id"))

	if IsProgrammaticRequest(r) {
		w.Header().Set("HX-Redirect", "/lists")
		if err := RenderText(w, http.StatusOK, "/lists"); err != nil {
			h.logger.WithContext(r.Context()).Error("Failed to write delete response", "error", err)
		}
		return
	}
	Redirect(w, r, "/lists")
}

// AddTodo appends a todo named by the todo form value.
func (h *TodoHandlers) AddTodo(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	listID := pathID(r, "list_id")
	input := r.FormValue("todo")
	list, _, err := h.service.AddTodo(r.Context(), state, listID, input)
	switch {
	case errors.Is(err, todos.ErrListNotFound):
		h.notFound(w, r, state, err)
	case err != nil:
		vm := h.presenter.ToListPageViewModel(list, h.presenter.ErrorFlash(err), input)
		RenderResponseStatus(r.Context(), w, r, http.StatusUnprocessableEntity, pages.ListPage(vm))
	default:
		Redirect(w, r, listPath(listID))
	}
}

// DeleteTodo removes a todo. Script callers receive 204.
func (h *TodoHandlers) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	listID := pathID(r, "list_id")
	if err := h.service.DeleteTodo(r.Context(), state, listID, pathID(r, "todo_id")); err != nil {
		h.notFound(w, r, state, err)
		return
	}

	if IsProgrammaticRequest(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	Redirect(w, r, listPath(listID))
}

// ToggleTodo sets a todo's completed flag from the completed form value.
func (h *TodoHandlers) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	listID := pathID(r, "list_id")
	completed := r.FormValue("completed") == "true"
	err := h.service.ToggleTodo(r.Context(), state, listID, pathID(r, "todo_id"), completed)
	if errors.Is(err, todos.ErrTodoNotFound) {
		state.SetError(application.MsgTodoNotFound)
		Redirect(w, r, listPath(listID))
		return
	}
	if err != nil {
		h.notFound(w, r, state, err)
		return
	}
	Redirect(w, r, listPath(listID))
}

// CompleteAll marks every todo in a list completed.
func (h *TodoHandlers) CompleteAll(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	listID := pathID(r, "list_id")
	if err := h.service.CompleteAll(r.Context(), state, listID); err != nil {
		h.notFound(w, r, state, err)
		return
	}
	Redirect(w, r, listPath(listID))
}

// state returns the request's session, failing the request if the middleware did not run.
func (h *TodoHandlers) state(w http.ResponseWriter, r *http.Request) (*sessiondom.State, bool) {
	state, ok := sessions.FromContext(r.Context())
	if !ok {
		h.logger.WithContext(r.Context()).Error("Request reached todo handler without a session", "path", r.URL.Path)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return nil, false
	}
	return state, true
}

func (h *TodoHandlers) takeFlash(state *sessiondom.State) *presenters.FlashVM {
	return h.presenter.ToFlashViewModel(state.TakeFlash())
}

// notFound reports a missing list. Browsers are sent to the overview with an error message.
func (h *TodoHandlers) notFound(w http.ResponseWriter, r *http.Request, state *sessiondom.State, err error) {
	h.logger.WithContext(r.Context()).Debug("List not found", "path", r.URL.Path, "error", err)
	if IsProgrammaticRequest(r) {
		http.Error(w, application.MsgListNotFound, http.StatusNotFound)
		return
	}
	state.SetError(application.MsgListNotFound)
	Redirect(w, r, "/lists")
}
