package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolists/application"
	sessiondom "todolists/domain/sessions"
	"todolists/infrastructure/sessions"
	"todolists/interfaces/web/presenters"
	"todolists/test/helpers"
)

func newTestHandlers(t *testing.T) *TodoHandlers {
	t.Helper()
	m := helpers.NewMockCollaborators()
	m.AcceptAllEvents()
	return NewTodoHandlers(application.NewTodoService(m.Publisher), presenters.NewTodoPresenter())
}

// newRequest builds a request carrying the session state and chi path parameters.
func newRequest(method, target string, form url.Values, state *sessiondom.State, params map[string]string) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(sessions.WithState(ctx, state))
}

func TestTodoHandlers_Home(t *testing.T) {
	h := newTestHandlers(t)
	rec := httptest.NewRecorder()

	h.Home(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/lists", rec.Header().Get("Location"))
}

func TestTodoHandlers_Lists_ConsumesFlash(t *testing.T) {
	// Arrange
	h := newTestHandlers(t)
	state := helpers.NewTestData().SessionWithList("s1", "Groceries", "milk")
	state.SetSuccess(application.MsgListCreated)

	// Act
	rec := httptest.NewRecorder()
	h.Lists(rec, newRequest(http.MethodGet, "/lists", nil, state, nil))

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "Groceries")
	assert.Contains(t, body, "1 / 1")
	assert.Contains(t, body, application.MsgListCreated)
	assert.Nil(t, state.Flash, "flash is shown once")
}

func TestTodoHandlers_CreateList(t *testing.T) {
	t.Run("success redirects to overview", func(t *testing.T) {
		h := newTestHandlers(t)
		state := helpers.NewTestData().Session("s1")

		rec := httptest.NewRecorder()
		h.CreateList(rec, newRequest(http.MethodPost, "/lists", url.Values{"list_name": {"Groceries"}}, state, nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/lists", rec.Header().Get("Location"))
		assert.Equal(t, []string{"Groceries"}, state.Collection.ListNames())
		assert.Equal(t, application.MsgListCreated, state.Flash.Message)
	})

	t.Run("invalid name re-renders form with input", func(t *testing.T) {
		h := newTestHandlers(t)
		state := helpers.NewTestData().SessionWithList("s1", "Groceries")

		rec := httptest.NewRecorder()
		h.CreateList(rec, newRequest(http.MethodPost, "/lists", url.Values{"list_name": {"Groceries"}}, state, nil))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "List name already taken.")
		assert.Contains(t, rec.Body.String(), `value="Groceries"`)
		assert.Len(t, state.Collection.Lists, 1)
	})

	t.Run("empty name", func(t *testing.T) {
		h := newTestHandlers(t)
		state := helpers.NewTestData().Session("s1")

		rec := httptest.NewRecorder()
		h.CreateList(rec, newRequest(http.MethodPost, "/lists", url.Values{"list_name": {"  "}}, state, nil))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "List name must be between 1 and 100 characters.")
	})
}

func TestTodoHandlers_ShowList(t *testing.T) {
	tests := []struct {
		name         string
		listID       string
		wantStatus   int
		wantLocation string
	}{
		{"existing list", "1", http.StatusOK, ""},
		{"unknown list", "7", http.StatusSeeOther, "/lists"},
		{"malformed id", "abc", http.StatusSeeOther, "/lists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandlers(t)
			state := helpers.NewTestData().SessionWithList("s1", "Groceries", "milk")

			rec := httptest.NewRecorder()
			h.ShowList(rec, newRequest(http.MethodGet, "/lists/"+tt.listID, nil, state, map[string]string{"list_id": tt.listID}))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, rec.Body.String(), "milk")
				return
			}
			require.NotNil(t, state.Flash)
			assert.Equal(t, sessiondom.FlashError, state.Flash.Kind)
			assert.Equal(t, application.MsgListNotFound, state.Flash.Message)
		})
	}
}

func TestTodoHandlers_EditList(t *testing.T) {
	h := newTestHandlers(t)
	state := helpers.NewTestData().SessionWithList("s1", "Groceries")

	rec := httptest.NewRecorder()
	h.EditList(rec, newRequest(http.MethodGet, "/lists/1/edit", nil, state, map[string]string{"list_id": "1"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Groceries"`)
	assert.Contains(t, rec.Body.String(), `action="/lists/1/destroy"`)
}

func TestTodoHandlers_UpdateList(t *testing.T) {
	t.Run("rename", func(t *testing.T) {
		h := newTestHandlers(t)
		state := helpers.NewTestData().SessionWithList("s1", "Groceries")

		rec := httptest.NewRecorder()
		h.UpdateList(rec, newRequest(http.MethodPost, "/lists/1", url.Values{"list_name": {"Food"}}, state, map[string]string{"list_id": "1"}))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/lists/1", rec.Header().Get("Location"))
		assert.Equal(t, []string{"Food"}, state.Collection.ListNames())
		assert.Equal(t, application.MsgListUpdated, state.Flash.Message)
	})

	t.Run("too long keeps input", func(t *testing.T) {
		h := newTestHandlers(t)
		state := helpers.NewTestData().SessionWithList("s1", "Groceries")
		long := strings.Repeat("a", 101)

		rec := httptest.NewRecorder()
		h.UpdateList(rec, newRequest(http.MethodPost, "/lists/1", url.Values{"list_name": {long}}, state, map[string]string{"list_id": "1"}))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), `value="`+long+`"`)
		assert.Equal(t, []string{"Groceries"}, state.Collection.ListNames())
	})

	t.Run("missing list", func(t *testing.T) {
		h := newTestHandlers(t)
		state := helpers.NewTestData().Session("s1")

		rec := httptest.NewRecorder()
		h.UpdateList(rec, newRequest(http.MethodPost, "/lists/3", url.Values{"list_name": {"Food"}}, state, map[string]string{"list_id": "3"}))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/lists", rec.Header().Get("Location"))
		assert.Equal(t, application.MsgListNotFound, state.Flash.Message)
	})
}

func TestTodoHandlers_DeleteList(t *testing.T) {
	t.Run("browser", func(t *testing.T) {
		h := newTestHandlers(t)
		state := helpers.NewTestData().SessionWithList("s1", "Groceries", "milk")

		rec := httptest.NewRecorder()
		h.DeleteList(rec, newRequest(http.MethodPost, "/lists/1/destroy", nil, state, map[string]string{"list_id": "1"}))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/lists", rec.Header().Get("Location"))
		assert.Empty(t, state.Collection.Lists)
		assert.Equal(t, application.MsgListDeleted, state.Flash.Message)
	})

	t.Run("programmatic", func(t *testing.T) {
		h := newTestHandlers(t)
		state := helpers.NewTestData().SessionWithList("s1", "Groceries")
		req := newRequest(http.MethodPost, "/lists/1/destroy", nil, state, map[string]string{"list_id": "1"})
		req.Header.Set("X-Requested-With", "XMLHttpRequest")

		rec := httptest.NewRecorder()
		h.DeleteList(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/lists", rec.Header().Get("HX-Redirect"))
		assert.Equal(t, "/lists", rec.Body.String())
		assert.Empty(t, state.Collection.Lists)
	})

	t.Run("absent list still succeeds", func(t *testing.T) {
		h := newTestHandlers(t)
		state := helpers.NewTestData().SessionWithList("s1", "Groceries")

		rec := httptest.NewRecorder()
		h.DeleteList(rec, newRequest(http.MethodPost, "/lists/x/destroy", nil, state, map[string]string{"list_id": "x"}))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Len(t, state.Collection.Lists, 1)
	})
}

func TestTodoHandlers_AddTodo(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := newTestHandlers(t)
		state := helpers.NewTestData().SessionWithList("s1", "Groceries")

		rec := httptest.NewRecorder()
		h.AddTodo(rec, newRequest(http.MethodPost, "/lists/1/todos", url.Values{"todo": {"milk"}}, state, map[string]string{"list_id": "1"}))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/lists/1", rec.Header().Get("Location"))
		assert.Equal(t, []string{"milk"}, state.Collection.Lists[0].TodoNames())
		assert.Equal(t, application.MsgTodoAdded, state.Flash.Message)
	})

	t.Run("duplicate re-renders list", func(t *testing.T) {
		h := newTestHandlers(t)
		state := helpers.NewTestData().SessionWithList("s1", "Groceries", "milk")

		rec := httptest.NewRecorder()
		h.AddTodo(rec, newRequest(http.MethodPost, "/lists/1/todos", url.Values{"todo": {"milk"}}, state, map[string]string{"list_id": "1"}))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Todo is already listed.")
		assert.Contains(t, body, `name="todo" type="text" maxlength="100" placeholder="Something to do" value="milk"`)
		assert.Len(t, state.Collection.Lists[0].Todos, 1)
	})

	t.Run("missing list", func(t *testing.T) {
		h := newTestHandlers(t)
		state := helpers.NewTestData().Session("s1")

		rec := httptest.NewRecorder()
		h.AddTodo(rec, newRequest(http.MethodPost, "/lists/1/todos", url.Values{"todo": {"milk"}}, state, map[string]string{"list_id": "1"}))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/lists", rec.Header().Get("Location"))
	})
}

func TestTodoHandlers_DeleteTodo(t *testing.T) {
	params := map[string]string{"list_id": "1", "todo_id": "1"}

	t.Run("browser", func(t *testing.T) {
		h := newTestHandlers(t)
		state := helpers.NewTestData().SessionWithList("s1", "Groceries", "milk", "eggs")

		rec := httptest.NewRecorder()
		h.DeleteTodo(rec, newRequest(http.MethodPost, "/lists/1/todos/1/destroy", nil, state, params))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/lists/1", rec.Header().Get("Location"))
		assert.Equal(t, []string{"eggs"}, state.Collection.Lists[0].TodoNames())
	})

	t.Run("programmatic", func(t *testing.T) {
		h := newTestHandlers(t)
		state := helpers.NewTestData().SessionWithList("s1", "Groceries", "milk")
		req := newRequest(http.MethodPost, "/lists/1/todos/1/destroy", nil, state, params)
		req.Header.Set("HX-Request", "true")

		rec := httptest.NewRecorder()
		h.DeleteTodo(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Empty(t, state.Collection.Lists[0].Todos)
	})

	t.Run("programmatic missing list", func(t *testing.T) {
		h := newTestHandlers(t)
		state := helpers.NewTestData().Session("s1")
		req := newRequest(http.MethodPost, "/lists/1/todos/1/destroy", nil, state, params)
		req.Header.Set("HX-Request", "true")

		rec := httptest.NewRecorder()
		h.DeleteTodo(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Nil(t, state.Flash)
	})
}

func TestTodoHandlers_ToggleTodo(t *testing.T) {
	tests := []struct {
		name          string
		todoID        string
		completed     string
		wantCompleted bool
		wantFlash     string
	}{
		{"complete", "1", "true", true, application.MsgTodoUpdated},
		{"anything else means incomplete", "1", "yes", false, application.MsgTodoUpdated},
		{"unknown todo", "9", "true", false, application.MsgTodoNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandlers(t)
			state := helpers.NewTestData().SessionWithList("s1", "Groceries", "milk")
			params := map[string]string{"list_id": "1", "todo_id": tt.todoID}

			rec := httptest.NewRecorder()
			h.ToggleTodo(rec, newRequest(http.MethodPost, "/lists/1/todos/"+tt.todoID, url.Values{"completed": {tt.completed}}, state, params))

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/lists/1", rec.Header().Get("Location"))
			assert.Equal(t, tt.wantCompleted, state.Collection.Lists[0].Todos[0].Completed)
			assert.Equal(t, tt.wantFlash, state.Flash.Message)
		})
	}
}

func TestTodoHandlers_CompleteAll(t *testing.T) {
	h := newTestHandlers(t)
	state := helpers.NewTestData().SessionWithList("s1", "Groceries", "milk", "eggs")

	rec := httptest.NewRecorder()
	h.CompleteAll(rec, newRequest(http.MethodPost, "/lists/1/complete_all", nil, state, map[string]string{"list_id": "1"}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/lists/1", rec.Header().Get("Location"))
	assert.True(t, state.Collection.Lists[0].IsComplete())
	assert.Equal(t, application.MsgTodosCompleted, state.Flash.Message)
}

func TestTodoHandlers_MissingSession(t *testing.T) {
	h := newTestHandlers(t)

	rec := httptest.NewRecorder()
	h.Lists(rec, httptest.NewRequest(http.MethodGet, "/lists", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
