package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolists/domain/contracts"
	"todolists/infrastructure/config"
	"todolists/infrastructure/sessions"
	"todolists/logging"
)

func newTestServer(t *testing.T, store string) (*httptest.Server, *Dependencies) {
	t.Helper()
	cfg := config.LoadAppConfigFromEnv()
	cfg.Session.Store = store
	cfg.Database.Path = filepath.Join(t.TempDir(), "todolists.db")
	cfg.HTTPLogPath = ""
	logger := logging.NewLoggerWithWriter(logging.DefaultConfig(), io.Discard)

	db, err := initializeDatabase(cfg, logger)
	require.NoError(t, err)
	if db != nil {
		t.Cleanup(func() { closeDatabase(db, logger) })
	}

	deps, err := buildDependencies(cfg, db, logger)
	require.NoError(t, err)

	srv := httptest.NewServer(setupRoutes(deps, cfg))
	t.Cleanup(srv.Close)
	return srv, deps
}

// forEachStore runs fn against a server backed by every session store.
func forEachStore(t *testing.T, fn func(t *testing.T, srv *httptest.Server, deps *Dependencies)) {
	for _, store := range []string{sessions.StoreSqlite, sessions.StoreMemory} {
		t.Run(store, func(t *testing.T) {
			srv, deps := newTestServer(t, store)
			fn(t, srv, deps)
		})
	}
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRoutes_TodoListFlow(t *testing.T) {
	forEachStore(t, testTodoListFlow)
}

func testTodoListFlow(t *testing.T, srv *httptest.Server, deps *Dependencies) {
	browser := newBrowser(t)

	// Root redirects to the overview
	resp, err := browser.Get(srv.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/lists", resp.Request.URL.String())
	assert.Contains(t, readBody(t, resp), "You have no lists yet.")

	// Create a list
	resp, err = browser.PostForm(srv.URL+"/lists", url.Values{"list_name": {"Groceries"}})
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "The list has been created.")
	assert.Contains(t, body, `href="/lists/1"`)

	// The flash is shown once
	resp, err = browser.Get(srv.URL + "/lists")
	require.NoError(t, err)
	assert.NotContains(t, readBody(t, resp), "The list has been created.")

	// Add todos
	for _, todo := range []string{"milk", "eggs"} {
		resp, err = browser.PostForm(srv.URL+"/lists/1/todos", url.Values{"todo": {todo}})
		require.NoError(t, err)
		assert.Equal(t, srv.URL+"/lists/1", resp.Request.URL.String())
		assert.Contains(t, readBody(t, resp), "The todo has been added.")
	}

	// Duplicate todo is rejected
	resp, err = browser.PostForm(srv.URL+"/lists/1/todos", url.Values{"todo": {"milk"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Todo is already listed.")

	// Toggle and complete all
	resp, err = browser.PostForm(srv.URL+"/lists/1/todos/1", url.Values{"completed": {"true"}})
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "The todo has been updated.")

	resp, err = browser.PostForm(srv.URL+"/lists/1/complete_all", nil)
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "All todos have been completed.")

	resp, err = browser.Get(srv.URL + "/lists")
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), `<li class="complete"><a href="/lists/1">`)

	// Programmatic todo delete
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/lists/1/todos/2/destroy", nil)
	require.NoError(t, err)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	resp, err = browser.Do(req)
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Programmatic list delete
	req, err = http.NewRequest(http.MethodPost, srv.URL+"/lists/1/destroy", nil)
	require.NoError(t, err)
	req.Header.Set("HX-Request", "true")
	resp, err = browser.Do(req)
	require.NoError(t, err)
	assert.Equal(t, "/lists", readBody(t, resp))
	assert.Equal(t, "/lists", resp.Header.Get("HX-Redirect"))

	// Unknown list falls back to the overview with an error
	resp, err = browser.Get(srv.URL + "/lists/1")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/lists", resp.Request.URL.String())
	assert.Contains(t, readBody(t, resp), "The specified list was not found.")

	deps.Services.EventBus.Wait()
	counts := deps.Services.Activity.Counts()
	assert.Equal(t, int64(1), counts["list_created"])
	assert.Equal(t, int64(2), counts["todo_added"])
	assert.Equal(t, int64(1), counts["list_deleted"])
}

func TestRoutes_SessionsAreIsolated(t *testing.T) {
	forEachStore(t, testSessionsAreIsolated)
}

func testSessionsAreIsolated(t *testing.T, srv *httptest.Server, _ *Dependencies) {
	alice := newBrowser(t)
	bob := newBrowser(t)

	resp, err := alice.PostForm(srv.URL+"/lists", url.Values{"list_name": {"Private"}})
	require.NoError(t, err)
	readBody(t, resp)

	resp, err = bob.Get(srv.URL + "/lists")
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.NotContains(t, body, "Private")
	assert.Contains(t, body, "You have no lists yet.")
}

func TestRoutes_HealthAndAssets(t *testing.T) {
	srv, _ := newTestServer(t, sessions.StoreSqlite)
	browser := newBrowser(t)

	resp, err := browser.PostForm(srv.URL+"/lists", url.Values{"list_name": {"Groceries"}})
	require.NoError(t, err)
	readBody(t, resp)

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	var health struct {
		Status   string                 `json:"status"`
		Sessions contracts.SessionStats `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, int64(1), health.Sessions.Sessions)
	assert.Equal(t, int64(1), health.Sessions.Lists)

	resp, err = http.Get(srv.URL + "/assets/app.css")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/css"))
	readBody(t, resp)
}

func TestRootCmd_Commands(t *testing.T) {
	cmd := newRootCmd()

	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())

	prune, _, err := cmd.Find([]string{"sessions", "prune"})
	require.NoError(t, err)
	assert.Equal(t, "prune", prune.Name())
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}
