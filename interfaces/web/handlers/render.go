// Package handlers render provides HTTP response and HTMX utilities.
package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

// RenderResponse renders Templ components to HTTP responses.
func RenderResponse(ctx context.Context, w http.ResponseWriter, r *http.Request, component templ.Component) {
	RenderResponseStatus(ctx, w, r, http.StatusOK, component)
}

// RenderResponseStatus renders a component with an explicit status code.
func RenderResponseStatus(ctx context.Context, w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(ctx, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// RenderText writes a plain text body with the given status.
func RenderText(w http.ResponseWriter, status int, body string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, err := io.WriteString(w, body)
	return err
}

// IsHTMXRequest checks if the request came from HTMX.
func IsHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// IsProgrammaticRequest reports whether the request was sent by script rather than
// by a plain browser form, in which case handlers answer with a status instead of a redirect.
func IsProgrammaticRequest(r *http.Request) bool {
	return IsHTMXRequest(r) || r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

// Redirect sends the browser to url after a form post.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}
