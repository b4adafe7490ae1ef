package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// pathID reads an integer path parameter. Malformed values yield 0, which no list or
// todo ever has, so they behave like any other unknown id.
func pathID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0
	}
	return id
}

func listPath(id int64) string {
	return fmt.Sprintf("/lists/%d", id)
}
