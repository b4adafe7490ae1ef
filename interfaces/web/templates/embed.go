// Package templates holds the page components and static assets of the web UI.
package templates

import "embed"

//go:generate templ generate -path .

// FS contains the static assets served under /assets/.
//
//go:embed assets
var FS embed.FS
