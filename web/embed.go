// Package web embeds the static demo page used to exercise the honeypot by
// hand from a browser.
package web

import (
	"embed"
	"net/http"
)

//go:embed all:static
var staticFS embed.FS

// DemoHandler serves the embedded demo page at the root path, delegating to
// fallback when the page is not present in the build.
func DemoHandler(fallback http.Handler) http.Handler {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		return fallback
	}
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})
}
