// Package dashboard serves the live single-page notebook view. The page reads
// and writes through the REST API and redraws on Server-Sent Events.
package dashboard

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed static/index.html
var page []byte

// NewRouter returns a router serving the page at / and the event stream at
// /events.
func NewRouter(events http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(page)
	})
	r.Get("/events", events.ServeHTTP)
	return r
}
