package http

import (
	"log"
	"net/http"

	"hashbox/internal/content"
)

// NewUsageHandler serves the rendered usage page on / and 404 for every other
// path that no route claims.
func NewUsageHandler() http.HandlerFunc {
	page, err := content.RenderUsage()
	if err != nil {
		log.Printf("failed to render usage page: %v", err)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" && r.URL.Path != "/index.html" {
			http.NotFound(w, r)
			return
		}

		if page == nil {
			http.Error(w, "usage page unavailable", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}
}
