package feed

import "net/http"

// Register mounts the feed page and its form actions on mux.
// Every action answers with a redirect back to the page.
func Register(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET    /feed", h.Show)
	mux.HandleFunc("POST   /feed/search", h.Search)
	mux.HandleFunc("POST   /feed/filter", h.Filter)
	mux.HandleFunc("POST   /feed/reset", h.Reset)
	mux.HandleFunc("POST   /feed/page", h.Page)
	mux.HandleFunc("POST   /feed/toggle", h.Toggle)
	mux.HandleFunc("POST   /feed/fact-check", h.FactCheck)
}
