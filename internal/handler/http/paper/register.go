package paper

import "net/http"

// Register mounts the paper page and its form actions on mux.
func Register(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET    /papers", h.Show)
	mux.HandleFunc("POST   /papers/date", h.SelectDate)
	mux.HandleFunc("POST   /papers/fact-check", h.FactCheck)
}
