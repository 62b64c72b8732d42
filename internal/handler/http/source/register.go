package source

import "net/http"

// Register mounts the sources page, its form actions and the preview endpoint on mux.
func Register(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET    /sources", h.Show)
	mux.HandleFunc("GET    /sources/preview", h.Preview)

	mux.HandleFunc("POST   /sources", h.Add)
	mux.HandleFunc("POST   /sources/remove", h.Remove)
	mux.HandleFunc("POST   /sources/refresh", h.Refresh)
	mux.HandleFunc("POST   /sources/page", h.Page)
	mux.HandleFunc("POST   /sources/swipe", h.Swipe)
}
