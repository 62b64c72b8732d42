// Package view renders the dashboard pages from embedded html/template files and serves
// the embedded stylesheet and swipe script.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"fact-news/internal/observability/logging"
	"fact-news/internal/ui/format"
	"fact-news/internal/usecase/feed"
	"fact-news/internal/usecase/notify"
	"fact-news/internal/usecase/paper"
	"fact-news/internal/usecase/source"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names.
const (
	PageFeed    = "feed"
	PagePapers  = "papers"
	PageSources = "sources"
	PageError   = "error"
)

var pageNames = []string{PageFeed, PagePapers, PageSources, PageError}

// Page is the data every template receives. Only the view matching Active is set.
type Page struct {
	Title   string
	Active  string
	Notices []notify.Notice

	Feed    *feed.State
	Periods []feed.Period

	Paper *paper.State
	// PaperDate is the YYYY-MM-DD value of the paper date picker.
	PaperDate string

	Sources *source.State
	// SwipeMinDistance is the pixel threshold the swipe script reports against.
	SwipeMinDistance float64

	Message string
}

// Renderer executes the page templates.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"timestamp":   format.Timestamp,
	"date":        format.Date,
	"dateBadge":   format.DateBadge,
	"description": format.Description,
	"content":     format.Content,
	"summary":     format.Summary,
	"cells": func(n int) []struct{} {
		if n < 0 {
			n = 0
		}
		return make([]struct{}, n)
	},
	"selected": func(current *int64, id int64) bool {
		return current != nil && *current == id
	},
	"add": func(a, b int) int { return a + b },
}

// New parses every page against the shared layout.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page with the given status. The page is executed into a buffer first so
// a template failure still yields a clean 500.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, name string, data Page) {
	t, ok := r.pages[name]
	if !ok {
		logging.FromContext(req.Context()).Error("unknown page template", slog.String("page", name))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if data.Active == "" {
		data.Active = name
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		logging.FromContext(req.Context()).Error("render page failed", slog.String("page", name), slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// RenderError shows a full-page error with message.
func (r *Renderer) RenderError(w http.ResponseWriter, req *http.Request, status int, message string) {
	r.Render(w, req, status, PageError, Page{Title: http.StatusText(status), Message: message})
}

// Static serves the embedded assets under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
