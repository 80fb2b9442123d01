// Package view renders controller state as HTML pages.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

//go:embed templates
var files embed.FS

// Page template names accepted by Render.
const (
	PageHome       = "home"
	PagePost       = "post_detail"
	PageCreatePost = "create_post"
	PageProfile    = "profile"
	PageError      = "error"
)

var funcs = template.FuncMap{
	"timeAgo": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return humanize.Time(t)
	},
	"formatDateTime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 02, 2006 at 15:04")
	},
	"paragraphs": func(s string) []string {
		var out []string
		for _, line := range strings.Split(s, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
		return out
	},
	"withReturn": func(card any, returnTo string) map[string]any {
		return map[string]any{"Card": card, "ReturnTo": returnTo}
	},
	"reactionForm": func(card any, action, postID, returnTo string) map[string]any {
		return map[string]any{"Card": card, "Action": action, "PostID": postID, "ReturnTo": returnTo}
	},
	"active": func(ok bool, class string) string {
		if ok {
			return class
		}
		return ""
	},
}

// Renderer holds one template set per page, each sharing the layout and
// partials.
type Renderer struct {
	pages  map[string]*template.Template
	logger *zap.Logger
}

func NewRenderer(logger *zap.Logger) (*Renderer, error) {
	base, err := template.New("layout").Funcs(funcs).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pageFiles, err := fs.Glob(files, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template), logger: logger.Named("view")}
	for _, f := range pageFiles {
		name := strings.TrimSuffix(path.Base(f), ".html")
		t, err := template.Must(base.Clone()).ParseFS(files, f)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes page into a buffer, then writes it with status. Nothing is
// written to w if execution fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := r.pages[page]
	if !ok {
		r.logger.Error("unknown page", zap.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		r.logger.Error("render failed", zap.String("page", page), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Error renders the error page with the status text and message.
func (r *Renderer) Error(w http.ResponseWriter, base Base, status int, message string) {
	if base.Title == "" {
		base.Title = http.StatusText(status)
	}
	r.Render(w, status, PageError, ErrorPage{Base: base, Status: status, Message: message})
}
