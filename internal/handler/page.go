package handler

import (
	"net/http"

	"go.uber.org/zap"

	"forumfront/internal/httputil"
	"forumfront/internal/model"
	"forumfront/internal/session"
	"forumfront/internal/view"
)

// PageConfig holds the settings shared by all page handlers.
type PageConfig struct {
	CookieName   string
	CookieSecure bool
	SignInURL    string
}

// pages is embedded in each handler. It renders views and carries notices
// across redirects.
type pages struct {
	sessions session.Provider
	view     *view.Renderer
	cfg      PageConfig
	logger   *zap.Logger
}

func newPages(sessions session.Provider, renderer *view.Renderer, cfg PageConfig, logger *zap.Logger) pages {
	return pages{sessions: sessions, view: renderer, cfg: cfg, logger: logger}
}

// base builds the layout data. Flash notices from a previous redirect come first.
func (p pages) base(w http.ResponseWriter, r *http.Request, viewer *model.Session, notices []model.Notice) view.Base {
	return view.Base{
		Viewer:    viewer,
		Notices:   append(httputil.TakeFlash(w, r), notices...),
		SignInURL: p.cfg.SignInURL,
		Path:      r.URL.RequestURI(),
	}
}

// redirect stores notices as a flash and sends a 303 to target.
func (p pages) redirect(w http.ResponseWriter, r *http.Request, target string, notices []model.Notice) {
	httputil.SetFlash(w, notices, p.cfg.CookieSecure)
	httputil.SeeOther(w, r, target)
}

// signIn sends an anonymous visitor to the hosted sign-in page.
func (p pages) signIn(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, p.cfg.SignInURL, http.StatusSeeOther)
}

func (p pages) notFound(w http.ResponseWriter, r *http.Request, viewer *model.Session, message string) {
	p.view.Error(w, p.base(w, r, viewer, nil), http.StatusNotFound, message)
}
