package handler

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"forumfront/internal/controller"
	"forumfront/internal/service"
	"forumfront/internal/session"
	"forumfront/internal/transport/http/middleware"
	"forumfront/internal/view"
)

type HomeHandler struct {
	pages
	composer  *service.QueryComposer
	reactions *service.ReactionService
}

func NewHomeHandler(
	sessions session.Provider,
	composer *service.QueryComposer,
	reactions *service.ReactionService,
	renderer *view.Renderer,
	cfg PageConfig,
	logger *zap.Logger,
) *HomeHandler {
	return &HomeHandler{
		pages:     newPages(sessions, renderer, cfg, logger.Named("home_handler")),
		composer:  composer,
		reactions: reactions,
	}
}

func (h *HomeHandler) controller() *controller.Home {
	return controller.NewHome(h.sessions, h.composer, h.reactions, h.logger)
}

// Index handles GET /
// Query: category=<uuid>, filter=all|mine|liked
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	c := h.controller()
	c.Mount(r.Context(), middleware.TokenFromContext(r.Context()), parseFilter(r.URL.Query()))
	defer c.Unmount()

	base := h.base(w, r, c.Session(), c.Notices())
	h.view.Render(w, http.StatusOK, view.PageHome, view.NewHomePage(base, c))
}

// parseFilter reads the home filters. An unparsable category means no
// category filter.
func parseFilter(q url.Values) service.PostFilter {
	f := service.PostFilter{Activity: service.ParseActivity(q.Get("filter"))}
	if raw := q.Get("category"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			f.CategoryID = &id
		}
	}
	return f
}
