package handler

import (
	"net/http"

	"go.uber.org/zap"

	"forumfront/internal/controller"
	"forumfront/internal/httputil"
	"forumfront/internal/service"
	"forumfront/internal/session"
	"forumfront/internal/transport/http/middleware"
	"forumfront/internal/view"
)

type ProfileHandler struct {
	pages
	profiles *service.ProfileService
}

func NewProfileHandler(
	sessions session.Provider,
	profiles *service.ProfileService,
	renderer *view.Renderer,
	cfg PageConfig,
	logger *zap.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		pages:    newPages(sessions, renderer, cfg, logger.Named("profile_handler")),
		profiles: profiles,
	}
}

// Show handles GET /profile
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	c := controller.NewProfile(h.sessions, h.profiles, h.logger)
	c.Mount(r.Context(), middleware.TokenFromContext(r.Context()))
	defer c.Unmount()

	if c.State() == controller.StateUnauthenticated {
		h.signIn(w, r)
		return
	}
	h.view.Render(w, http.StatusOK, view.PageProfile, view.NewProfilePage(h.base(w, r, c.Session(), c.Notices()), c))
}

// Update handles POST /profile
// Form: username, bio
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.WriteBadRequest(w, "Invalid form")
		return
	}

	ctx := r.Context()
	c := controller.NewProfile(h.sessions, h.profiles, h.logger)
	c.Mount(ctx, middleware.TokenFromContext(ctx))
	defer c.Unmount()

	if c.State() == controller.StateUnauthenticated {
		h.signIn(w, r)
		return
	}

	ok := c.Submit(ctx, controller.ProfileForm{
		Username: r.PostForm.Get("username"),
		Bio:      r.PostForm.Get("bio"),
	})
	if ok {
		h.redirect(w, r, "/profile", c.Notices())
		return
	}
	h.view.Render(w, http.StatusUnprocessableEntity, view.PageProfile, view.NewProfilePage(h.base(w, r, c.Session(), c.Notices()), c))
}
