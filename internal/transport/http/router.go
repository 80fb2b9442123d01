package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"forumfront/internal/handler"
	"forumfront/internal/httputil"
	forummw "forumfront/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	HomeHandler    *handler.HomeHandler
	PostHandler    *handler.PostHandler
	CommentHandler *handler.CommentHandler
	ProfileHandler *handler.ProfileHandler
	AuthHandler    *handler.AuthHandler
	CookieName     string
	Logger         *zap.Logger
}

// NewRouter creates the chi router with every page route.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(forummw.AccessLog(cfg.Logger.Named("http")))
	r.Use(middleware.Recoverer)
	r.Use(forummw.SecureHeaders)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(forummw.AccessToken(cfg.CookieName))

		r.Get("/", cfg.HomeHandler.Index)

		r.Route("/posts", func(r chi.Router) {
			r.Get("/new", cfg.PostHandler.New)
			r.Post("/new", cfg.PostHandler.Create)
			r.Get("/{id}", cfg.PostHandler.Show)
			r.Post("/{id}/reactions", cfg.PostHandler.React)
			r.Post("/{id}/comments", cfg.PostHandler.Comment)
		})

		r.Post("/comments/{id}/reactions", cfg.CommentHandler.React)

		r.Get("/profile", cfg.ProfileHandler.Show)
		r.Post("/profile", cfg.ProfileHandler.Update)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/session", cfg.AuthHandler.Session)
			r.Post("/logout", cfg.AuthHandler.Logout)
		})
	})

	return r
}
