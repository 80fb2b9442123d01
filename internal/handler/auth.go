package handler

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"forumfront/internal/httputil"
	"forumfront/internal/model"
	"forumfront/internal/session"
	"forumfront/internal/transport/http/middleware"
	"forumfront/internal/view"
)

type AuthHandler struct {
	pages
}

func NewAuthHandler(sessions session.Provider, renderer *view.Renderer, cfg PageConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{pages: newPages(sessions, renderer, cfg, logger.Named("auth_handler"))}
}

// Session handles POST /auth/session
// Adopts an access token issued by the hosted provider, either as a Bearer
// header or the access_token form field. Form: return_to
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.WriteBadRequest(w, "Invalid form")
		return
	}

	token := strings.TrimSpace(r.PostForm.Get("access_token"))
	if token == "" {
		token = middleware.TokenFromContext(r.Context())
	}
	if token == "" {
		httputil.WriteBadRequest(w, "Access token is required")
		return
	}

	s, err := h.sessions.SignIn(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTokenExpired):
			httputil.WriteUnauthorized(w, "Access token has expired")
		case errors.Is(err, model.ErrInvalidToken), errors.Is(err, model.ErrSessionRevoked):
			httputil.WriteUnauthorized(w, "Invalid access token")
		default:
			h.logger.Error("sign in failed", zap.Error(err))
			httputil.WriteInternalError(w, "Failed to sign in")
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	httputil.SeeOther(w, r, httputil.SafeReturnPath(r.PostForm.Get("return_to"), "/"))
}

// Logout handles POST /auth/logout
// The session is revoked and every page holding it sees the sign-out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, err := h.sessions.Resolve(ctx, middleware.TokenFromContext(ctx))
	if err == nil && s != nil {
		if err := h.sessions.SignOut(ctx, s); err != nil {
			h.logger.Error("sign out failed", zap.String("session_id", s.SessionID), zap.Error(err))
			h.redirect(w, r, "/", []model.Notice{model.Failure("Error logging out")})
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	h.redirect(w, r, "/", []model.Notice{model.Success("Logged out successfully")})
}
