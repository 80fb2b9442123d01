package middleware

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// AccessTokenKey is the context key for the raw access token
	AccessTokenKey contextKey = "access_token"
)

// AccessToken puts the request's access token, if any, on the context. It
// checks the Authorization header first, then falls back to the session cookie.
// Tokens are not verified here; controllers resolve them.
func AccessToken(cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string

			// 1. Authorization: Bearer <token>
			if h := r.Header.Get("Authorization"); h != "" {
				parts := strings.SplitN(h, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					token = strings.TrimSpace(parts[1])
				}
			}

			// 2. Session cookie
			if token == "" {
				if c, err := r.Cookie(cookieName); err == nil {
					token = c.Value
				}
			}

			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), AccessTokenKey, token)))
		})
	}
}

// TokenFromContext returns the access token, or "" for anonymous requests.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(AccessTokenKey).(string)
	return token
}
