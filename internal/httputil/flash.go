package httputil

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"forumfront/internal/model"
)

// FlashCookie carries notices across a redirect.
const FlashCookie = "forum_flash"

const flashMaxAge = 60

// SetFlash stores notices for the next page view. An empty list is a no-op.
func SetFlash(w http.ResponseWriter, notices []model.Notice, secure bool) {
	if len(notices) == 0 {
		return
	}
	raw, err := json.Marshal(notices)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TakeFlash returns the pending notices and clears the cookie. A malformed
// cookie yields no notices.
func TakeFlash(w http.ResponseWriter, r *http.Request) []model.Notice {
	c, err := r.Cookie(FlashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: FlashCookie, Value: "", Path: "/", MaxAge: -1})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var notices []model.Notice
	if err := json.Unmarshal(raw, &notices); err != nil {
		return nil
	}
	return notices
}

// SafeReturnPath returns raw if it is a local absolute path, otherwise fallback.
func SafeReturnPath(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return raw
}

// SeeOther redirects with 303 so the browser follows up with a GET.
func SeeOther(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}
