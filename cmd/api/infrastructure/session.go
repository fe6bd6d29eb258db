package infrastructure

import (
	"net/http"

	"github.com/gorilla/sessions"

	"person-web-service/internal/config"
)

// NewSessionStore returns a signed cookie store carrying the configured cookie attributes.
func NewSessionStore(cfg config.SessionConfig) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.SecretKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.LifetimeMinutes * 60,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(store.Options.MaxAge)
	return store
}
