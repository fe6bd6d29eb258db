package middleware

import (
	"context"
	"crypto/sha256"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"person-web-service/internal/adapter/gin/view"
	"person-web-service/pkg/logger"
)

// CSRFFieldName is the hidden form input carrying the token.
const CSRFFieldName = "csrf_token"

// CSRFCookieName holds the masked token secret.
const CSRFCookieName = "_csrf"

type ginContextKey struct{}

// CSRFConfig configures the CSRF guard.
type CSRFConfig struct {
	SecretKey string
	Secure    bool
	MaxAge    int // seconds
}

// CSRF guards unsafe methods with gorilla/csrf. Rejected requests get the 403 page.
// The authentication key is derived from SecretKey so any secret length works.
func CSRF(cfg CSRFConfig, log *zap.Logger) gin.HandlerFunc {
	key := sha256.Sum256([]byte(cfg.SecretKey))

	opts := []csrf.Option{
		csrf.FieldName(CSRFFieldName),
		csrf.CookieName(CSRFCookieName),
		csrf.Secure(cfg.Secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := r.Context().Value(ginContextKey{}).(*gin.Context)
			logger.WithContext(r.Context(), log).Warn("csrf validation failed",
				zap.String("path", r.URL.Path),
				zap.Error(csrf.FailureReason(r)),
			)
			c.HTML(http.StatusForbidden, view.ForbiddenPage, nil)
			c.Abort()
		})),
	}
	if cfg.MaxAge > 0 {
		opts = append(opts, csrf.MaxAge(cfg.MaxAge))
	}

	protect := csrf.Protect(key[:], opts...)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		c := r.Context().Value(ginContextKey{}).(*gin.Context)
		c.Request = r
		c.Next()
	}))

	return func(c *gin.Context) {
		r := c.Request
		if !cfg.Secure {
			r = csrf.PlaintextHTTPRequest(r)
		}
		r = r.WithContext(context.WithValue(r.Context(), ginContextKey{}, c))

		protect.ServeHTTP(c.Writer, r)
	}
}

// CSRFField returns the hidden token input for the request, or "" when the guard is off.
var CSRFField = csrf.TemplateField
