package router

import (
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"person-web-service/internal/adapter/gin/handler"
	"person-web-service/internal/adapter/gin/middleware"
	"person-web-service/internal/adapter/gin/view"
	"person-web-service/pkg/logger"
)

// Options toggles the optional middleware. A nil field disables that layer.
type Options struct {
	SSLEnabled  bool
	CSRF        *middleware.CSRFConfig
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.Metrics
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(h *handler.WebHandler, opts Options, log *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	tmpl, err := view.Load()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	// Global middleware
	router.Use(logger.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(secure.New(secureConfig(opts.SSLEnabled)))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
	}
	if opts.RateLimiter != nil {
		router.Use(opts.RateLimiter.Middleware())
	}
	if opts.CSRF != nil {
		router.Use(middleware.CSRF(*opts.CSRF, log))
	}

	router.GET("/health", h.Health)
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	router.GET("/", h.Index)
	router.POST("/", h.CreatePerson)
	router.GET("/search/:name", h.Search)
	router.GET("/set_session", h.SetSession)
	router.GET("/home", h.Home)

	router.NoRoute(h.NotFound)

	return router, nil
}

func secureConfig(sslEnabled bool) secure.Config {
	cfg := secure.Config{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; frame-ancestors 'none'; form-action 'self'",
	}

	// HSTS and redirects only make sense when the app terminates TLS itself.
	if sslEnabled {
		cfg.SSLRedirect = true
		cfg.STSSeconds = 31536000
		cfg.STSIncludeSubdomains = true
	}
	return cfg
}
