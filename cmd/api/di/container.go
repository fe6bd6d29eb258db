package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"person-web-service/cmd/api/infrastructure"
	"person-web-service/internal/adapter/cache"
	"person-web-service/internal/adapter/db/gormdb"
	"person-web-service/internal/adapter/db/rawsql"
	"person-web-service/internal/adapter/gin/handler"
	"person-web-service/internal/adapter/gin/middleware"
	"person-web-service/internal/adapter/gin/router"
	"person-web-service/internal/adapter/repository/cached"
	"person-web-service/internal/config"
	"person-web-service/internal/usecase/person"
	redisclient "person-web-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	SQL         *sqlx.DB
	Searcher    *rawsql.PersonSearcher
	RedisClient *redisclient.Client
	PersonUC    person.Usecase
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.Metrics
	WebHandler  *handler.WebHandler
	Router      *gin.Engine
}

// NewContainer creates and initializes all application dependencies.
// Resources opened before a failure are released.
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (_ *Container, err error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	c.DB, err = infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// The prepared search statement needs the table.
	if cfg.DB.AutoMigrate {
		if err := gormdb.AutoMigrate(c.DB); err != nil {
			return nil, err
		}
	}

	c.SQL, err = infrastructure.NewSQLX(c.DB, cfg.DB.Driver)
	if err != nil {
		return nil, err
	}
	c.Searcher, err = rawsql.NewPersonSearcher(ctx, c.SQL, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize searcher: %w", err)
	}

	var repo person.Repository = gormdb.NewPersonRepo(c.DB, l)

	if cfg.Redis.Enabled {
		c.RedisClient, err = infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}

		peopleCache := cache.NewRedisPeopleCache(
			c.RedisClient.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		repo = cached.NewCachedPersonRepository(repo, peopleCache, l)

		if cfg.RateLimit.Enabled {
			c.RateLimiter = middleware.NewRateLimiter(
				c.RedisClient.Client,
				middleware.RateLimiterConfig{
					RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
					BurstCapacity:     cfg.RateLimit.BurstCapacity,
				},
				l,
			)
		}
	}

	c.PersonUC = person.New(repo, c.Searcher, l)

	sqlDB := c.SQL.DB
	c.WebHandler = handler.NewWebHandler(
		c.PersonUC,
		infrastructure.NewSessionStore(cfg.Session),
		cfg.Session.CookieName,
		sqlDB.PingContext,
		l,
	)

	opts := router.Options{
		SSLEnabled:  cfg.App.SSLEnabled,
		RateLimiter: c.RateLimiter,
	}
	if cfg.Session.CSRFEnabled {
		opts.CSRF = &middleware.CSRFConfig{
			SecretKey: cfg.Session.SecretKey,
			Secure:    cfg.Session.CookieSecure,
			MaxAge:    cfg.Session.LifetimeMinutes * 60,
		}
	}
	if cfg.App.MetricsEnabled {
		c.Metrics = middleware.NewMetrics("")
		c.Metrics.Registry().MustRegister(collectors.NewDBStatsCollector(sqlDB, cfg.DB.Driver))
		opts.Metrics = c.Metrics
	}

	c.Router, err = router.SetupRouter(c.WebHandler, opts, l)
	if err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}

	return c, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.Searcher != nil {
		if err := c.Searcher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close searcher: %w", err))
		}
	}

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// sqlx shares the gorm pool, closing the gorm side closes both
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
