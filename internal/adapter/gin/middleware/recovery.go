package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"person-web-service/internal/adapter/gin/view"
	"person-web-service/pkg/logger"
)

// Recovery turns a panic into the generic 500 page. The panic value is logged, never rendered.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithContext(c.Request.Context(), log).Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				if c.Writer.Written() {
					c.Abort()
					return
				}
				c.HTML(http.StatusInternalServerError, view.ErrorPage, nil)
				c.Abort()
			}
		}()
		c.Next()
	}
}
