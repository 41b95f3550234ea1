package web

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marquee/internal/logging"
	"marquee/internal/services"
)

const requestIDHeader = "X-Request-ID"

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		ctx := services.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

func withSurface(surface string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(services.WithSurface(c.Request.Context(), surface))
		c.Next()
	}
}

func accessLogMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log := logging.WithContext(c.Request.Context(), logger)
		status := c.Writer.Status()
		args := logging.Args(
			logging.String("client_ip", c.ClientIP()),
			logging.Int("status", status),
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Duration("duration", duration),
			logging.Int("size_bytes", c.Writer.Size()),
		)
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("http server error", args...)
		case status >= http.StatusBadRequest:
			log.Warn("http client error", args...)
		default:
			log.Info("http request", args...)
		}
	}
}

func recoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logging.ErrorWithContext(logging.WithContext(c.Request.Context(), logger), "handler panic", "http_panic",
			logging.Any("panic", recovered),
			logging.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}
