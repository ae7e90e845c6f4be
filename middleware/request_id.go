package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-farmlink/logger"
)

// RequestIDHeader 请求标识头
const RequestIDHeader = "X-Request-ID"

// RequestID 为每个请求分配标识，客户端已提供时沿用
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger 记录每个请求的方法、路径、状态与耗时
func RequestLogger() gin.HandlerFunc {
	log := logger.NewSublogger("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start),
			"request_id": c.GetString(RequestIDHeader),
		})
		if session := SessionFrom(c); session.Authenticated() {
			entry = entry.WithField("user", session.UserID)
		}
		switch {
		case c.Writer.Status() >= 500:
			entry.Warn("Request")
		default:
			entry.Debug("Request")
		}
	}
}
