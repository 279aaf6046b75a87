// Package middleware 提供HTTP中间件
// 包含请求ID注入与基于logrus的请求日志记录
package middleware

import (
	"time"

	"github.com/Alucardzh/notion-works/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDKey 请求ID在gin上下文中的键名
const RequestIDKey = "request_id"

// LoggerMiddleware 日志中间件
type LoggerMiddleware struct {
	logger *logrus.Logger
}

// NewLoggerMiddleware 创建日志中间件实例
func NewLoggerMiddleware() *LoggerMiddleware {
	return &LoggerMiddleware{
		logger: logger.GetLogger(),
	}
}

// RequestID 请求ID中间件
// 为每个请求生成UUID并写入上下文与响应头，用于日志关联
func (m *LoggerMiddleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// RequestLogger 请求日志中间件
func (m *LoggerMiddleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// 处理请求
		c.Next()

		// 记录响应信息
		latency := time.Since(start)
		status := c.Writer.Status()
		errorMessage := c.Errors.String()

		m.logger.WithFields(logrus.Fields{
			"request_id":    c.GetString(RequestIDKey),
			"status":        status,
			"latency":       latency.String(),
			"client_ip":     c.ClientIP(),
			"method":        c.Request.Method,
			"path":          path,
			"raw_query":     raw,
			"error_message": errorMessage,
		}).Info("HTTP Request")
	}
}
