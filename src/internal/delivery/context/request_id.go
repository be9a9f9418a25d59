// Package context 提供 request 範圍的識別資料（request id、logger、操作者）存取。
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey context key 型別
type ContextKey string

const (
	// KeyRequestID request id
	KeyRequestID ContextKey = "request_id"

	// KeyLogger request 範圍的 logger
	KeyLogger ContextKey = "logger"

	// HeaderXRequestID request id header
	HeaderXRequestID = "X-Request-Id"
)

// GetRequestID 從 echo.Context 取得 request id；沒有時產生新的
func GetRequestID(c echo.Context) string {
	val := c.Get(string(KeyRequestID))
	if id, ok := val.(string); ok && id != "" {
		return id
	}

	return uuid.New().String()
}

// SetRequestID 設定 request id
func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(KeyRequestID), requestID)
}

// WithRequestID 返回帶有 request id 的 context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// GetLoggerOrDefault 取出 request 範圍的 logger，沒有時返回 fallback
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(KeyLogger).(*slog.Logger); ok {
		return logger
	}

	return fallback
}

// WithLogger 返回帶有 logger 的 context
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}
