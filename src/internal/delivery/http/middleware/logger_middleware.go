package middleware

import (
	"log/slog"
	"time"

	deliverycontext "github.com/jackyeh168/gym_crm/src/internal/delivery/context"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/config"

	"github.com/labstack/echo/v4"
)

// LoggerMiddleware 請求日誌；debug 關閉時只記錄 4xx / 5xx
type LoggerMiddleware struct {
	logger *slog.Logger
	debug  bool
}

// NewLoggerMiddleware 建構函數
func NewLoggerMiddleware(logger *slog.Logger, cfg *config.Config) *LoggerMiddleware {
	return &LoggerMiddleware{
		logger: logger,
		debug:  cfg.Env.Debug,
	}
}

// Handle 記錄請求
func (m *LoggerMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			// 先交給 HTTPErrorHandler 寫出回應，才能取得正確的狀態碼
			c.Error(err)
		}

		status := c.Response().Status
		if !m.debug && status < 400 {
			return nil
		}
		m.logRequest(c, start, status, err)
		return nil
	}
}

func (m *LoggerMiddleware) logRequest(c echo.Context, start time.Time, status int, err error) {
	req := c.Request()
	latency := time.Since(start)

	fields := []slog.Attr{
		slog.String("request_id", deliverycontext.GetRequestID(c)),
		slog.String("method", req.Method),
		slog.String("uri", req.URL.Path),
		slog.Int("status", status),
		slog.Duration("latency", latency),
		slog.String("remote_ip", c.RealIP()),
		slog.String("user_agent", req.UserAgent()),
	}

	if len(req.URL.RawQuery) > 0 {
		query := req.URL.Query()
		if query.Has(accessTokenQuery) {
			query.Set(accessTokenQuery, "[redacted]")
		}
		fields = append(fields, slog.String("query", query.Encode()))
	}
	if err != nil {
		fields = append(fields, slog.Any("error", err))
	}

	logLevel := slog.LevelInfo
	if status >= 400 {
		logLevel = slog.LevelWarn
	}
	if status >= 500 {
		logLevel = slog.LevelError
	}

	m.logger.LogAttrs(req.Context(), logLevel, "HTTP Request", fields...)
}
