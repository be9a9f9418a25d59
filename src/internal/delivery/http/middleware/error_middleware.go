package middleware

import (
	"log/slog"
	"net/http"

	deliverycontext "github.com/jackyeh168/gym_crm/src/internal/delivery/context"
	"github.com/jackyeh168/gym_crm/src/internal/delivery/http/response"
	validatorpkg "github.com/jackyeh168/gym_crm/src/internal/delivery/http/validator"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/service"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware 統一錯誤回應
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware 建構函數
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError echo.HTTPErrorHandler
//
// 對應：
//   - Validation → 400
//   - Authorization → 403（帳密錯誤與 token 無效為 401）
//   - NotFound → 404
//   - Conflict → 409
//   - Persistence / PartialFailure → 500
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		_ = response.Error(c, http.StatusBadRequest, "VALIDATION_FAILED", "Invalid request", validatorpkg.Details(validationErrs))
		return
	}

	if domainErr, ok := shared.AsDomainError(err); ok {
		status := statusOf(domainErr)
		if status >= http.StatusInternalServerError {
			m.log(c).Error("request failed", slog.Any("error", err), slog.String("kind", string(domainErr.Kind)))
		}
		_ = response.Error(c, status, string(codeOf(domainErr)), domainErr.Message, domainErr.Context)
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message, ok := httpErr.Message.(string)
		if !ok {
			message = http.StatusText(httpErr.Code)
		}
		_ = response.Error(c, httpErr.Code, "HTTP_ERROR", message, nil)
		return
	}

	m.log(c).Error("unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)
	_ = response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}

func (m *ErrorMiddleware) log(c echo.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)
}

func statusOf(err *shared.DomainError) int {
	switch err.Kind {
	case shared.KindValidation:
		return http.StatusBadRequest
	case shared.KindNotFound:
		return http.StatusNotFound
	case shared.KindConflict:
		return http.StatusConflict
	case shared.KindAuthorization:
		if errors.Is(err, member.ErrInvalidCredentials) || errors.Is(err, service.ErrInvalidToken) {
			return http.StatusUnauthorized
		}
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// codeOf 分類哨兵沒有 Code 時以 Kind 代替
func codeOf(err *shared.DomainError) shared.ErrorCode {
	if err.Code != "" {
		return err.Code
	}
	return shared.ErrorCode(err.Kind)
}
