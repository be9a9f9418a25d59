package middleware

import (
	"strings"

	deliverycontext "github.com/jackyeh168/gym_crm/src/internal/delivery/context"
	"github.com/jackyeh168/gym_crm/src/internal/delivery/http/response"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// accessTokenQuery 瀏覽器 WebSocket 無法帶 header，改用 query 參數
const accessTokenQuery = "access_token"

// AuthMiddleware JWT 認證與角色檢查
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware 建構函數
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate 驗證 access token，將操作者寫入 context
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, ok := extractToken(c)
		if !ok {
			return response.Unauthorized(c, "MISSING_TOKEN", "Authorization header is missing or malformed")
		}

		claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
		}

		deliverycontext.SetActor(c, claims.Actor())
		return next(c)
	}
}

// RequireRole 必須在 Authenticate 之後使用
func (m *AuthMiddleware) RequireRole(roles ...member.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := deliverycontext.GetActor(c)
			if !ok {
				return response.Unauthorized(c, "MISSING_TOKEN", "Authentication required")
			}
			if err := actor.Require(roles...); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func extractToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			return "", false
		}
		return tokenString, true
	}

	if token := c.QueryParam(accessTokenQuery); token != "" {
		return token, true
	}
	return "", false
}
