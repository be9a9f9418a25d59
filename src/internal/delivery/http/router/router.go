// Package router 註冊所有 HTTP 路由。
package router

import (
	"github.com/jackyeh168/gym_crm/src/internal/delivery/http/middleware"
	"github.com/jackyeh168/gym_crm/src/internal/delivery/http/router/handler"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/config"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/websocket"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
)

// RouterParams fx 注入參數
type RouterParams struct {
	fx.In

	Config         *config.Config
	AuthHandler    *handler.AuthHandler
	MemberHandler  *handler.MemberHandler
	StaffHandler   *handler.StaffHandler
	AdminHandler   *handler.AdminHandler
	StatsHandler   *handler.StatsHandler
	AuthMiddleware *middleware.AuthMiddleware
	Hub            *websocket.Hub
}

type router struct {
	params RouterParams
}

// NewRouter 建構函數
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes 註冊路由
func (r *router) RegisterRoutes(e *echo.Echo) {
	p := r.params
	authenticate := p.AuthMiddleware.Authenticate

	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api", echomiddleware.ContextTimeout(p.Config.HTTP.Timeouts.Request))
	api.GET("/stats", p.StatsHandler.Landing)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", p.AuthHandler.Register)
		authGroup.POST("/login", p.AuthHandler.Login)
	}

	memberGroup := api.Group("/members/me", authenticate)
	{
		memberGroup.GET("/qr", p.MemberHandler.MyQRCode)
		memberGroup.GET("/transactions", p.MemberHandler.MyTransactions)
	}

	staffGroup := api.Group("/staff", authenticate)
	staffOnly := p.AuthMiddleware.RequireRole(member.RoleStaff)
	{
		staffGroup.POST("/scan", p.StaffHandler.Scan, staffOnly)
		staffGroup.GET("/members", p.StaffHandler.ListMembers, staffOnly)
		staffGroup.PATCH("/members/:id", p.StaffHandler.EditMember, staffOnly)
		staffGroup.DELETE("/members/:id", p.StaffHandler.DeleteMember, staffOnly)
		staffGroup.POST("/members/:id/activation", p.StaffHandler.SetActivation, staffOnly)
		staffGroup.GET("/members/:id/transactions", p.StaffHandler.MemberTransactions, staffOnly)
		staffGroup.GET("/members/:id/qr", p.StaffHandler.MemberQRCode, staffOnly)
		// 入場紀錄為唯讀，admin 也可查詢
		staffGroup.GET("/logs", p.StaffHandler.CheckInLogs, p.AuthMiddleware.RequireRole(member.RoleStaff, member.RoleAdmin))
	}

	adminGroup := api.Group("/admin", authenticate, p.AuthMiddleware.RequireRole(member.RoleAdmin))
	{
		adminGroup.GET("/users", p.AdminHandler.ListUsers)
		adminGroup.POST("/staff", p.AdminHandler.CreateStaff)
		adminGroup.DELETE("/staff/:id", p.AdminHandler.DeleteStaff)
		adminGroup.GET("/logs", p.AdminHandler.AuditLogs)
	}

	// 即時入場動態（staff）；瀏覽器以 ?access_token= 帶 token
	e.GET("/ws/checkins",
		echo.WrapHandler(websocket.HandleWebSocket(p.Hub, p.Config.HTTP.AllowOrigins)),
		authenticate, p.AuthMiddleware.RequireRole(member.RoleStaff, member.RoleAdmin),
	)
}
