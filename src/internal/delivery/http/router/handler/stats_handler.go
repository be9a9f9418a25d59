package handler

import (
	"net/http"

	appmember "github.com/jackyeh168/gym_crm/src/internal/application/member"
	"github.com/jackyeh168/gym_crm/src/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// StatsHandler 公開統計
type StatsHandler struct {
	stats appmember.LandingStatsUseCase
}

// NewStatsHandler 建構函數
func NewStatsHandler(stats appmember.LandingStatsUseCase) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Landing 首頁統計（不需登入）
func (h *StatsHandler) Landing(c echo.Context) error {
	stats, err := h.stats.Execute(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}
	return response.Success(c, http.StatusOK, StatsResponse{
		TotalMembers:    stats.TotalMembers,
		ActiveMembers:   stats.ActiveMembers,
		RegisteredToday: stats.RegisteredToday,
	}, "")
}

// HealthCheck 健康檢查
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "")
}
