package handler

import (
	"net/http"

	"github.com/jackyeh168/gym_crm/src/internal/application/admin"
	"github.com/jackyeh168/gym_crm/src/internal/application/logs"
	appmember "github.com/jackyeh168/gym_crm/src/internal/application/member"
	"github.com/jackyeh168/gym_crm/src/internal/delivery/http/response"
	"github.com/jackyeh168/gym_crm/src/internal/domain/audit"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AdminHandler staff 帳號管理、全部帳號列表、審計日誌
type AdminHandler struct {
	createStaff admin.CreateStaffUseCase
	deleteStaff admin.DeleteStaffUseCase
	list        appmember.ListMembersUseCase
	auditLogs   logs.QueryAuditLogsUseCase
}

// NewAdminHandler 建構函數
func NewAdminHandler(
	createStaff admin.CreateStaffUseCase,
	deleteStaff admin.DeleteStaffUseCase,
	list appmember.ListMembersUseCase,
	auditLogs logs.QueryAuditLogsUseCase,
) *AdminHandler {
	return &AdminHandler{
		createStaff: createStaff,
		deleteStaff: deleteStaff,
		list:        list,
		auditLogs:   auditLogs,
	}
}

// CreateStaff 建立 staff 帳號
func (h *AdminHandler) CreateStaff(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req CreateStaffRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	staff, err := h.createStaff.Execute(c.Request().Context(), admin.CreateStaffCommand{
		Actor:    actor,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}
	return response.Success(c, http.StatusCreated, toStaffResponse(staff), "Staff created")
}

// DeleteStaff 刪除 staff 帳號
func (h *AdminHandler) DeleteStaff(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	if err := h.deleteStaff.Execute(c.Request().Context(), admin.DeleteStaffCommand{
		Actor:   actor,
		StaffID: c.Param("id"),
	}); err != nil {
		return errors.WithStack(err)
	}
	return response.Success(c, http.StatusOK, nil, "Staff deleted")
}

// ListUsers 所有帳號（可依 role 篩選）
func (h *AdminHandler) ListUsers(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var q ListQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	result, err := h.list.Execute(c.Request().Context(), appmember.ListMembersQuery{
		Actor:    actor,
		Roles:    q.Roles,
		Search:   q.Search,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		return errors.WithStack(err)
	}
	return response.Success(c, http.StatusOK, toMemberListResponse(result), "")
}

// AuditLogs 審計日誌
func (h *AdminHandler) AuditLogs(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var params LogQueryParams
	if err := bindAndValidate(c, &params); err != nil {
		return err
	}

	result, err := h.auditLogs.Execute(c.Request().Context(), logs.AuditLogQuery{
		LogQuery: params.toLogQuery(actor),
		Action:   params.Action,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	items := make([]AuditLogResponse, 0, len(result.Entries))
	for _, e := range result.Entries {
		items = append(items, AuditLogResponse{
			ID:             e.ID,
			MemberID:       e.SubjectID,
			MemberUsername: e.SubjectUsername,
			StaffID:        e.ActorID,
			StaffUsername:  e.ActorUsername,
			Action:         e.Action,
			Description:    e.Description,
			CreatedAt:      e.OccurredAt,
		})
	}

	actions := make([]string, 0, len(audit.Actions))
	for _, a := range audit.Actions {
		actions = append(actions, a.String())
	}

	return response.Success(c, http.StatusOK, AuditLogListResponse{
		Logs:       items,
		Actions:    actions,
		Pagination: toLogPage(result.Page),
	}, "")
}
