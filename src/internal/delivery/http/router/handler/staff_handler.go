package handler

import (
	"net/http"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/application/billing"
	"github.com/jackyeh168/gym_crm/src/internal/application/checkin"
	"github.com/jackyeh168/gym_crm/src/internal/application/logs"
	appmember "github.com/jackyeh168/gym_crm/src/internal/application/member"
	"github.com/jackyeh168/gym_crm/src/internal/delivery/http/response"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/config"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// StaffHandler 櫃台作業：掃碼、會籍設定、會員管理、入場紀錄
type StaffHandler struct {
	scan         checkin.ProcessScanUseCase
	activation   billing.SetActivationUseCase
	transactions billing.ListMemberTransactionsUseCase
	list         appmember.ListMembersUseCase
	edit         appmember.EditMemberUseCase
	remove       appmember.DeleteMemberUseCase
	qrCode       appmember.GetQRCodeUseCase
	checkIns     logs.QueryCheckInLogsUseCase
	loc          *time.Location
}

// StaffHandlerParams 建構參數
type StaffHandlerParams struct {
	Scan         checkin.ProcessScanUseCase
	Activation   billing.SetActivationUseCase
	Transactions billing.ListMemberTransactionsUseCase
	List         appmember.ListMembersUseCase
	Edit         appmember.EditMemberUseCase
	Remove       appmember.DeleteMemberUseCase
	QRCode       appmember.GetQRCodeUseCase
	CheckIns     logs.QueryCheckInLogsUseCase
}

// NewStaffHandler 建構函數
func NewStaffHandler(p StaffHandlerParams, cfg *config.Config) *StaffHandler {
	return &StaffHandler{
		scan:         p.Scan,
		activation:   p.Activation,
		transactions: p.Transactions,
		list:         p.List,
		edit:         p.Edit,
		remove:       p.Remove,
		qrCode:       p.QRCode,
		checkIns:     p.CheckIns,
		loc:          cfg.Location(),
	}
}

// Scan 掃碼入場；拒絕入場以 200 + success=false 回應
func (h *StaffHandler) Scan(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req ScanRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	result, err := h.scan.Execute(c.Request().Context(), checkin.ProcessScanCommand{
		Actor:    actor,
		MemberID: req.ID,
		Token:    req.Token,
	})
	if err != nil {
		return errors.WithStack(err)
	}
	return c.JSON(http.StatusOK, toScanResponse(http.StatusOK, result))
}

// SetActivation 開通（同時記錄付款）或停用會籍
func (h *StaffHandler) SetActivation(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req ActivationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cmd := billing.SetActivationCommand{
		Actor:          actor,
		MemberID:       c.Param("id"),
		Activated:      *req.Activated,
		DurationMonths: req.DurationMonths,
		Amount:         req.Amount,
		PaymentMethod:  req.PaymentMethod,
		Notes:          req.Notes,
	}
	if cmd.Expiry, err = parseTimestamp("expiry", req.Expiry, h.loc); err != nil {
		return err
	}
	if cmd.StartTime, err = parseTimestamp("startTime", req.StartTime, h.loc); err != nil {
		return err
	}

	result, err := h.activation.Execute(c.Request().Context(), cmd)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := ActivationResponse{
		Success: true,
		Code:    http.StatusOK,
		Message: result.Message,
		Changed: result.Changed,
		Member:  toMembershipResponse(result.Member),
	}
	if result.Transaction != nil {
		t := toTransactionResponse(*result.Transaction)
		resp.Transaction = &t
	}
	return c.JSON(http.StatusOK, resp)
}

// ListMembers 會員列表（staff 只看得到 member）
func (h *StaffHandler) ListMembers(c echo.Context) error {
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

// EditMember 編輯會員 username / email
func (h *StaffHandler) EditMember(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req EditMemberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.edit.Execute(c.Request().Context(), appmember.EditMemberCommand{
		Actor:    actor,
		MemberID: c.Param("id"),
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	message := "Member updated"
	if !result.Changed {
		message = "No changes"
	}
	return response.Success(c, http.StatusOK, toMemberResponse(result.Member), message)
}

// DeleteMember 刪除會員
func (h *StaffHandler) DeleteMember(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	if err := h.remove.Execute(c.Request().Context(), appmember.DeleteMemberCommand{
		Actor:    actor,
		MemberID: c.Param("id"),
	}); err != nil {
		return errors.WithStack(err)
	}
	return response.Success(c, http.StatusOK, nil, "Member deleted")
}

// MemberTransactions 指定會員的付款紀錄
func (h *StaffHandler) MemberTransactions(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	result, err := h.transactions.Execute(c.Request().Context(), billing.ListMemberTransactionsQuery{
		Actor:    actor,
		MemberID: c.Param("id"),
	})
	if err != nil {
		return errors.WithStack(err)
	}
	return response.Success(c, http.StatusOK, toTransactionsResponse(result), "")
}

// MemberQRCode 指定會員的 QR PNG（補印）
func (h *StaffHandler) MemberQRCode(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	png, err := h.qrCode.Execute(c.Request().Context(), appmember.GetQRCodeQuery{
		Actor:    actor,
		MemberID: c.Param("id"),
	})
	if err != nil {
		return errors.WithStack(err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// CheckInLogs 入場紀錄
func (h *StaffHandler) CheckInLogs(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var params LogQueryParams
	if err := bindAndValidate(c, &params); err != nil {
		return err
	}

	result, err := h.checkIns.Execute(c.Request().Context(), params.toLogQuery(actor))
	if err != nil {
		return errors.WithStack(err)
	}

	items := make([]CheckInLogResponse, 0, len(result.Entries))
	for _, e := range result.Entries {
		items = append(items, CheckInLogResponse{
			ID:             e.ID,
			MemberID:       e.MemberID,
			MemberUsername: e.MemberUsername,
			StaffID:        e.StaffID,
			StaffUsername:  e.StaffUsername,
			CheckedInAt:    e.CheckedInAt,
		})
	}
	return response.Success(c, http.StatusOK, CheckInLogListResponse{
		Logs:       items,
		Pagination: toLogPage(result.Page),
	}, "")
}

// parseTimestamp 接受 RFC3339 或 YYYY-MM-DD（loc 當日 00:00）；nil 或空字串返回 nil
func parseTimestamp(field string, value *string, loc *time.Location) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, *value); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, *value, loc)
	if err != nil {
		return nil, member.ErrInvalidValidityWindow.WithContext(field, *value, "reason", "expected RFC3339 or YYYY-MM-DD")
	}
	return &t, nil
}
