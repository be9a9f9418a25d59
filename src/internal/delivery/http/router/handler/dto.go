package handler

import (
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/application/admin"
	"github.com/jackyeh168/gym_crm/src/internal/application/billing"
	"github.com/jackyeh168/gym_crm/src/internal/application/checkin"
	"github.com/jackyeh168/gym_crm/src/internal/application/logs"
	appmember "github.com/jackyeh168/gym_crm/src/internal/application/member"
	deliverycontext "github.com/jackyeh168/gym_crm/src/internal/delivery/context"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ===========================
// Request DTOs
// ===========================

// RegisterRequest 自助註冊
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=16"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest 登入
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ScanRequest 掃碼入場；id 與 token 擇一
type ScanRequest struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

// ActivationRequest 設定會籍狀態
//
// expiry / startTime 接受 RFC3339 或 YYYY-MM-DD（伺服器時區）。
type ActivationRequest struct {
	Activated      *bool            `json:"activated" validate:"required"`
	Expiry         *string          `json:"expiry"`
	DurationMonths *int             `json:"durationMonths" validate:"omitempty,min=1,max=120"`
	StartTime      *string          `json:"startTime"`
	Amount         *decimal.Decimal `json:"amount"`
	PaymentMethod  string           `json:"paymentMethod"`
	Notes          string           `json:"notes" validate:"max=500"`
}

// EditMemberRequest 編輯會員；空字串代表不變更
type EditMemberRequest struct {
	Username string `json:"username" validate:"omitempty,max=16"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// CreateStaffRequest 建立 staff
type CreateStaffRequest struct {
	Username string `json:"username" validate:"required,max=16"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ListQuery 列表查詢參數
type ListQuery struct {
	Search   string   `query:"search"`
	Roles    []string `query:"role"`
	Page     int      `query:"page" validate:"omitempty,min=1"`
	PageSize int      `query:"pageSize" validate:"omitempty,min=1,max=100"`
}

// LogQueryParams 日誌查詢參數
type LogQueryParams struct {
	Search      string `query:"search"`
	Action      string `query:"action"`
	QuickFilter string `query:"quickFilter"`
	Date        string `query:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime   string `query:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime     string `query:"endTime" validate:"omitempty,datetime=15:04"`
	Page        int    `query:"page" validate:"omitempty,min=1"`
}

func (p LogQueryParams) toLogQuery(actor member.Actor) logs.LogQuery {
	return logs.LogQuery{
		Actor:     actor,
		Search:    p.Search,
		Quick:     p.QuickFilter,
		Date:      p.Date,
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
		Page:      p.Page,
	}
}

// ===========================
// Response DTOs
// ===========================

// ScanResponse 掃碼結果；拒絕入場也是 200，以 success / outcome 區分
type ScanResponse struct {
	Success     bool                `json:"success"`
	Code        int                 `json:"code"`
	Message     string              `json:"message"`
	Outcome     string              `json:"outcome"`
	Member      *ScanMemberResponse `json:"member,omitempty"`
	CheckedInAt *time.Time          `json:"checkedInAt,omitempty"`
}

// ScanMemberResponse 入場成功時顯示的會員資料
type ScanMemberResponse struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email,omitempty"`
	Expiry   time.Time `json:"expiry"`
}

// ActivationResponse 會籍設定結果
type ActivationResponse struct {
	Success     bool                 `json:"success"`
	Code        int                  `json:"code"`
	Message     string               `json:"message"`
	Changed     bool                 `json:"changed"`
	Member      *MembershipResponse  `json:"member,omitempty"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// MembershipResponse 會籍狀態
type MembershipResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email,omitempty"`
	Activated bool       `json:"activated"`
	StartTime *time.Time `json:"startTime,omitempty"`
	Expiry    *time.Time `json:"expiry,omitempty"`
}

// TransactionResponse 付款紀錄
type TransactionResponse struct {
	ID             string    `json:"id"`
	MemberID       string    `json:"memberId"`
	StaffID        string    `json:"staffId"`
	Reference      string    `json:"reference"`
	MembershipType string    `json:"membershipType"`
	DurationMonths int       `json:"durationMonths"`
	Amount         string    `json:"amount"`
	PaymentMethod  string    `json:"paymentMethod"`
	PaymentDate    time.Time `json:"paymentDate"`
	StartTime      time.Time `json:"startTime"`
	Expiry         time.Time `json:"expiry"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
}

// TransactionsResponse 會員付款紀錄列表
type TransactionsResponse struct {
	MemberID      string                `json:"memberId"`
	Transactions  []TransactionResponse `json:"transactions"`
	TotalSpent    string                `json:"totalSpent"`
	TotalPayments int                   `json:"totalPayments"`
}

// MemberResponse 帳號資料
type MemberResponse struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email,omitempty"`
	Role           string     `json:"role"`
	Activated      bool       `json:"activated"`
	Valid          bool       `json:"valid"`
	StartTime      *time.Time `json:"startTime,omitempty"`
	Expiry         *time.Time `json:"expiry,omitempty"`
	DurationMonths int        `json:"durationMonths,omitempty"`
	NumberOfScans  int        `json:"numberOfScans,omitempty"`
	LastCheckInAt  *time.Time `json:"lastCheckInAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// PageResponse 分頁資訊
type PageResponse struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// MemberListResponse 帳號列表
type MemberListResponse struct {
	Members    []MemberResponse `json:"members"`
	Pagination PageResponse     `json:"pagination"`
}

// RegisterResponse 註冊結果；qrCode 為 PNG data URL
type RegisterResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	QRCode   string `json:"qrCode"`
}

// LoginResponse 登入結果
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
}

// StaffResponse staff 帳號
type StaffResponse struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email,omitempty"`
	NumberOfScans int       `json:"numberOfScans"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AuditLogResponse 審計日誌
type AuditLogResponse struct {
	ID             string    `json:"id"`
	MemberID       string    `json:"memberId"`
	MemberUsername string    `json:"memberUsername"`
	StaffID        string    `json:"staffId,omitempty"`
	StaffUsername  string    `json:"staffUsername,omitempty"`
	Action         string    `json:"action"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"createdAt"`
}

// AuditLogListResponse 審計日誌列表
type AuditLogListResponse struct {
	Logs       []AuditLogResponse `json:"logs"`
	Actions    []string           `json:"actions"`
	Pagination PageResponse       `json:"pagination"`
}

// CheckInLogResponse 入場紀錄
type CheckInLogResponse struct {
	ID             string    `json:"id"`
	MemberID       string    `json:"memberId"`
	MemberUsername string    `json:"memberUsername"`
	StaffID        string    `json:"staffId"`
	StaffUsername  string    `json:"staffUsername"`
	CheckedInAt    time.Time `json:"checkedInAt"`
}

// CheckInLogListResponse 入場紀錄列表
type CheckInLogListResponse struct {
	Logs       []CheckInLogResponse `json:"logs"`
	Pagination PageResponse         `json:"pagination"`
}

// StatsResponse 首頁統計
type StatsResponse struct {
	TotalMembers    int64 `json:"totalMembers"`
	ActiveMembers   int64 `json:"activeMembers"`
	RegisteredToday int64 `json:"registeredToday"`
}

// ===========================
// Mappers
// ===========================

func toScanResponse(code int, r *checkin.ProcessScanResult) ScanResponse {
	resp := ScanResponse{
		Success: r.Success(),
		Code:    code,
		Message: r.Message,
		Outcome: r.Outcome.String(),
	}
	if r.Member != nil {
		resp.Member = &ScanMemberResponse{
			ID:       r.Member.MemberID,
			Username: r.Member.Username,
			Email:    r.Member.Email,
			Expiry:   r.Member.Expiry,
		}
	}
	if !r.CheckedInAt.IsZero() {
		checkedInAt := r.CheckedInAt
		resp.CheckedInAt = &checkedInAt
	}
	return resp
}

func toMembershipResponse(m billing.MembershipDTO) *MembershipResponse {
	return &MembershipResponse{
		ID:        m.MemberID,
		Username:  m.Username,
		Email:     m.Email,
		Activated: m.Activated,
		StartTime: m.StartTime,
		Expiry:    m.Expiry,
	}
}

func toTransactionResponse(t billing.TransactionDTO) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID,
		MemberID:       t.MemberID,
		StaffID:        t.StaffID,
		Reference:      t.Reference,
		MembershipType: t.MembershipType,
		DurationMonths: t.DurationMonths,
		Amount:         t.Amount,
		PaymentMethod:  t.PaymentMethod,
		PaymentDate:    t.PaymentDate,
		StartTime:      t.StartTime,
		Expiry:         t.Expiry,
		Status:         t.Status,
		Notes:          t.Notes,
	}
}

func toTransactionsResponse(r *billing.ListMemberTransactionsResult) TransactionsResponse {
	items := make([]TransactionResponse, 0, len(r.Transactions))
	for _, t := range r.Transactions {
		items = append(items, toTransactionResponse(t))
	}
	return TransactionsResponse{
		MemberID:      r.MemberID,
		Transactions:  items,
		TotalSpent:    r.TotalSpent,
		TotalPayments: r.TotalPayments,
	}
}

func toMemberResponse(m appmember.MemberDTO) MemberResponse {
	return MemberResponse{
		ID:             m.MemberID,
		Username:       m.Username,
		Email:          m.Email,
		Role:           m.Role,
		Activated:      m.Activated,
		Valid:          m.Valid,
		StartTime:      m.StartTime,
		Expiry:         m.Expiry,
		DurationMonths: m.DurationMonths,
		NumberOfScans:  m.ScanCount,
		LastCheckInAt:  m.LastCheckInAt,
		CreatedAt:      m.CreatedAt,
	}
}

func toMemberListResponse(r *appmember.ListMembersResult) MemberListResponse {
	items := make([]MemberResponse, 0, len(r.Members))
	for _, m := range r.Members {
		items = append(items, toMemberResponse(m))
	}
	return MemberListResponse{
		Members: items,
		Pagination: PageResponse{
			Page:       r.Page.Page,
			PageSize:   r.Page.PageSize,
			Total:      r.Page.Total,
			TotalPages: r.Page.TotalPages,
		},
	}
}

func toStaffResponse(s *admin.StaffDTO) StaffResponse {
	return StaffResponse{
		ID:            s.MemberID,
		Username:      s.Username,
		Email:         s.Email,
		NumberOfScans: s.NumberOfScans,
		CreatedAt:     s.CreatedAt,
	}
}

func toLogPage(p logs.PageInfo) PageResponse {
	return PageResponse{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}

// ===========================
// Helpers
// ===========================

// errMissingActor 認證 middleware 未執行（路由設定錯誤）
var errMissingActor = errors.New("authenticated actor missing from context")

func actorFrom(c echo.Context) (member.Actor, error) {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return member.Actor{}, errMissingActor
	}
	return actor, nil
}

// bindAndValidate 解析並驗證請求
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
