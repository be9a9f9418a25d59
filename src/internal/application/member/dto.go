package member

import (
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
)

// MemberDTO 帳號資料（不含密碼雜湊與 QR 內容）
type MemberDTO struct {
	MemberID       string
	Username       string
	Email          string
	Role           string
	Activated      bool
	Valid          bool // 以查詢當下時間計算
	StartTime      *time.Time
	Expiry         *time.Time
	DurationMonths int
	ScanCount      int
	LastCheckInAt  *time.Time
	CreatedAt      time.Time
}

// toMemberDTO 轉換為輸出 DTO
func toMemberDTO(m *member.Member, now time.Time) MemberDTO {
	dto := MemberDTO{
		MemberID:      m.MemberID().String(),
		Username:      m.Username().String(),
		Email:         m.Email().String(),
		Role:          m.Role().String(),
		Activated:     m.Activated(),
		Valid:         m.IsValid(now),
		ScanCount:     m.ScanCount(),
		LastCheckInAt: m.LastCheckInAt(),
		CreatedAt:     m.CreatedAt(),
	}
	if w := m.Window(); !w.IsZero() {
		start, expiry := w.Start(), w.Expiry()
		dto.StartTime = &start
		dto.Expiry = &expiry
		dto.DurationMonths = w.DurationMonths()
	}
	return dto
}

// PageInfo 分頁資訊
type PageInfo struct {
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}
