package member

import (
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// ===========================
// MemberID Value Object
// ===========================

// MemberMarker 會員 ID 標記類型
type MemberMarker struct{}

// MemberID 帳號 ID（member / staff / admin 共用同一 ID 空間）
type MemberID = shared.EntityID[MemberMarker]

// NewMemberID 生成新的會員 ID
func NewMemberID() MemberID {
	return shared.NewEntityID[MemberMarker]()
}

// MemberIDFromString 從字串解析會員 ID，失敗返回 ErrInvalidMemberID
func MemberIDFromString(value string) (MemberID, error) {
	return shared.EntityIDFromString[MemberMarker](value, ErrInvalidMemberID)
}
