package service

import (
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// ErrInvalidToken access token 無效或已過期
var ErrInvalidToken = shared.NewDomainError(shared.KindAuthorization, "INVALID_TOKEN", "invalid or expired access token")

// Claims access token 內容
type Claims struct {
	MemberID  member.MemberID
	Role      member.Role
	ExpiresAt time.Time
}

// Actor 轉換為操作者身分
func (c *Claims) Actor() member.Actor {
	return member.Actor{ID: c.MemberID, Role: c.Role}
}

// TokenService 簽發與驗證 access token
type TokenService interface {
	// GenerateAccessToken 簽發 token，返回 token 與到期時間
	GenerateAccessToken(memberID member.MemberID, role member.Role) (string, time.Time, error)

	// ValidateAccessToken 驗證 token；失敗返回 ErrInvalidToken
	ValidateAccessToken(token string) (*Claims, error)
}
