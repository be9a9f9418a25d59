package member

import (
	"context"

	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/service"
)

// GetQRCodeQuery 取得 QR code；MemberID 為空時取操作者自己的
type GetQRCodeQuery struct {
	Actor    member.Actor
	MemberID string
}

// GetQRCodeUseCase 渲染會員的入場 QR code（PNG）
type GetQRCodeUseCase interface {
	Execute(ctx context.Context, query GetQRCodeQuery) ([]byte, error)
}

// GetQRCodeUseCaseImpl 實作
type GetQRCodeUseCaseImpl struct {
	memberRepo member.MemberRepository
	qrCode     service.QRCodeService
}

// NewGetQRCodeUseCase 建構函數
func NewGetQRCodeUseCase(memberRepo member.MemberRepository, qrCode service.QRCodeService) GetQRCodeUseCase {
	return &GetQRCodeUseCaseImpl{memberRepo: memberRepo, qrCode: qrCode}
}

// Execute 執行查詢；沒有 QR 內容的帳號（staff / admin）返回 NotFound
func (uc *GetQRCodeUseCaseImpl) Execute(ctx context.Context, query GetQRCodeQuery) ([]byte, error) {
	memberID := query.Actor.ID
	if query.MemberID != "" && query.MemberID != query.Actor.ID.String() {
		if err := query.Actor.Require(member.RoleStaff, member.RoleAdmin); err != nil {
			return nil, err
		}
		id, err := member.MemberIDFromString(query.MemberID)
		if err != nil {
			return nil, err
		}
		memberID = id
	}

	m, err := uc.memberRepo.FindByMemberID(nil, memberID)
	if err != nil {
		return nil, err
	}
	if m.QRToken() == "" {
		return nil, member.ErrMemberNotFound.WithContext("member_id", memberID.String(), "reason", "no qr code")
	}

	return uc.qrCode.Render(m.QRToken())
}
