package member

import (
	"context"

	"github.com/jackyeh168/gym_crm/src/internal/domain/audit"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// DeleteMemberCommand 刪除會員
type DeleteMemberCommand struct {
	Actor    member.Actor
	MemberID string
}

// DeleteMemberUseCase 刪除會員（僅 staff）；staff / admin 帳號不能以此刪除
//
// 付款紀錄與日誌保留，不隨會員刪除。
type DeleteMemberUseCase interface {
	Execute(ctx context.Context, cmd DeleteMemberCommand) error
}

// DeleteMemberUseCaseImpl 實作
type DeleteMemberUseCaseImpl struct {
	memberRepo member.MemberRepository
	auditRepo  audit.EntryRepository
	txManager  shared.TransactionManager
	locker     shared.Locker
	clock      shared.Clock
}

// NewDeleteMemberUseCase 建構函數
func NewDeleteMemberUseCase(
	memberRepo member.MemberRepository,
	auditRepo audit.EntryRepository,
	txManager shared.TransactionManager,
	locker shared.Locker,
	clock shared.Clock,
) DeleteMemberUseCase {
	return &DeleteMemberUseCaseImpl{
		memberRepo: memberRepo,
		auditRepo:  auditRepo,
		txManager:  txManager,
		locker:     locker,
		clock:      clock,
	}
}

// Execute 執行刪除
func (uc *DeleteMemberUseCaseImpl) Execute(ctx context.Context, cmd DeleteMemberCommand) error {
	if err := cmd.Actor.Require(member.RoleStaff); err != nil {
		return err
	}
	memberID, err := member.MemberIDFromString(cmd.MemberID)
	if err != nil {
		return err
	}

	unlock := uc.locker.Lock(memberID.String())
	defer unlock()

	return uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		m, err := uc.memberRepo.FindByMemberID(tx, memberID)
		if err != nil {
			return err
		}
		if m.Role() != member.RoleMember {
			return member.ErrProtectedTarget.WithContext("member_id", memberID.String(), "role", m.Role().String())
		}

		if err := uc.memberRepo.Delete(tx, memberID); err != nil {
			return err
		}

		description := audit.ActionDeletedMember.String() + ": " + m.Username().String()
		return appendAudit(tx, uc.auditRepo, memberID, cmd.Actor.ID, audit.ActionDeletedMember, description, uc.clock.Now())
	})
}
