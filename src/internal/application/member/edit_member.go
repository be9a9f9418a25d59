package member

import (
	"context"
	"strings"

	"github.com/jackyeh168/gym_crm/src/internal/domain/audit"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// ===========================
// EditMember Use Case
// ===========================

// EditMemberCommand 編輯會員資料
//
// Username / Email 為空字串時保留原值。會籍狀態不在此修改，見 billing.SetActivation。
type EditMemberCommand struct {
	Actor    member.Actor
	MemberID string
	Username string
	Email    string
}

// EditMemberResult 編輯後的會員資料
type EditMemberResult struct {
	Member  MemberDTO
	Changed bool
}

// EditMemberUseCase 編輯會員資料（僅 staff）
//
// 業務規則：
// 1. 目標必須是 member 角色
// 2. Username / Email 不能與其他帳號重複（ConflictError）
// 3. 寫入審計日誌 "Edited member details"
type EditMemberUseCase interface {
	Execute(ctx context.Context, cmd EditMemberCommand) (*EditMemberResult, error)
}

// EditMemberUseCaseImpl 實作
type EditMemberUseCaseImpl struct {
	memberRepo member.MemberRepository
	auditRepo  audit.EntryRepository
	txManager  shared.TransactionManager
	locker     shared.Locker
	clock      shared.Clock
}

// NewEditMemberUseCase 建構函數
func NewEditMemberUseCase(
	memberRepo member.MemberRepository,
	auditRepo audit.EntryRepository,
	txManager shared.TransactionManager,
	locker shared.Locker,
	clock shared.Clock,
) EditMemberUseCase {
	return &EditMemberUseCaseImpl{
		memberRepo: memberRepo,
		auditRepo:  auditRepo,
		txManager:  txManager,
		locker:     locker,
		clock:      clock,
	}
}

// Execute 執行編輯
func (uc *EditMemberUseCaseImpl) Execute(ctx context.Context, cmd EditMemberCommand) (*EditMemberResult, error) {
	if err := cmd.Actor.Require(member.RoleStaff); err != nil {
		return nil, err
	}
	memberID, err := member.MemberIDFromString(cmd.MemberID)
	if err != nil {
		return nil, err
	}

	unlock := uc.locker.Lock(memberID.String())
	defer unlock()

	var result *EditMemberResult
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		m, err := uc.memberRepo.FindByMemberID(tx, memberID)
		if err != nil {
			return err
		}
		if m.Role() != member.RoleMember {
			return member.ErrProtectedTarget.WithContext("member_id", memberID.String(), "role", m.Role().String())
		}

		username := m.Username()
		if strings.TrimSpace(cmd.Username) != "" {
			if username, err = member.NewUsername(cmd.Username); err != nil {
				return err
			}
		}
		email := m.Email()
		if strings.TrimSpace(cmd.Email) != "" {
			if email, err = member.NewEmail(cmd.Email); err != nil {
				return err
			}
		}

		now := uc.clock.Now()
		changed := !username.Equals(m.Username()) || !email.Equals(m.Email())
		if changed {
			if err := ensureAvailable(tx, uc.memberRepo, username, email, memberID); err != nil {
				return err
			}
			if err := m.UpdateProfile(username, email, now); err != nil {
				return err
			}
			if err := uc.memberRepo.Save(tx, m); err != nil {
				return err
			}
			if err := appendAudit(tx, uc.auditRepo, memberID, cmd.Actor.ID, audit.ActionEditedMember, "", now); err != nil {
				return err
			}
		}

		result = &EditMemberResult{Member: toMemberDTO(m, now), Changed: changed}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
