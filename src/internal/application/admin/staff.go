package admin

import (
	"context"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/audit"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/service"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// ===========================
// CreateStaff Use Case
// ===========================

// CreateStaffCommand 建立 staff 帳號（admin）
type CreateStaffCommand struct {
	Actor    member.Actor
	Username string
	Email    string // 選填
	Password string
}

// StaffDTO staff 帳號
type StaffDTO struct {
	MemberID      string
	Username      string
	Email         string
	NumberOfScans int
	CreatedAt     time.Time
}

// CreateStaffUseCase 建立 staff 帳號
//
// 業務規則：
// 1. 只有 admin 可以執行
// 2. Username / Email 唯一
// 3. staff 沒有 QR code，也沒有會籍
// 4. 寫入審計日誌 "Created staff"，actor 為執行的 admin
type CreateStaffUseCase interface {
	Execute(ctx context.Context, cmd CreateStaffCommand) (*StaffDTO, error)
}

// CreateStaffUseCaseImpl 實作
type CreateStaffUseCaseImpl struct {
	memberRepo member.MemberRepository
	auditRepo  audit.EntryRepository
	hasher     service.PasswordHasher
	txManager  shared.TransactionManager
	clock      shared.Clock
}

// NewCreateStaffUseCase 建構函數
func NewCreateStaffUseCase(
	memberRepo member.MemberRepository,
	auditRepo audit.EntryRepository,
	hasher service.PasswordHasher,
	txManager shared.TransactionManager,
	clock shared.Clock,
) CreateStaffUseCase {
	return &CreateStaffUseCaseImpl{
		memberRepo: memberRepo,
		auditRepo:  auditRepo,
		hasher:     hasher,
		txManager:  txManager,
		clock:      clock,
	}
}

// Execute 執行
func (uc *CreateStaffUseCaseImpl) Execute(ctx context.Context, cmd CreateStaffCommand) (*StaffDTO, error) {
	if err := cmd.Actor.Require(member.RoleAdmin); err != nil {
		return nil, err
	}

	var staff *member.Member
	err := uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		var err error
		staff, err = createAccount(tx, uc.memberRepo, uc.hasher, accountInput{
			Username: cmd.Username,
			Email:    cmd.Email,
			Password: cmd.Password,
			Role:     member.RoleStaff,
		}, uc.clock.Now())
		if err != nil {
			return err
		}

		description := audit.ActionCreatedStaff.String() + ": " + staff.Username().String()
		return appendAudit(tx, uc.auditRepo, staff.MemberID(), cmd.Actor.ID, audit.ActionCreatedStaff, description, uc.clock.Now())
	})
	if err != nil {
		return nil, err
	}

	return toStaffDTO(staff), nil
}

// ===========================
// DeleteStaff Use Case
// ===========================

// DeleteStaffCommand 刪除 staff 帳號（admin）
type DeleteStaffCommand struct {
	Actor   member.Actor
	StaffID string
}

// DeleteStaffUseCase 刪除 staff；目標不是 staff 時返回 ErrProtectedTarget
type DeleteStaffUseCase interface {
	Execute(ctx context.Context, cmd DeleteStaffCommand) error
}

// DeleteStaffUseCaseImpl 實作
type DeleteStaffUseCaseImpl struct {
	memberRepo member.MemberRepository
	auditRepo  audit.EntryRepository
	txManager  shared.TransactionManager
	clock      shared.Clock
}

// NewDeleteStaffUseCase 建構函數
func NewDeleteStaffUseCase(
	memberRepo member.MemberRepository,
	auditRepo audit.EntryRepository,
	txManager shared.TransactionManager,
	clock shared.Clock,
) DeleteStaffUseCase {
	return &DeleteStaffUseCaseImpl{
		memberRepo: memberRepo,
		auditRepo:  auditRepo,
		txManager:  txManager,
		clock:      clock,
	}
}

// Execute 執行
func (uc *DeleteStaffUseCaseImpl) Execute(ctx context.Context, cmd DeleteStaffCommand) error {
	if err := cmd.Actor.Require(member.RoleAdmin); err != nil {
		return err
	}
	staffID, err := member.MemberIDFromString(cmd.StaffID)
	if err != nil {
		return err
	}

	return uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		staff, err := uc.memberRepo.FindByMemberID(tx, staffID)
		if err != nil {
			return err
		}
		if staff.Role() != member.RoleStaff {
			return member.ErrProtectedTarget.WithContext("member_id", staffID.String(), "role", staff.Role().String())
		}

		if err := uc.memberRepo.Delete(tx, staffID); err != nil {
			return err
		}

		description := audit.ActionDeletedStaff.String() + ": " + staff.Username().String()
		return appendAudit(tx, uc.auditRepo, staffID, cmd.Actor.ID, audit.ActionDeletedStaff, description, uc.clock.Now())
	})
}

func toStaffDTO(m *member.Member) *StaffDTO {
	return &StaffDTO{
		MemberID:      m.MemberID().String(),
		Username:      m.Username().String(),
		Email:         m.Email().String(),
		NumberOfScans: m.ScanCount(),
		CreatedAt:     m.CreatedAt(),
	}
}
