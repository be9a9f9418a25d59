package admin

import (
	"context"
	"log/slog"

	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/service"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// BootstrapAdminCommand 啟動時的預設 admin 帳密
type BootstrapAdminCommand struct {
	Username string
	Password string
}

// EnsureAdminUseCase 系統沒有任何 admin 時建立一個
//
// Username 為空時不做任何事；已有 admin 時返回 false。
type EnsureAdminUseCase interface {
	Execute(ctx context.Context, cmd BootstrapAdminCommand) (bool, error)
}

// EnsureAdminUseCaseImpl 實作
type EnsureAdminUseCaseImpl struct {
	memberRepo member.MemberRepository
	hasher     service.PasswordHasher
	txManager  shared.TransactionManager
	clock      shared.Clock
	logger     *slog.Logger
}

// NewEnsureAdminUseCase 建構函數
func NewEnsureAdminUseCase(
	memberRepo member.MemberRepository,
	hasher service.PasswordHasher,
	txManager shared.TransactionManager,
	clock shared.Clock,
	logger *slog.Logger,
) EnsureAdminUseCase {
	return &EnsureAdminUseCaseImpl{
		memberRepo: memberRepo,
		hasher:     hasher,
		txManager:  txManager,
		clock:      clock,
		logger:     logger,
	}
}

// Execute 執行
func (uc *EnsureAdminUseCaseImpl) Execute(ctx context.Context, cmd BootstrapAdminCommand) (bool, error) {
	if cmd.Username == "" {
		return false, nil
	}

	created := false
	err := uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		count, err := uc.memberRepo.CountByRole(tx, member.RoleAdmin)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		account, err := createAccount(tx, uc.memberRepo, uc.hasher, accountInput{
			Username: cmd.Username,
			Password: cmd.Password,
			Role:     member.RoleAdmin,
		}, uc.clock.Now())
		if err != nil {
			return err
		}

		created = true
		uc.logger.InfoContext(ctx, "bootstrap admin created",
			slog.String("member_id", account.MemberID().String()),
			slog.String("username", account.Username().String()))
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}
