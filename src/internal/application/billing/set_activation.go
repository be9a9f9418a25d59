package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/application/membership"
	"github.com/jackyeh168/gym_crm/src/internal/domain/audit"
	"github.com/jackyeh168/gym_crm/src/internal/domain/billing"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ErrExpiryAndDuration expiry 與 durationMonths 同時提供
var ErrExpiryAndDuration = shared.NewDomainError(shared.KindValidation, "EXPIRY_AND_DURATION", "provide either expiry or durationMonths, not both")

// ===========================
// Command / Result
// ===========================

// SetActivationCommand 開通 / 停用命令
//
// Activated 為 true 時，Expiry（時間點）與 DurationMonths（從開始時間起算的月數）擇一。
type SetActivationCommand struct {
	Actor          member.Actor
	MemberID       string
	Activated      bool
	Expiry         *time.Time
	DurationMonths *int
	StartTime      *time.Time
	Amount         *decimal.Decimal
	PaymentMethod  string
	Notes          string
}

// SetActivationResult 結果；停用或未變更時 Transaction 為 nil
type SetActivationResult struct {
	Member      MembershipDTO
	Transaction *TransactionDTO
	Changed     bool
	Message     string
}

// SetActivationUseCase 開通會籍並記帳，或停用會籍
type SetActivationUseCase interface {
	Execute(ctx context.Context, cmd SetActivationCommand) (*SetActivationResult, error)
}

// SetActivationDeps 建構參數
type SetActivationDeps struct {
	MemberRepo        member.MemberRepository
	TransactionRepo   billing.TransactionRepository
	AuditRepo         audit.EntryRepository
	Records           membership.RecordManager
	References        *billing.ReferenceGenerator
	TxManager         shared.TransactionManager
	Locker            shared.Locker
	Publisher         shared.EventPublisher
	Clock             shared.Clock
	Logger            *slog.Logger
	ReferenceAttempts int
	Currency          string
}

// SetActivationUseCaseImpl 實作
type SetActivationUseCaseImpl struct {
	memberRepo        member.MemberRepository
	transactionRepo   billing.TransactionRepository
	auditRepo         audit.EntryRepository
	records           membership.RecordManager
	references        *billing.ReferenceGenerator
	txManager         shared.TransactionManager
	locker            shared.Locker
	publisher         shared.EventPublisher
	clock             shared.Clock
	logger            *slog.Logger
	referenceAttempts int
	currency          string
}

// NewSetActivationUseCase 建構函數
func NewSetActivationUseCase(d SetActivationDeps) SetActivationUseCase {
	attempts := d.ReferenceAttempts
	if attempts <= 0 {
		attempts = 5
	}
	return &SetActivationUseCaseImpl{
		memberRepo:        d.MemberRepo,
		transactionRepo:   d.TransactionRepo,
		auditRepo:         d.AuditRepo,
		records:           d.Records,
		references:        d.References,
		txManager:         d.TxManager,
		locker:            d.Locker,
		publisher:         d.Publisher,
		clock:             d.Clock,
		logger:            d.Logger,
		referenceAttempts: attempts,
		currency:          d.Currency,
	}
}

// Execute 執行開通 / 停用
//
// 驗證與權限檢查在任何寫入前完成；開通時交易紀錄、會籍狀態與審計日誌在同一個 DB 事務內。
func (uc *SetActivationUseCaseImpl) Execute(ctx context.Context, cmd SetActivationCommand) (*SetActivationResult, error) {
	if err := cmd.Actor.Require(member.RoleStaff); err != nil {
		return nil, err
	}

	memberID, err := member.MemberIDFromString(cmd.MemberID)
	if err != nil {
		return nil, err
	}

	if !cmd.Activated {
		return uc.deactivate(ctx, cmd.Actor, memberID)
	}

	plan, err := uc.planActivation(cmd)
	if err != nil {
		return nil, err
	}
	return uc.activate(ctx, cmd.Actor, memberID, plan)
}

// ===========================
// 停用
// ===========================

func (uc *SetActivationUseCaseImpl) deactivate(ctx context.Context, actor member.Actor, memberID member.MemberID) (*SetActivationResult, error) {
	unlock := uc.locker.Lock(memberID.String())
	defer unlock()

	var (
		result *SetActivationResult
		event  shared.DomainEvent
	)
	err := uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		event = nil

		m, err := uc.loadTarget(tx, memberID)
		if err != nil {
			return err
		}

		changed, err := uc.records.Deactivate(tx, memberID)
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		if changed {
			entry, err := audit.NewEntry(memberID, actor.ID, audit.ActionDeactivatedMember, "", now)
			if err != nil {
				return err
			}
			if err := uc.auditRepo.Append(tx, entry); err != nil {
				return err
			}
			m.Deactivate(now)
			event = member.NewMembershipDeactivatedEvent(memberID, member.ReasonManual, now)
		}

		message := "Member deactivated"
		if !changed {
			message = "Member is already inactive"
		}
		result = &SetActivationResult{Member: toMembershipDTO(m), Changed: changed, Message: message}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if event != nil {
		uc.publish(event)
	}
	return result, nil
}

// ===========================
// 開通
// ===========================

// activationPlan 驗證後的開通參數
type activationPlan struct {
	window member.ValidityWindow
	amount billing.Amount
	method billing.PaymentMethod
	notes  string
}

// planActivation 在取得鎖與開啟事務前完成所有輸入驗證
func (uc *SetActivationUseCaseImpl) planActivation(cmd SetActivationCommand) (activationPlan, error) {
	if cmd.Expiry != nil && cmd.DurationMonths != nil {
		return activationPlan{}, ErrExpiryAndDuration
	}
	if cmd.Expiry == nil && cmd.DurationMonths == nil {
		return activationPlan{}, member.ErrDurationRequired
	}
	if cmd.Amount == nil {
		return activationPlan{}, billing.ErrAmountRequired
	}
	amount, err := billing.NewAmount(*cmd.Amount)
	if err != nil {
		return activationPlan{}, err
	}
	method, err := billing.ParsePaymentMethod(cmd.PaymentMethod)
	if err != nil {
		return activationPlan{}, err
	}

	start := uc.clock.Now()
	if cmd.StartTime != nil && !cmd.StartTime.IsZero() {
		start = cmd.StartTime.UTC()
	}

	var window member.ValidityWindow
	if cmd.Expiry != nil {
		window, err = member.NewValidityWindow(start, *cmd.Expiry)
	} else {
		window, err = member.NewValidityWindowForMonths(start, *cmd.DurationMonths)
	}
	if err != nil {
		return activationPlan{}, err
	}

	return activationPlan{window: window, amount: amount, method: method, notes: cmd.Notes}, nil
}

func (uc *SetActivationUseCaseImpl) activate(ctx context.Context, actor member.Actor, memberID member.MemberID, plan activationPlan) (*SetActivationResult, error) {
	unlock := uc.locker.Lock(memberID.String())
	defer unlock()

	var (
		result   *SetActivationResult
		recorded *billing.Transaction
	)
	err := uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		result, recorded = nil, nil

		if _, err := uc.loadTarget(tx, memberID); err != nil {
			return err
		}

		now := uc.clock.Now()
		transaction, err := uc.recordTransaction(tx, actor, memberID, plan, now)
		if err != nil {
			return err
		}
		recorded = transaction

		m, err := uc.records.Activate(tx, memberID, plan.window.Start(), plan.window.Expiry())
		if err != nil {
			return err
		}

		description := fmt.Sprintf("%s (expires: %s, amount: %s%s)",
			audit.ActionActivatedMember,
			plan.window.Expiry().Format("2006-01-02"),
			uc.currency,
			plan.amount.String(),
		)
		entry, err := audit.NewEntry(memberID, actor.ID, audit.ActionActivatedMember, description, now)
		if err != nil {
			return err
		}
		if err := uc.auditRepo.Append(tx, entry); err != nil {
			return err
		}

		dto := toTransactionDTO(transaction)
		result = &SetActivationResult{
			Member:      toMembershipDTO(m),
			Transaction: &dto,
			Changed:     true,
			Message:     "Member activated",
		}
		return nil
	})
	if err != nil {
		return nil, uc.compensate(ctx, recorded, err)
	}

	uc.logger.Info("billing: membership activated",
		slog.String("member_id", memberID.String()),
		slog.String("staff_id", actor.ID.String()),
		slog.String("reference", recorded.Reference().String()),
		slog.String("amount", recorded.Amount().String()),
	)
	uc.publish(member.NewMembershipActivatedEvent(memberID, actor.ID, plan.window.Expiry(), recorded.PaymentDate()))
	return result, nil
}

// recordTransaction 產生 reference 並寫入交易；唯一索引衝突時重試
func (uc *SetActivationUseCaseImpl) recordTransaction(
	tx shared.TransactionContext,
	actor member.Actor,
	memberID member.MemberID,
	plan activationPlan,
	now time.Time,
) (*billing.Transaction, error) {
	for attempt := 1; attempt <= uc.referenceAttempts; attempt++ {
		transaction, err := billing.NewTransaction(billing.NewTransactionParams{
			MemberID:      memberID,
			StaffID:       actor.ID,
			Window:        plan.window,
			Amount:        plan.amount,
			PaymentMethod: plan.method,
			PaymentDate:   now,
			Reference:     uc.references.Generate(now),
			Notes:         plan.notes,
		})
		if err != nil {
			return nil, err
		}

		err = uc.transactionRepo.Save(tx, transaction)
		if err == nil {
			return transaction, nil
		}
		if !errors.Is(err, billing.ErrReferenceConflict) {
			return nil, err
		}
		uc.logger.Warn("billing: reference collision, retrying",
			slog.String("reference", transaction.Reference().String()),
			slog.Int("attempt", attempt),
		)
	}

	return nil, billing.ErrReferenceGeneration.WithContext("attempts", uc.referenceAttempts)
}

// compensate 回滾失敗時作廢已寫入的交易
//
// 作廢成功（或交易其實沒有寫入）代表狀態已一致，返回原始錯誤；
// 作廢也失敗則返回 PartialFailure，交給人工對帳。
func (uc *SetActivationUseCaseImpl) compensate(ctx context.Context, recorded *billing.Transaction, err error) error {
	if recorded == nil || !errors.Is(err, shared.ErrRollbackFailed) {
		return err
	}

	cause := errors.Unwrap(err)
	voidErr := uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		return uc.transactionRepo.MarkVoid(tx, recorded.ID(), "activation rolled back")
	})
	if voidErr == nil || errors.Is(voidErr, billing.ErrTransactionNotFound) {
		uc.logger.Warn("billing: rollback failed, transaction voided",
			slog.String("transaction_id", recorded.ID().String()),
			slog.Any("error", cause),
		)
		if cause == nil {
			return err
		}
		return cause
	}

	uc.logger.Error("billing: activation left partially applied",
		slog.String("transaction_id", recorded.ID().String()),
		slog.String("reference", recorded.Reference().String()),
		slog.Any("error", err),
		slog.Any("void_error", voidErr),
	)
	if de, ok := shared.AsDomainError(err); ok {
		return de.WithContext("transaction_id", recorded.ID().String(), "reference", recorded.Reference().String())
	}
	return err
}

// loadTarget 讀取目標會員；staff / admin 不能被開通或停用
func (uc *SetActivationUseCaseImpl) loadTarget(tx shared.TransactionContext, memberID member.MemberID) (*member.Member, error) {
	m, err := uc.memberRepo.FindByMemberID(tx, memberID)
	if err != nil {
		return nil, err
	}
	if m.Role() != member.RoleMember {
		return nil, member.ErrProtectedTarget.WithContext("member_id", memberID.String(), "role", m.Role().String())
	}
	return m, nil
}

func (uc *SetActivationUseCaseImpl) publish(event shared.DomainEvent) {
	if err := uc.publisher.Publish(event); err != nil {
		uc.logger.Warn("billing: publish event failed", slog.Any("error", err))
	}
}
