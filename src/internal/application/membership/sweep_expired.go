package membership

import (
	"context"
	"log/slog"

	"github.com/jackyeh168/gym_crm/src/internal/domain/audit"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// ===========================
// SweepExpiredMemberships Use Case
// ===========================

// SweepResult 清掃結果
type SweepResult struct {
	Scanned     int
	Deactivated int
	Failed      int
}

// SweepExpiredMembershipsUseCase 批次停用已到期或缺少有效期間的會員
//
// 與入場流程使用同一個條件更新；入場判斷從不依賴清掃是否執行過。
type SweepExpiredMembershipsUseCase interface {
	Execute(ctx context.Context) (*SweepResult, error)
}

// SweepExpiredMembershipsUseCaseImpl 實作
type SweepExpiredMembershipsUseCaseImpl struct {
	memberRepo member.MemberRepository
	auditRepo  audit.EntryRepository
	records    RecordManager
	txManager  shared.TransactionManager
	locker     shared.Locker
	publisher  shared.EventPublisher
	clock      shared.Clock
	logger     *slog.Logger
	batchSize  int
}

// SweepDeps 建構參數
type SweepDeps struct {
	MemberRepo member.MemberRepository
	AuditRepo  audit.EntryRepository
	Records    RecordManager
	TxManager  shared.TransactionManager
	Locker     shared.Locker
	Publisher  shared.EventPublisher
	Clock      shared.Clock
	Logger     *slog.Logger
	BatchSize  int
}

// NewSweepExpiredMembershipsUseCase 建構函數
func NewSweepExpiredMembershipsUseCase(d SweepDeps) SweepExpiredMembershipsUseCase {
	batch := d.BatchSize
	if batch <= 0 {
		batch = 100
	}
	return &SweepExpiredMembershipsUseCaseImpl{
		memberRepo: d.MemberRepo,
		auditRepo:  d.AuditRepo,
		records:    d.Records,
		txManager:  d.TxManager,
		locker:     d.Locker,
		publisher:  d.Publisher,
		clock:      d.Clock,
		logger:     d.Logger,
		batchSize:  batch,
	}
}

// Execute 執行一次清掃
//
// 單一會員失敗只記錄並計入 Failed，不中斷其他會員；
// 只有讀取候選名單失敗時返回錯誤。
func (uc *SweepExpiredMembershipsUseCaseImpl) Execute(ctx context.Context) (*SweepResult, error) {
	now := uc.clock.Now()

	candidates, err := uc.memberRepo.FindNeedingDeactivation(nil, now, uc.batchSize)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Scanned: len(candidates)}
	for _, m := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		changed, err := uc.sweepOne(ctx, m)
		if err != nil {
			result.Failed++
			uc.logger.Error("sweep: deactivate member failed",
				slog.String("member_id", m.MemberID().String()),
				slog.Any("error", err),
			)
			continue
		}
		if changed {
			result.Deactivated++
		}
	}

	if result.Deactivated > 0 || result.Failed > 0 {
		uc.logger.Info("sweep: expired memberships processed",
			slog.Int("scanned", result.Scanned),
			slog.Int("deactivated", result.Deactivated),
			slog.Int("failed", result.Failed),
		)
	}
	return result, nil
}

func (uc *SweepExpiredMembershipsUseCaseImpl) sweepOne(ctx context.Context, candidate *member.Member) (bool, error) {
	id := candidate.MemberID()
	unlock := uc.locker.Lock(id.String())
	defer unlock()

	var event shared.DomainEvent
	err := uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		// 取得鎖之後重新讀取：期間可能已被重新開通
		m, err := uc.memberRepo.FindByMemberID(tx, id)
		if err != nil {
			return err
		}
		now := uc.clock.Now()

		var action audit.Action
		var reason member.DeactivationReason
		switch {
		case m.HasMissingExpiry():
			action, reason = audit.ActionMissingDuration, member.ReasonMissingDuration
		case m.IsExpired(now):
			action, reason = audit.ActionMembershipExpired, member.ReasonExpired
		default:
			return nil
		}

		changed, err := uc.records.Deactivate(tx, id)
		if err != nil || !changed {
			return err
		}

		entry, err := audit.NewEntry(id, member.MemberID{}, action, "", now)
		if err != nil {
			return err
		}
		if err := uc.auditRepo.Append(tx, entry); err != nil {
			return err
		}
		event = member.NewMembershipDeactivatedEvent(id, reason, now)
		return nil
	})
	if err != nil {
		return false, err
	}
	if event == nil {
		return false, nil
	}

	if err := uc.publisher.Publish(event); err != nil {
		uc.logger.Warn("sweep: publish event failed", slog.Any("error", err))
	}
	return true, nil
}
