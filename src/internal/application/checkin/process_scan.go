package checkin

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/application/membership"
	"github.com/jackyeh168/gym_crm/src/internal/domain/audit"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/service"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// scanResolution 同一會員兩次掃碼之間的最小時間差
const scanResolution = time.Microsecond

// ===========================
// Command / Result
// ===========================

// ProcessScanCommand 掃碼命令
//
// MemberID 與 Token 擇一：MemberID 是前端已解出的 id，Token 是 QR 原始內容。
type ProcessScanCommand struct {
	Actor    member.Actor
	MemberID string
	Token    string
}

// MemberDisplay 放行時顯示給櫃檯的會員資訊
type MemberDisplay struct {
	MemberID string
	Username string
	Email    string
	Expiry   time.Time
}

// ProcessScanResult 掃碼結果
type ProcessScanResult struct {
	Outcome     Outcome
	Message     string
	Member      *MemberDisplay
	CheckedInAt time.Time
}

// Success 是否放行
func (r *ProcessScanResult) Success() bool {
	return r.Outcome.Admitted()
}

// ===========================
// Use Case
// ===========================

// ProcessScanUseCase 入場掃碼
type ProcessScanUseCase interface {
	Execute(ctx context.Context, cmd ProcessScanCommand) (*ProcessScanResult, error)
}

// ProcessScanDeps 建構參數
type ProcessScanDeps struct {
	MemberRepo  member.MemberRepository
	AuditRepo   audit.EntryRepository
	CheckInRepo audit.CheckInLogRepository
	Records     membership.RecordManager
	QRCode      service.QRCodeService
	TxManager   shared.TransactionManager
	Locker      shared.Locker
	Publisher   shared.EventPublisher
	Clock       shared.Clock
	Logger      *slog.Logger
}

// ProcessScanUseCaseImpl 實作
type ProcessScanUseCaseImpl struct {
	memberRepo  member.MemberRepository
	auditRepo   audit.EntryRepository
	checkInRepo audit.CheckInLogRepository
	records     membership.RecordManager
	qrCode      service.QRCodeService
	txManager   shared.TransactionManager
	locker      shared.Locker
	publisher   shared.EventPublisher
	clock       shared.Clock
	logger      *slog.Logger
}

// NewProcessScanUseCase 建構函數
func NewProcessScanUseCase(d ProcessScanDeps) ProcessScanUseCase {
	return &ProcessScanUseCaseImpl{
		memberRepo:  d.MemberRepo,
		auditRepo:   d.AuditRepo,
		checkInRepo: d.CheckInRepo,
		records:     d.Records,
		qrCode:      d.QRCode,
		txManager:   d.TxManager,
		locker:      d.Locker,
		publisher:   d.Publisher,
		clock:       d.Clock,
		logger:      d.Logger,
	}
}

// Execute 執行掃碼
//
// 流程：
//  1. 解析 id（失敗 → INVALID_MALFORMED_TOKEN，不讀取、不寫日誌）
//  2. 取得會員鎖，在單一事務中讀取並判斷
//  3. 不存在 / 非 member → INVALID_NO_MEMBER；未開通 → INVALID_INACTIVE
//  4. 開通但缺少 expiry 或已過期 → 停用並寫審計日誌 → INVALID_EXPIRED_AUTOCORRECT
//  5. 否則以條件更新放行，累加 staff 掃碼數、寫入場紀錄與審計日誌 → VALID_ADMIT
//
// 停用在返回拒絕結果前已提交；事件在提交後發布。
func (uc *ProcessScanUseCaseImpl) Execute(ctx context.Context, cmd ProcessScanCommand) (*ProcessScanResult, error) {
	if err := cmd.Actor.Require(member.RoleStaff); err != nil {
		return nil, err
	}

	memberID, ok := uc.resolveMemberID(cmd)
	if !ok {
		uc.logger.Info("checkin: malformed scan", slog.String("staff_id", cmd.Actor.ID.String()))
		return &ProcessScanResult{Outcome: OutcomeMalformedToken, Message: MessageMalformed}, nil
	}

	unlock := uc.locker.Lock(memberID.String())
	defer unlock()

	var (
		result *ProcessScanResult
		events []shared.DomainEvent
	)
	err := uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		result, events = nil, nil

		m, err := uc.memberRepo.FindByMemberID(tx, memberID)
		if err != nil {
			if shared.KindOf(err) == shared.KindNotFound {
				result = &ProcessScanResult{Outcome: OutcomeNoMember, Message: MessageNoMember}
				return nil
			}
			return err
		}
		if m.Role() != member.RoleMember {
			result = &ProcessScanResult{Outcome: OutcomeNoMember, Message: MessageNoMember}
			return nil
		}

		now := uc.scanInstant(m)

		switch {
		case !m.Activated():
			result = &ProcessScanResult{Outcome: OutcomeInactive, Message: MessageInactive}
			return nil
		case m.HasMissingExpiry():
			return uc.autocorrect(tx, m, cmd.Actor, now, audit.ActionMissingDuration, member.ReasonMissingDuration, MessageMissingDuration, &result, &events)
		case m.IsExpired(now):
			return uc.autocorrect(tx, m, cmd.Actor, now, audit.ActionMembershipExpired, member.ReasonExpired, MessageExpired, &result, &events)
		}

		admitted, err := uc.memberRepo.AdmitIfValid(tx, memberID, now)
		if err != nil {
			return err
		}
		if !admitted {
			// 條件更新未命中：會籍已被停用，或另一個程序在同一時間點已放行
			current, err := uc.memberRepo.FindByMemberID(tx, memberID)
			if err != nil {
				return err
			}
			if current.IsValid(now) {
				return member.ErrConcurrentCheckIn.WithContext("member_id", memberID.String())
			}
			result = &ProcessScanResult{Outcome: OutcomeInactive, Message: MessageInactive}
			return nil
		}

		if err := uc.memberRepo.IncrementScanCount(tx, cmd.Actor.ID, now); err != nil {
			return err
		}
		if err := uc.checkInRepo.Append(tx, audit.NewCheckInLog(memberID, cmd.Actor.ID, now)); err != nil {
			return err
		}
		if err := uc.appendAudit(tx, memberID, cmd.Actor.ID, audit.ActionScannedQR, "", now); err != nil {
			return err
		}

		result = &ProcessScanResult{
			Outcome:     OutcomeValidAdmit,
			Message:     MessageAdmitted,
			Member:      toDisplay(m),
			CheckedInAt: now,
		}
		events = append(events, member.NewCheckInAdmittedEvent(memberID, cmd.Actor.ID, m.Username().String(), now))
		return nil
	})
	if err != nil {
		uc.logger.Error("checkin: scan failed",
			slog.String("member_id", memberID.String()),
			slog.String("staff_id", cmd.Actor.ID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	uc.logOutcome(memberID, cmd.Actor.ID, result)
	uc.publish(events)
	return result, nil
}

// resolveMemberID 取得要掃描的會員 ID
func (uc *ProcessScanUseCaseImpl) resolveMemberID(cmd ProcessScanCommand) (member.MemberID, bool) {
	raw := strings.TrimSpace(cmd.MemberID)
	if raw == "" {
		payload, err := uc.qrCode.Decode(cmd.Token)
		if err != nil {
			return member.MemberID{}, false
		}
		raw = payload.ID
	}

	id, err := member.MemberIDFromString(raw)
	if err != nil {
		return member.MemberID{}, false
	}
	return id, true
}

// scanInstant 同一會員的掃碼時間嚴格遞增
//
// 在會員鎖內取時間；若時鐘沒有前進，以上次入場時間加一個 scanResolution 計算。
// 因此到期當下的兩次掃碼，第二次一定落在 expiry 之後。
func (uc *ProcessScanUseCaseImpl) scanInstant(m *member.Member) time.Time {
	now := uc.clock.Now()
	if last := m.LastCheckInAt(); last != nil && !now.After(*last) {
		now = last.Add(scanResolution)
	}
	return now
}

// autocorrect 停用異常或過期的會籍並記錄原因
func (uc *ProcessScanUseCaseImpl) autocorrect(
	tx shared.TransactionContext,
	m *member.Member,
	actor member.Actor,
	now time.Time,
	action audit.Action,
	reason member.DeactivationReason,
	message string,
	result **ProcessScanResult,
	events *[]shared.DomainEvent,
) error {
	changed, err := uc.records.Deactivate(tx, m.MemberID())
	if err != nil {
		return err
	}
	if changed {
		if err := uc.appendAudit(tx, m.MemberID(), actor.ID, action, "", now); err != nil {
			return err
		}
		*events = append(*events, member.NewMembershipDeactivatedEvent(m.MemberID(), reason, now))
	}

	*result = &ProcessScanResult{Outcome: OutcomeExpiredAutocorrect, Message: message}
	return nil
}

func (uc *ProcessScanUseCaseImpl) appendAudit(tx shared.TransactionContext, subject, actor member.MemberID, action audit.Action, description string, at time.Time) error {
	entry, err := audit.NewEntry(subject, actor, action, description, at)
	if err != nil {
		return err
	}
	return uc.auditRepo.Append(tx, entry)
}

func (uc *ProcessScanUseCaseImpl) logOutcome(memberID, staffID member.MemberID, result *ProcessScanResult) {
	attrs := []any{
		slog.String("outcome", result.Outcome.String()),
		slog.String("member_id", memberID.String()),
		slog.String("staff_id", staffID.String()),
	}
	switch result.Outcome {
	case OutcomeValidAdmit:
		uc.logger.Info("checkin: admitted", attrs...)
	case OutcomeExpiredAutocorrect:
		uc.logger.Warn("checkin: membership auto-deactivated", attrs...)
	default:
		uc.logger.Info("checkin: denied", attrs...)
	}
}

func (uc *ProcessScanUseCaseImpl) publish(events []shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := uc.publisher.PublishBatch(events); err != nil {
		uc.logger.Warn("checkin: publish events failed", slog.Any("error", err))
	}
}

func toDisplay(m *member.Member) *MemberDisplay {
	return &MemberDisplay{
		MemberID: m.MemberID().String(),
		Username: m.Username().String(),
		Email:    m.Email().String(),
		Expiry:   m.Window().Expiry(),
	}
}
