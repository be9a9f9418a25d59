package logs

import (
	"context"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/audit"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// ===========================
// QueryAuditLogs Use Case
// ===========================

// AuditLogQuery 審計日誌查詢（admin）
type AuditLogQuery struct {
	LogQuery
	Action string
}

// AuditLogDTO 審計日誌
type AuditLogDTO struct {
	ID              string
	SubjectID       string
	SubjectUsername string
	ActorID         string // 自助操作或系統停用時為空
	ActorUsername   string
	Action          string
	Description     string
	OccurredAt      time.Time
}

// AuditLogResult 查詢結果
type AuditLogResult struct {
	Entries []AuditLogDTO
	Page    PageInfo
}

// QueryAuditLogsUseCase 審計日誌分頁查詢（新到舊，每頁 10 筆）
//
// 篩選：
// - Search 以使用者名稱比對主體或執行者
// - Action 動作標籤
// - Quick / Date / StartTime / EndTime 時間條件（見 audit.BuildTimeRange）
type QueryAuditLogsUseCase interface {
	Execute(ctx context.Context, query AuditLogQuery) (*AuditLogResult, error)
}

// QueryAuditLogsUseCaseImpl 實作
type QueryAuditLogsUseCaseImpl struct {
	memberRepo member.MemberRepository
	auditRepo  audit.EntryRepository
	clock      shared.Clock
	loc        *time.Location
}

// NewQueryAuditLogsUseCase 建構函數；loc 為 today / 指定日期使用的時區
func NewQueryAuditLogsUseCase(memberRepo member.MemberRepository, auditRepo audit.EntryRepository, clock shared.Clock, loc *time.Location) QueryAuditLogsUseCase {
	return &QueryAuditLogsUseCaseImpl{
		memberRepo: memberRepo,
		auditRepo:  auditRepo,
		clock:      clock,
		loc:        loc,
	}
}

// Execute 執行查詢
func (uc *QueryAuditLogsUseCaseImpl) Execute(ctx context.Context, query AuditLogQuery) (*AuditLogResult, error) {
	if err := query.Actor.Require(member.RoleAdmin); err != nil {
		return nil, err
	}
	action, err := audit.ParseAction(query.Action)
	if err != nil {
		return nil, err
	}

	filter, err := buildFilter(uc.memberRepo, query.LogQuery, action, uc.clock.Now(), uc.loc)
	if err != nil {
		return nil, err
	}

	entries, total, err := uc.auditRepo.Find(nil, filter)
	if err != nil {
		return nil, err
	}

	names := newUsernameResolver(uc.memberRepo)
	dtos := make([]AuditLogDTO, 0, len(entries))
	for _, e := range entries {
		subject, err := names.resolve(e.SubjectID())
		if err != nil {
			return nil, err
		}
		actor, err := names.resolve(e.ActorID())
		if err != nil {
			return nil, err
		}

		dto := AuditLogDTO{
			ID:              e.ID().String(),
			SubjectID:       e.SubjectID().String(),
			SubjectUsername: subject,
			ActorUsername:   actor,
			Action:          e.Action().String(),
			Description:     e.Description(),
			OccurredAt:      e.OccurredAt(),
		}
		if e.HasActor() {
			dto.ActorID = e.ActorID().String()
		}
		dtos = append(dtos, dto)
	}

	return &AuditLogResult{
		Entries: dtos,
		Page:    pageInfo(filter.Page, total),
	}, nil
}
