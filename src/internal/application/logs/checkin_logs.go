package logs

import (
	"context"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/audit"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// ===========================
// QueryCheckInLogs Use Case
// ===========================

// CheckInLogDTO 入場紀錄
type CheckInLogDTO struct {
	ID             string
	MemberID       string
	MemberUsername string
	StaffID        string
	StaffUsername  string
	CheckedInAt    time.Time
}

// CheckInLogResult 查詢結果
type CheckInLogResult struct {
	Entries []CheckInLogDTO
	Page    PageInfo
}

// QueryCheckInLogsUseCase 入場紀錄分頁查詢（staff / admin），篩選條件同審計日誌但沒有 action
type QueryCheckInLogsUseCase interface {
	Execute(ctx context.Context, query LogQuery) (*CheckInLogResult, error)
}

// QueryCheckInLogsUseCaseImpl 實作
type QueryCheckInLogsUseCaseImpl struct {
	memberRepo  member.MemberRepository
	checkInRepo audit.CheckInLogRepository
	clock       shared.Clock
	loc         *time.Location
}

// NewQueryCheckInLogsUseCase 建構函數
func NewQueryCheckInLogsUseCase(memberRepo member.MemberRepository, checkInRepo audit.CheckInLogRepository, clock shared.Clock, loc *time.Location) QueryCheckInLogsUseCase {
	return &QueryCheckInLogsUseCaseImpl{
		memberRepo:  memberRepo,
		checkInRepo: checkInRepo,
		clock:       clock,
		loc:         loc,
	}
}

// Execute 執行查詢
func (uc *QueryCheckInLogsUseCaseImpl) Execute(ctx context.Context, query LogQuery) (*CheckInLogResult, error) {
	if err := query.Actor.Require(member.RoleStaff, member.RoleAdmin); err != nil {
		return nil, err
	}

	filter, err := buildFilter(uc.memberRepo, query, "", uc.clock.Now(), uc.loc)
	if err != nil {
		return nil, err
	}

	logs, total, err := uc.checkInRepo.Find(nil, filter)
	if err != nil {
		return nil, err
	}

	names := newUsernameResolver(uc.memberRepo)
	dtos := make([]CheckInLogDTO, 0, len(logs))
	for _, l := range logs {
		memberName, err := names.resolve(l.MemberID())
		if err != nil {
			return nil, err
		}
		staffName, err := names.resolve(l.StaffID())
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, CheckInLogDTO{
			ID:             l.ID().String(),
			MemberID:       l.MemberID().String(),
			MemberUsername: memberName,
			StaffID:        l.StaffID().String(),
			StaffUsername:  staffName,
			CheckedInAt:    l.CheckedInAt(),
		})
	}

	return &CheckInLogResult{
		Entries: dtos,
		Page:    pageInfo(filter.Page, total),
	}, nil
}
