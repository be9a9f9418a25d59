package member

import (
	"context"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// LandingStats 首頁統計（只有數量）
type LandingStats struct {
	TotalMembers    int64
	ActiveMembers   int64
	RegisteredToday int64
}

// LandingStatsUseCase 首頁統計（公開）
type LandingStatsUseCase interface {
	Execute(ctx context.Context) (*LandingStats, error)
}

// LandingStatsUseCaseImpl 實作
type LandingStatsUseCaseImpl struct {
	memberRepo member.MemberRepository
	clock      shared.Clock
	loc        *time.Location
}

// NewLandingStatsUseCase 建構函數；loc 決定「今天」從何時開始
func NewLandingStatsUseCase(memberRepo member.MemberRepository, clock shared.Clock, loc *time.Location) LandingStatsUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &LandingStatsUseCaseImpl{memberRepo: memberRepo, clock: clock, loc: loc}
}

// Execute 執行統計；active 以有效期間判斷，不只看 activated 欄位
func (uc *LandingStatsUseCaseImpl) Execute(ctx context.Context) (*LandingStats, error) {
	now := uc.clock.Now()

	total, err := uc.memberRepo.CountByRole(nil, member.RoleMember)
	if err != nil {
		return nil, err
	}
	active, err := uc.memberRepo.CountActive(nil, now)
	if err != nil {
		return nil, err
	}

	local := now.In(uc.loc)
	startOfDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, uc.loc).UTC()
	today, err := uc.memberRepo.CountCreatedSince(nil, member.RoleMember, startOfDay)
	if err != nil {
		return nil, err
	}

	return &LandingStats{TotalMembers: total, ActiveMembers: active, RegisteredToday: today}, nil
}
