// Package membership 會籍狀態管理（開通、停用、有效判斷）與到期清掃
package membership

import (
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// ===========================
// RecordManager
// ===========================

// RecordManager 會員會籍狀態的唯一寫入點
//
// 只負責 activated / startTime / expiry 三個欄位；不寫交易、不寫審計日誌。
// 所有方法都在呼叫端提供的事務中執行（tx 為 nil 時自動提交）。
type RecordManager interface {
	// Activate 以 [startTime, expiry] 開通會籍並覆寫原有效期間
	Activate(tx shared.TransactionContext, memberID member.MemberID, startTime, expiry time.Time) (*member.Member, error)

	// Deactivate 停用會籍並清空有效期間；返回是否真的發生變更（冪等）
	Deactivate(tx shared.TransactionContext, memberID member.MemberID) (bool, error)

	// IsValid 純函數：activated 且有 expiry 且 now <= expiry
	IsValid(m *member.Member, now time.Time) bool
}

// RecordManagerImpl 實作
type RecordManagerImpl struct {
	memberRepo member.MemberRepository
	clock      shared.Clock
}

// NewRecordManager 建構函數
func NewRecordManager(memberRepo member.MemberRepository, clock shared.Clock) RecordManager {
	return &RecordManagerImpl{memberRepo: memberRepo, clock: clock}
}

// Activate 開通會籍
//
// expiry 缺少或不晚於 startTime 時返回 ValidationError，不做任何寫入。
func (r *RecordManagerImpl) Activate(tx shared.TransactionContext, memberID member.MemberID, startTime, expiry time.Time) (*member.Member, error) {
	window, err := member.NewValidityWindow(startTime, expiry)
	if err != nil {
		return nil, err
	}

	m, err := r.memberRepo.FindByMemberID(tx, memberID)
	if err != nil {
		return nil, err
	}

	if err := m.Activate(window, r.clock.Now()); err != nil {
		return nil, err
	}

	if err := r.memberRepo.Save(tx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Deactivate 以條件更新停用（WHERE 仍處於開通或仍有有效期間）
func (r *RecordManagerImpl) Deactivate(tx shared.TransactionContext, memberID member.MemberID) (bool, error) {
	return r.memberRepo.DeactivateIfActive(tx, memberID, r.clock.Now())
}

// IsValid 見 member.IsValid
func (r *RecordManagerImpl) IsValid(m *member.Member, now time.Time) bool {
	return member.IsValid(m, now)
}
