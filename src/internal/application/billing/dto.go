// Package billing 會籍開通與付款紀錄
package billing

import (
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/billing"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
)

// MembershipDTO 會員會籍狀態
type MembershipDTO struct {
	MemberID  string
	Username  string
	Email     string
	Activated bool
	StartTime *time.Time
	Expiry    *time.Time
}

// TransactionDTO 付款紀錄（金額為兩位小數字串）
type TransactionDTO struct {
	ID             string
	MemberID       string
	StaffID        string
	Reference      string
	MembershipType string
	DurationMonths int
	Amount         string
	PaymentMethod  string
	PaymentDate    time.Time
	StartTime      time.Time
	Expiry         time.Time
	Status         string
	Notes          string
}

func toMembershipDTO(m *member.Member) MembershipDTO {
	dto := MembershipDTO{
		MemberID:  m.MemberID().String(),
		Username:  m.Username().String(),
		Email:     m.Email().String(),
		Activated: m.Activated(),
	}
	if w := m.Window(); !w.IsZero() {
		start, expiry := w.Start(), w.Expiry()
		dto.StartTime = &start
		dto.Expiry = &expiry
	}
	return dto
}

func toTransactionDTO(t *billing.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:             t.ID().String(),
		MemberID:       t.MemberID().String(),
		StaffID:        t.StaffID().String(),
		Reference:      t.Reference().String(),
		MembershipType: t.MembershipType(),
		DurationMonths: t.DurationMonths(),
		Amount:         t.Amount().String(),
		PaymentMethod:  t.PaymentMethod().String(),
		PaymentDate:    t.PaymentDate(),
		StartTime:      t.StartTime(),
		Expiry:         t.Expiry(),
		Status:         string(t.Status()),
		Notes:          t.Notes(),
	}
}
