package billing

import (
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/billing"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/shopspring/decimal"
)

// ===========================
// GORM Models
// ===========================

// TransactionGORM 開通交易資料表模型
//
// 資料庫約束：
// - transaction_id: 主鍵（UUID）
// - reference: 唯一索引（MEM-YYYY-MM-####）
// - amount: decimal(12,2)
// - 只新增；status 只允許 recorded → void
type TransactionGORM struct {
	TransactionID  string          `gorm:"column:transaction_id;type:varchar(36);primaryKey"`
	MemberID       string          `gorm:"column:member_id;type:varchar(36);index;not null"`
	StaffID        string          `gorm:"column:staff_id;type:varchar(36);index;not null"`
	StartTime      time.Time       `gorm:"column:start_time;not null"`
	Expiry         time.Time       `gorm:"column:expiry;not null"`
	DurationMonths int             `gorm:"column:duration_months;not null"`
	Amount         decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null"`
	PaymentMethod  string          `gorm:"column:payment_method;type:varchar(20);not null;default:cash"`
	PaymentDate    time.Time       `gorm:"column:payment_date;not null;index"`
	Reference      string          `gorm:"column:reference;type:varchar(20);uniqueIndex:idx_transactions_reference;not null"`
	Notes          string          `gorm:"column:notes;type:text"`
	Status         string          `gorm:"column:status;type:varchar(10);not null;default:recorded"`
	VoidReason     string          `gorm:"column:void_reason;type:text"`
	CreatedAt      time.Time       `gorm:"column:created_at;not null;autoCreateTime:false"`
}

// TableName 指定資料表名稱
func (TransactionGORM) TableName() string {
	return "transactions"
}

// ===========================
// Mapper Functions
// ===========================

// toDomain 將 GORM 模型轉換為 Domain 模型
func (m *TransactionGORM) toDomain() (*billing.Transaction, error) {
	id, err := billing.TransactionIDFromString(m.TransactionID)
	if err != nil {
		return nil, err
	}
	memberID, err := member.MemberIDFromString(m.MemberID)
	if err != nil {
		return nil, err
	}
	staffID, err := member.MemberIDFromString(m.StaffID)
	if err != nil {
		return nil, err
	}
	amount, err := billing.NewAmount(m.Amount)
	if err != nil {
		return nil, err
	}
	method, err := billing.ParsePaymentMethod(m.PaymentMethod)
	if err != nil {
		return nil, err
	}
	reference, err := billing.ParseReference(m.Reference)
	if err != nil {
		return nil, err
	}

	return billing.ReconstructTransaction(billing.TransactionSnapshot{
		ID:            id,
		MemberID:      memberID,
		StaffID:       staffID,
		StartTime:     m.StartTime,
		Expiry:        m.Expiry,
		Amount:        amount,
		PaymentMethod: method,
		PaymentDate:   m.PaymentDate,
		Reference:     reference,
		Notes:         m.Notes,
		Status:        billing.Status(m.Status),
		VoidReason:    m.VoidReason,
		CreatedAt:     m.CreatedAt,
	})
}

// toGORM 將 Domain 模型轉換為 GORM 模型
func toGORM(t *billing.Transaction) *TransactionGORM {
	return &TransactionGORM{
		TransactionID:  t.ID().String(),
		MemberID:       t.MemberID().String(),
		StaffID:        t.StaffID().String(),
		StartTime:      t.StartTime().UTC(),
		Expiry:         t.Expiry().UTC(),
		DurationMonths: t.DurationMonths(),
		Amount:         t.Amount().Decimal(),
		PaymentMethod:  t.PaymentMethod().String(),
		PaymentDate:    t.PaymentDate().UTC(),
		Reference:      t.Reference().String(),
		Notes:          t.Notes(),
		Status:         string(t.Status()),
		VoidReason:     t.VoidReason(),
		CreatedAt:      t.CreatedAt().UTC(),
	}
}
