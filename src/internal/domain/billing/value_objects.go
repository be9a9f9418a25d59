package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ===========================
// Amount Value Object
// ===========================

// Amount 付款金額（decimal，兩位小數）
//
// 業務規則：必須大於 0。
type Amount struct {
	value decimal.Decimal
}

// NewAmount 創建金額（Checked Constructor）
func NewAmount(value decimal.Decimal) (Amount, error) {
	rounded := value.Round(2)
	if !rounded.IsPositive() {
		return Amount{}, ErrAmountRequired.WithContext("amount", value.String())
	}
	return Amount{value: rounded}, nil
}

// Decimal 返回 decimal 值
func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

// String 固定兩位小數
func (a Amount) String() string {
	return a.value.StringFixed(2)
}

// Equals 比較金額
func (a Amount) Equals(other Amount) bool {
	return a.value.Equal(other.value)
}

// ===========================
// PaymentMethod Value Object
// ===========================

// PaymentMethod 付款方式
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentGCash        PaymentMethod = "gcash"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCard         PaymentMethod = "card"
)

// DefaultPaymentMethod 未指定時的付款方式
const DefaultPaymentMethod = PaymentCash

// ParsePaymentMethod 解析付款方式；空字串返回 DefaultPaymentMethod
//
// 接受 "bank transfer" / "bank-transfer" 等寫法，不分大小寫。
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return DefaultPaymentMethod, nil
	}
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)

	switch PaymentMethod(normalized) {
	case PaymentCash, PaymentGCash, PaymentBankTransfer, PaymentCard:
		return PaymentMethod(normalized), nil
	default:
		return "", ErrInvalidPaymentMethod.WithContext("payment_method", value)
	}
}

// String 返回付款方式
func (p PaymentMethod) String() string {
	return string(p)
}

// ===========================
// Status
// ===========================

// Status 交易狀態；交易只會從 recorded 變成 void（補償），不會刪除
type Status string

const (
	StatusRecorded Status = "recorded"
	StatusVoid     Status = "void"
)
