package billing

import (
	"fmt"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
)

// ===========================
// Transaction Aggregate Root
// ===========================

// Transaction 會籍付款紀錄（append-only ledger）
//
// 不變量：
// 1. 每次開通恰好建立一筆
// 2. amount > 0
// 3. window 與會員被開通的有效期間一致，durationMonths 由 window 推導
// 4. 建立後只允許 Void（開通失敗時的補償），不可修改或刪除
type Transaction struct {
	id            TransactionID
	memberID      member.MemberID
	staffID       member.MemberID
	window        member.ValidityWindow
	amount        Amount
	paymentMethod PaymentMethod
	paymentDate   time.Time
	reference     Reference
	notes         string
	status        Status
	voidReason    string
	createdAt     time.Time
}

// NewTransactionParams 建立交易所需欄位
type NewTransactionParams struct {
	MemberID      member.MemberID
	StaffID       member.MemberID
	Window        member.ValidityWindow
	Amount        Amount
	PaymentMethod PaymentMethod
	PaymentDate   time.Time
	Reference     Reference
	Notes         string
}

// NewTransaction 創建交易（Checked Constructor）
func NewTransaction(p NewTransactionParams) (*Transaction, error) {
	switch {
	case p.MemberID.IsEmpty():
		return nil, ErrInvalidTransaction.WithContext("reason", "member id is required")
	case p.StaffID.IsEmpty():
		return nil, ErrInvalidTransaction.WithContext("reason", "staff id is required")
	case p.Window.IsZero():
		return nil, member.ErrDurationRequired
	case p.Amount.Decimal().IsZero():
		return nil, ErrAmountRequired
	case p.Reference.IsZero():
		return nil, ErrInvalidReference.WithContext("reason", "reference is required")
	}

	method := p.PaymentMethod
	if method == "" {
		method = DefaultPaymentMethod
	}

	notes := p.Notes
	if notes == "" {
		notes = fmt.Sprintf("Membership activated for %s", durationLabel(p.Window.DurationMonths()))
	}

	return &Transaction{
		id:            NewTransactionID(),
		memberID:      p.MemberID,
		staffID:       p.StaffID,
		window:        p.Window,
		amount:        p.Amount,
		paymentMethod: method,
		paymentDate:   p.PaymentDate,
		reference:     p.Reference,
		notes:         notes,
		status:        StatusRecorded,
		createdAt:     p.PaymentDate,
	}, nil
}

// TransactionSnapshot 從資料庫載入時使用的原始欄位
type TransactionSnapshot struct {
	ID            TransactionID
	MemberID      member.MemberID
	StaffID       member.MemberID
	StartTime     time.Time
	Expiry        time.Time
	Amount        Amount
	PaymentMethod PaymentMethod
	PaymentDate   time.Time
	Reference     Reference
	Notes         string
	Status        Status
	VoidReason    string
	CreatedAt     time.Time
}

// ReconstructTransaction 重建交易（用於從資料庫載入）
func ReconstructTransaction(s TransactionSnapshot) (*Transaction, error) {
	window, err := member.NewValidityWindow(s.StartTime, s.Expiry)
	if err != nil {
		return nil, ErrInvalidTransaction.WithContext(
			"transaction_id", s.ID.String(),
			"reason", err.Error(),
		)
	}

	status := s.Status
	if status == "" {
		status = StatusRecorded
	}

	return &Transaction{
		id:            s.ID,
		memberID:      s.MemberID,
		staffID:       s.StaffID,
		window:        window,
		amount:        s.Amount,
		paymentMethod: s.PaymentMethod,
		paymentDate:   s.PaymentDate,
		reference:     s.Reference,
		notes:         s.Notes,
		status:        status,
		voidReason:    s.VoidReason,
		createdAt:     s.CreatedAt,
	}, nil
}

// Void 標記為作廢（補償用）
func (t *Transaction) Void(reason string) error {
	if t.status == StatusVoid {
		return ErrTransactionAlreadyVoid.WithContext("transaction_id", t.id.String())
	}
	t.status = StatusVoid
	t.voidReason = reason
	return nil
}

// MembershipType 例如 "1 month" / "3 months"
func (t *Transaction) MembershipType() string {
	return durationLabel(t.DurationMonths())
}

func durationLabel(months int) string {
	if months == 1 {
		return "1 month"
	}
	return fmt.Sprintf("%d months", months)
}

// ===========================
// Getters
// ===========================

func (t *Transaction) ID() TransactionID             { return t.id }
func (t *Transaction) MemberID() member.MemberID     { return t.memberID }
func (t *Transaction) StaffID() member.MemberID      { return t.staffID }
func (t *Transaction) Window() member.ValidityWindow { return t.window }
func (t *Transaction) StartTime() time.Time          { return t.window.Start() }
func (t *Transaction) Expiry() time.Time             { return t.window.Expiry() }
func (t *Transaction) DurationMonths() int           { return t.window.DurationMonths() }
func (t *Transaction) Amount() Amount                { return t.amount }
func (t *Transaction) PaymentMethod() PaymentMethod  { return t.paymentMethod }
func (t *Transaction) PaymentDate() time.Time        { return t.paymentDate }
func (t *Transaction) Reference() Reference          { return t.reference }
func (t *Transaction) Notes() string                 { return t.notes }
func (t *Transaction) Status() Status                { return t.status }
func (t *Transaction) VoidReason() string            { return t.voidReason }
func (t *Transaction) CreatedAt() time.Time          { return t.createdAt }
