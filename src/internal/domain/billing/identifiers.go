package billing

import "github.com/jackyeh168/gym_crm/src/internal/domain/shared"

// TransactionMarker 交易 ID 標記類型
type TransactionMarker struct{}

// TransactionID 交易 ID
type TransactionID = shared.EntityID[TransactionMarker]

// NewTransactionID 生成新的交易 ID
func NewTransactionID() TransactionID {
	return shared.NewEntityID[TransactionMarker]()
}

// TransactionIDFromString 從字串解析交易 ID
func TransactionIDFromString(value string) (TransactionID, error) {
	return shared.EntityIDFromString[TransactionMarker](value, ErrInvalidTransactionID)
}
