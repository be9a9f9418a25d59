package billing

import "github.com/jackyeh168/gym_crm/src/internal/domain/shared"

// ===========================
// 錯誤代碼定義
// ===========================

const (
	ErrCodeInvalidTransactionID   shared.ErrorCode = "TRANSACTION_ID_INVALID"
	ErrCodeAmountRequired         shared.ErrorCode = "AMOUNT_REQUIRED"
	ErrCodeInvalidPaymentMethod   shared.ErrorCode = "PAYMENT_METHOD_INVALID"
	ErrCodeInvalidReference       shared.ErrorCode = "REFERENCE_INVALID"
	ErrCodeInvalidTransaction     shared.ErrorCode = "TRANSACTION_INVALID"
	ErrCodeReferenceConflict      shared.ErrorCode = "REFERENCE_CONFLICT"
	ErrCodeReferenceGeneration    shared.ErrorCode = "REFERENCE_GENERATION_FAILED"
	ErrCodeTransactionNotFound    shared.ErrorCode = "TRANSACTION_NOT_FOUND"
	ErrCodeTransactionAlreadyVoid shared.ErrorCode = "TRANSACTION_ALREADY_VOID"
	ErrCodeRepositoryError        shared.ErrorCode = "TRANSACTION_REPOSITORY_ERROR"
)

// ===========================
// 預定義錯誤
// ===========================

// 輸入驗證
var (
	ErrInvalidTransactionID = shared.NewDomainError(shared.KindValidation, ErrCodeInvalidTransactionID, "invalid transaction id")

	// ErrAmountRequired 金額缺少或不大於 0
	ErrAmountRequired = shared.NewDomainError(shared.KindValidation, ErrCodeAmountRequired, "amount required")

	ErrInvalidPaymentMethod = shared.NewDomainError(shared.KindValidation, ErrCodeInvalidPaymentMethod, "payment method must be one of cash, gcash, bank_transfer, card")

	ErrInvalidReference = shared.NewDomainError(shared.KindValidation, ErrCodeInvalidReference, "reference must match MEM-YYYY-MM-####")

	ErrInvalidTransaction = shared.NewDomainError(shared.KindValidation, ErrCodeInvalidTransaction, "invalid transaction")
)

// 儲存相關
var (
	// ErrReferenceConflict reference 唯一索引衝突（由 Repository 返回，呼叫端重試）
	ErrReferenceConflict = shared.NewDomainError(shared.KindConflict, ErrCodeReferenceConflict, "transaction reference already exists")

	// ErrReferenceGeneration 重試次數用盡仍無法產生唯一 reference
	ErrReferenceGeneration = shared.NewDomainError(shared.KindPersistence, ErrCodeReferenceGeneration, "could not generate a unique transaction reference")

	ErrTransactionNotFound = shared.NewDomainError(shared.KindNotFound, ErrCodeTransactionNotFound, "transaction not found")

	ErrTransactionAlreadyVoid = shared.NewDomainError(shared.KindConflict, ErrCodeTransactionAlreadyVoid, "transaction already void")

	ErrRepositoryError = shared.NewDomainError(shared.KindPersistence, ErrCodeRepositoryError, "transaction repository error")
)
