package audit

import "github.com/jackyeh168/gym_crm/src/internal/domain/shared"

const (
	ErrCodeInvalidEntry    shared.ErrorCode = "AUDIT_ENTRY_INVALID"
	ErrCodeInvalidFilter   shared.ErrorCode = "AUDIT_FILTER_INVALID"
	ErrCodeRepositoryError shared.ErrorCode = "AUDIT_REPOSITORY_ERROR"
)

var (
	// ErrInvalidEntry 日誌缺少主體或動作
	ErrInvalidEntry = shared.NewDomainError(shared.KindValidation, ErrCodeInvalidEntry, "invalid audit entry")

	// ErrInvalidFilter 查詢條件格式錯誤（日期、時間、quick filter）
	ErrInvalidFilter = shared.NewDomainError(shared.KindValidation, ErrCodeInvalidFilter, "invalid log filter")

	ErrRepositoryError = shared.NewDomainError(shared.KindPersistence, ErrCodeRepositoryError, "audit repository error")
)
