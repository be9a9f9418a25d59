package member

import "github.com/jackyeh168/gym_crm/src/internal/domain/shared"

// ===========================
// Member Domain 錯誤代碼
// ===========================

const (
	ErrCodeInvalidMemberID        shared.ErrorCode = "INVALID_MEMBER_ID"
	ErrCodeInvalidUsername        shared.ErrorCode = "INVALID_USERNAME"
	ErrCodeInvalidEmail           shared.ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidPassword        shared.ErrorCode = "INVALID_PASSWORD"
	ErrCodeInvalidRole            shared.ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidValidityWindow  shared.ErrorCode = "INVALID_VALIDITY_WINDOW"
	ErrCodeDurationRequired       shared.ErrorCode = "DURATION_REQUIRED"
	ErrCodeMemberNotFound         shared.ErrorCode = "MEMBER_NOT_FOUND"
	ErrCodeUsernameTaken          shared.ErrorCode = "USERNAME_TAKEN"
	ErrCodeEmailTaken             shared.ErrorCode = "EMAIL_TAKEN"
	ErrCodeQRTokenAlreadyAssigned shared.ErrorCode = "QR_TOKEN_ALREADY_ASSIGNED"
	ErrCodeConcurrentCheckIn      shared.ErrorCode = "CONCURRENT_CHECK_IN"
	ErrCodeForbidden              shared.ErrorCode = "FORBIDDEN"
	ErrCodeProtectedTarget        shared.ErrorCode = "PROTECTED_TARGET"
	ErrCodeInvalidCredentials     shared.ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeRepositoryError        shared.ErrorCode = "MEMBER_REPOSITORY_ERROR"
)

// ===========================
// Member Domain 錯誤實例
// ===========================

var (
	// ErrInvalidMemberID 會員 ID 格式無效
	ErrInvalidMemberID = shared.NewDomainError(shared.KindValidation, ErrCodeInvalidMemberID, "invalid member id")

	// ErrInvalidUsername 使用者名稱無效
	//
	// 觸發條件：
	// - 空字串或含空白字元
	// - 超過 16 個字元
	ErrInvalidUsername = shared.NewDomainError(shared.KindValidation, ErrCodeInvalidUsername, "invalid username")

	// ErrInvalidEmail Email 格式無效
	ErrInvalidEmail = shared.NewDomainError(shared.KindValidation, ErrCodeInvalidEmail, "invalid email address")

	// ErrInvalidPassword 密碼不符規則（至少 6 個字元）或雜湊為空
	ErrInvalidPassword = shared.NewDomainError(shared.KindValidation, ErrCodeInvalidPassword, "password must be at least 6 characters long")

	// ErrInvalidRole 角色不是 member / staff / admin
	ErrInvalidRole = shared.NewDomainError(shared.KindValidation, ErrCodeInvalidRole, "invalid role")

	// ErrInvalidValidityWindow 有效期間不成立（expiry 必須晚於 startTime）
	ErrInvalidValidityWindow = shared.NewDomainError(shared.KindValidation, ErrCodeInvalidValidityWindow, "expiry must be after start time")

	// ErrDurationRequired 開通時缺少 expiry / durationMonths
	ErrDurationRequired = shared.NewDomainError(shared.KindValidation, ErrCodeDurationRequired, "duration required")

	// ErrMemberNotFound 會員不存在
	ErrMemberNotFound = shared.NewDomainError(shared.KindNotFound, ErrCodeMemberNotFound, "member not found")

	// ErrUsernameTaken 使用者名稱已被其他帳號使用
	ErrUsernameTaken = shared.NewDomainError(shared.KindConflict, ErrCodeUsernameTaken, "username already taken")

	// ErrEmailTaken Email 已被其他帳號使用
	ErrEmailTaken = shared.NewDomainError(shared.KindConflict, ErrCodeEmailTaken, "email already taken")

	// ErrQRTokenAlreadyAssigned QR 內容在建立後不可變更
	ErrQRTokenAlreadyAssigned = shared.NewDomainError(shared.KindConflict, ErrCodeQRTokenAlreadyAssigned, "qr token already assigned")

	// ErrConcurrentCheckIn 同一時間點已有另一筆入場寫入
	ErrConcurrentCheckIn = shared.NewDomainError(shared.KindConflict, ErrCodeConcurrentCheckIn, "another check-in was recorded at the same instant")

	// ErrForbidden 操作者角色不足
	ErrForbidden = shared.NewDomainError(shared.KindAuthorization, ErrCodeForbidden, "insufficient role")

	// ErrProtectedTarget 目標帳號不可由此操作變更（例如 staff 修改 staff/admin）
	ErrProtectedTarget = shared.NewDomainError(shared.KindAuthorization, ErrCodeProtectedTarget, "target account cannot be modified by this operation")

	// ErrInvalidCredentials 帳號或密碼錯誤
	ErrInvalidCredentials = shared.NewDomainError(shared.KindAuthorization, ErrCodeInvalidCredentials, "invalid username or password")

	// ErrRepositoryError 儲存層錯誤
	ErrRepositoryError = shared.NewDomainError(shared.KindPersistence, ErrCodeRepositoryError, "member repository error")
)
