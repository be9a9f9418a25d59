package member

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ===========================
// Email Value Object
// ===========================

// Email 電子郵件值對象
//
// Email 為選填：零值代表未提供（staff 帳號通常沒有 Email）。
// 提供時一律轉為小寫儲存，唯一性比對不分大小寫。
type Email struct {
	value string
}

// NewEmail 創建 Email（Checked Constructor）
func NewEmail(value string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))

	if !emailPattern.MatchString(normalized) {
		return Email{}, ErrInvalidEmail.WithContext("email", value)
	}

	return Email{value: normalized}, nil
}

// NewOptionalEmail 空字串返回零值，其餘同 NewEmail
func NewOptionalEmail(value string) (Email, error) {
	if strings.TrimSpace(value) == "" {
		return Email{}, nil
	}
	return NewEmail(value)
}

// String 返回 Email 字串（未提供時為空字串）
func (e Email) String() string {
	return e.value
}

// Equals 比較兩個 Email
func (e Email) Equals(other Email) bool {
	return e.value == other.value
}

// IsZero 判斷是否未提供
func (e Email) IsZero() bool {
	return e.value == ""
}
