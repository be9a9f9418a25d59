package member

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxUsernameLength 使用者名稱長度上限（字元數）
const MaxUsernameLength = 16

// ===========================
// Username Value Object
// ===========================

// Username 使用者名稱值對象
//
// 業務規則：
// 1. 去除前後空白後不能為空
// 2. 最多 16 個字元
// 3. 不可包含空白字元
//
// 唯一性由 Repository（資料庫唯一索引）保證，不在此驗證。
type Username struct {
	value string
}

// NewUsername 創建使用者名稱（Checked Constructor）
func NewUsername(value string) (Username, error) {
	trimmed := strings.TrimSpace(value)

	if trimmed == "" {
		return Username{}, ErrInvalidUsername.WithContext(
			"username", value,
			"reason", "cannot be empty",
		)
	}

	if utf8.RuneCountInString(trimmed) > MaxUsernameLength {
		return Username{}, ErrInvalidUsername.WithContext(
			"username", value,
			"reason", "Username must be at most 16 characters long.",
		)
	}

	if strings.IndexFunc(trimmed, unicode.IsSpace) >= 0 {
		return Username{}, ErrInvalidUsername.WithContext(
			"username", value,
			"reason", "cannot contain whitespace",
		)
	}

	return Username{value: trimmed}, nil
}

// String 返回使用者名稱
func (u Username) String() string {
	return u.value
}

// Equals 比較兩個使用者名稱
func (u Username) Equals(other Username) bool {
	return u.value == other.value
}

// IsZero 判斷是否為零值
func (u Username) IsZero() bool {
	return u.value == ""
}
