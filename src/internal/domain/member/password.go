package member

import "unicode/utf8"

// MinPasswordLength 密碼最少字元數
const MinPasswordLength = 6

// ValidatePassword 檢查明文密碼是否符合規則（只檢查長度；雜湊由 PasswordHasher 負責）
func ValidatePassword(raw string) error {
	if utf8.RuneCountInString(raw) < MinPasswordLength {
		return ErrInvalidPassword.WithContext("min_length", MinPasswordLength)
	}
	return nil
}
