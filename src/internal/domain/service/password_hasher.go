// Package service 定義不屬於單一聚合的無狀態領域服務介面，由 infrastructure 實作。
package service

// PasswordHasher 密碼雜湊與驗證
type PasswordHasher interface {
	// Hash 產生加鹽雜湊
	Hash(password string) (string, error)

	// Check 比對明文與雜湊
	Check(password, hash string) bool
}
