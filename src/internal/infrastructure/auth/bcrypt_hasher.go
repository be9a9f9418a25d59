// Package auth 提供認證相關領域服務的具體實作（bcrypt、JWT）。
package auth

import (
	"github.com/jackyeh168/gym_crm/src/internal/domain/service"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/config"
	"golang.org/x/crypto/bcrypt"
)

// bcryptHasher 以 bcrypt 實作 PasswordHasher
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher 建構函數；cost 超出 bcrypt 範圍時使用 DefaultCost
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := cfg.Auth.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

// Hash 產生加鹽雜湊（salt 由 bcrypt 自動產生）
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(bytes), err
}

// Check 比對明文與雜湊
func (h *bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
