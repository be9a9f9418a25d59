package persistence

import (
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
	"gorm.io/gorm"
)

// ===========================
// GORM TransactionContext 實作
// ===========================

// DBProvider 由 TransactionContext 取出 *gorm.DB（只供 infrastructure 內部使用）
type DBProvider interface {
	shared.TransactionContext
	GetDB() *gorm.DB
}

// gormTransactionContext 封裝事務中的 *gorm.DB，不讓 GORM 洩漏到 Domain Layer
type gormTransactionContext struct {
	db *gorm.DB
}

// NewGORMTransactionContext 創建 GORM 事務上下文
func NewGORMTransactionContext(db *gorm.DB) shared.TransactionContext {
	return &gormTransactionContext{db: db}
}

// GetDB 獲取事務中的 DB 連接
func (ctx *gormTransactionContext) GetDB() *gorm.DB {
	return ctx.db
}

// DBFrom 返回 tx 內的 DB；tx 為 nil 或不是 GORM 事務時返回 fallback（auto-commit）
func DBFrom(tx shared.TransactionContext, fallback *gorm.DB) *gorm.DB {
	if provider, ok := tx.(DBProvider); ok && provider != nil {
		return provider.GetDB()
	}
	return fallback
}
