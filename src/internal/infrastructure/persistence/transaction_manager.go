package persistence

import (
	"context"

	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// gormTransactionManager 以 GORM 實作 shared.TransactionManager
type gormTransactionManager struct {
	db *gorm.DB
}

// NewGORMTransactionManager 建構函數
func NewGORMTransactionManager(db *gorm.DB) shared.TransactionManager {
	return &gormTransactionManager{db: db}
}

// InTransaction 在單一資料庫事務中執行 fn
//
// - fn 返回錯誤：回滾並返回原錯誤
// - 回滾失敗：返回 shared.ErrRollbackFailed（Wrap 原錯誤），代表資料可能部分寫入
// - fn panic：回滾後重新 panic
func (m *gormTransactionManager) InTransaction(ctx context.Context, fn func(tx shared.TransactionContext) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	tx := m.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "failed to begin transaction")
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(NewGORMTransactionContext(tx)); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return shared.ErrRollbackFailed.
				WithContext("rollback_error", rbErr.Error()).
				Wrap(err)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}
