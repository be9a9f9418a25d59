package billing

import (
	"errors"

	"github.com/jackyeh168/gym_crm/src/internal/domain/billing"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/persistence"
	"gorm.io/gorm"
)

// ===========================
// TransactionRepositoryImpl
// ===========================

// TransactionRepositoryImpl 交易倉儲實現（GORM）
type TransactionRepositoryImpl struct {
	db *gorm.DB
}

// NewTransactionRepository 創建新的交易倉儲實例
func NewTransactionRepository(db *gorm.DB) billing.TransactionRepository {
	return &TransactionRepositoryImpl{db: db}
}

// Save 新增交易
//
// 插入包在 db.Transaction 內：已在事務中時 GORM 會改用 SAVEPOINT，
// reference 衝突只回滾到 savepoint，外層事務可以換 reference 再插入一次。
func (r *TransactionRepositoryImpl) Save(tx shared.TransactionContext, t *billing.Transaction) error {
	model := toGORM(t)

	err := r.getDB(tx).Transaction(func(inner *gorm.DB) error {
		return inner.Create(model).Error
	})
	if err != nil {
		if persistence.IsUniqueViolationOn(err, "reference") {
			return billing.ErrReferenceConflict.WithContext("reference", model.Reference)
		}
		return repositoryError("save", err)
	}

	return nil
}

// MarkVoid 作廢交易（條件更新：status = recorded）
func (r *TransactionRepositoryImpl) MarkVoid(tx shared.TransactionContext, id billing.TransactionID, reason string) error {
	db := r.getDB(tx)

	result := db.Model(&TransactionGORM{}).
		Where("transaction_id = ? AND status = ?", id.String(), string(billing.StatusRecorded)).
		Updates(map[string]interface{}{
			"status":      string(billing.StatusVoid),
			"void_reason": reason,
		})
	if result.Error != nil {
		return repositoryError("mark_void", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// 沒有更新：不存在或已作廢
	if _, err := r.FindByID(tx, id); err != nil {
		return err
	}
	return billing.ErrTransactionAlreadyVoid.WithContext("transaction_id", id.String())
}

// FindByID 根據 ID 查找交易
func (r *TransactionRepositoryImpl) FindByID(tx shared.TransactionContext, id billing.TransactionID) (*billing.Transaction, error) {
	var model TransactionGORM

	if err := r.getDB(tx).Where("transaction_id = ?", id.String()).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billing.ErrTransactionNotFound.WithContext("transaction_id", id.String())
		}
		return nil, repositoryError("find_by_id", err)
	}

	return model.toDomain()
}

// FindByMemberID 會員的所有交易（付款時間新到舊）
func (r *TransactionRepositoryImpl) FindByMemberID(tx shared.TransactionContext, memberID member.MemberID) ([]*billing.Transaction, error) {
	var models []TransactionGORM

	err := r.getDB(tx).
		Where("member_id = ?", memberID.String()).
		Order("payment_date DESC").Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, repositoryError("find_by_member_id", err)
	}

	transactions := make([]*billing.Transaction, 0, len(models))
	for i := range models {
		t, err := models[i].toDomain()
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}

func (r *TransactionRepositoryImpl) getDB(tx shared.TransactionContext) *gorm.DB {
	return persistence.DBFrom(tx, r.db)
}

func repositoryError(op string, err error) error {
	return billing.ErrRepositoryError.WithContext("op", op).Wrap(err)
}
