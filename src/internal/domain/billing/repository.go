package billing

import (
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// ===========================
// TransactionRepository Interface
// ===========================

// TransactionRepository 交易倉儲接口
//
// Save 必須在 savepoint 內插入：reference 衝突時只回滾這一次插入，
// 外層事務保持可用，呼叫端可換一個 reference 重試。
type TransactionRepository interface {
	// Save 新增交易；reference 唯一索引衝突返回 ErrReferenceConflict
	Save(tx shared.TransactionContext, transaction *Transaction) error

	// MarkVoid 作廢交易；不存在返回 ErrTransactionNotFound，已作廢返回 ErrTransactionAlreadyVoid
	MarkVoid(tx shared.TransactionContext, id TransactionID, reason string) error

	// FindByID 根據 ID 查找
	FindByID(tx shared.TransactionContext, id TransactionID) (*Transaction, error)

	// FindByMemberID 會員的所有交易（付款時間新到舊）
	FindByMemberID(tx shared.TransactionContext, memberID member.MemberID) ([]*Transaction, error)
}
