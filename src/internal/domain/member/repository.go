package member

import (
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// ListFilter 帳號列表查詢條件
type ListFilter struct {
	// Roles 為空時不限角色
	Roles []Role
	// Search 以使用者名稱或 Email 模糊搜尋
	Search string
	Page   shared.Page
}

// ===========================
// MemberRepository Interface
// ===========================

// MemberRepository 帳號倉儲接口
//
// 事務管理策略：
//   - 寫操作 tx 必須 non-nil
//   - 讀操作 tx 可為 nil（事務外的獨立查詢）
//   - FindByXXX() 找不到時返回 ErrMemberNotFound
//
// 條件更新（DeactivateIfActive / AdmitIfValid）是會籍狀態的原子寫入點：
// 判斷與寫入在同一條 UPDATE 內完成，以受影響筆數回報結果。
type MemberRepository interface {
	// Save 保存帳號（新增或更新）；username / email 唯一索引衝突返回 ErrUsernameTaken / ErrEmailTaken
	Save(tx shared.TransactionContext, member *Member) error

	// FindByMemberID 根據 ID 查找
	FindByMemberID(tx shared.TransactionContext, id MemberID) (*Member, error)

	// FindByUsername 根據使用者名稱查找（登入）
	FindByUsername(tx shared.TransactionContext, username Username) (*Member, error)

	// ExistsByUsername 使用者名稱是否已被 exclude 以外的帳號使用（exclude 可為空 ID）
	ExistsByUsername(tx shared.TransactionContext, username Username, exclude MemberID) (bool, error)

	// ExistsByEmail Email 是否已被 exclude 以外的帳號使用
	ExistsByEmail(tx shared.TransactionContext, email Email, exclude MemberID) (bool, error)

	// DeactivateIfActive 僅在目前為開通狀態（或殘留有效期間）時停用並清空有效期間
	//
	// 返回 true 表示本次呼叫實際變更了資料；會員不存在時返回 false, nil。
	DeactivateIfActive(tx shared.TransactionContext, id MemberID, now time.Time) (bool, error)

	// AdmitIfValid 僅在 activated 且 expiry >= now 時寫入最近入場時間
	//
	// 返回 false 表示會籍在讀取後已失效（被其他請求停用或恰好到期），不得放行。
	AdmitIfValid(tx shared.TransactionContext, id MemberID, now time.Time) (bool, error)

	// IncrementScanCount staff 掃碼次數 +1
	IncrementScanCount(tx shared.TransactionContext, staffID MemberID, now time.Time) error

	// Delete 刪除帳號；不存在時返回 ErrMemberNotFound
	Delete(tx shared.TransactionContext, id MemberID) error

	// List 分頁列表，返回該頁資料與總筆數
	List(tx shared.TransactionContext, filter ListFilter) ([]*Member, int64, error)

	// FindIDsByUsernameLike 使用者名稱模糊搜尋，供日誌查詢轉換為 ID 條件
	FindIDsByUsernameLike(tx shared.TransactionContext, term string) ([]MemberID, error)

	// FindNeedingDeactivation 已開通但已過期或缺少 expiry 的會員（批次停用）
	FindNeedingDeactivation(tx shared.TransactionContext, now time.Time, limit int) ([]*Member, error)

	// CountByRole 角色人數
	CountByRole(tx shared.TransactionContext, role Role) (int64, error)

	// CountActive 目前有效的會員數（activated 且 expiry >= now）
	CountActive(tx shared.TransactionContext, now time.Time) (int64, error)

	// CountCreatedSince since 之後建立的指定角色帳號數
	CountCreatedSince(tx shared.TransactionContext, role Role, since time.Time) (int64, error)
}
