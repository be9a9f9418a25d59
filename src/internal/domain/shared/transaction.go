package shared

import "context"

// TransactionContext 事務上下文介面（標記介面）
//
// 行為約定：
// - tx != nil: 在調用者的事務中執行
// - tx == nil: auto-commit 模式，只允許用於事務外的單一讀操作
//
// 在 InTransaction 的 fn 內部，所有 Repository 調用都必須傳入 fn 收到的 tx；
// 單連線的資料庫（SQLite）在事務內以 nil 讀取會等待連線而卡死。
type TransactionContext interface {
	// 標記介面：僅用於傳遞上下文，不暴露方法
}

// TransactionManager 事務管理器介面
//
// fn 返回錯誤時回滾；回滾本身失敗時返回 ErrRollbackFailed（PartialFailure 分類），
// 並以 Wrap 保留 fn 的原始錯誤。
type TransactionManager interface {
	InTransaction(ctx context.Context, fn func(tx TransactionContext) error) error
}

// ErrRollbackFailed 事務回滾失敗，資料可能已部分寫入
var ErrRollbackFailed = NewDomainError(KindPartialFailure, "TX_ROLLBACK_FAILED", "transaction rollback failed")
