package audit

import (
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// EntryRepository 審計日誌倉儲（只新增、不修改、不刪除）
type EntryRepository interface {
	Append(tx shared.TransactionContext, entry *Entry) error

	// Find 依條件分頁查詢（新到舊），返回該頁資料與總筆數
	Find(tx shared.TransactionContext, filter LogFilter) ([]*Entry, int64, error)
}

// CheckInLogRepository 入場紀錄倉儲
type CheckInLogRepository interface {
	Append(tx shared.TransactionContext, log *CheckInLog) error

	// Find 依條件分頁查詢（新到舊）；filter.Action 不適用
	Find(tx shared.TransactionContext, filter LogFilter) ([]*CheckInLog, int64, error)
}
