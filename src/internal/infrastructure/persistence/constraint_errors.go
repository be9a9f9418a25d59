package persistence

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// IsUniqueConstraintError 判斷是否為唯一約束衝突（SQLite / PostgreSQL / MySQL）
func IsUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // SQLite
		strings.Contains(msg, "duplicate key value") || // PostgreSQL
		strings.Contains(msg, "Duplicate entry") // MySQL
}

// IsUniqueViolationOn 唯一約束衝突且錯誤訊息提到指定欄位（或索引名稱片段）
//
// 各資料庫的訊息都會帶出欄位或索引名稱：
//
//	UNIQUE constraint failed: members.username
//	duplicate key value violates unique constraint "idx_members_username"
//	Duplicate entry 'x' for key 'members.idx_members_username'
func IsUniqueViolationOn(err error, column string) bool {
	return IsUniqueConstraintError(err) && strings.Contains(err.Error(), column)
}
