package shared

import (
	"github.com/google/uuid"
)

// ===========================
// EntityID[T] 泛型實體 ID
// ===========================

// EntityID 是以 UUID 為底的泛型實體 ID 值對象
//
// 泛型參數 T 是標記類型（marker type），只用於編譯期區分：
// MemberID 與 TransactionID 底層都是 UUID，但不能互相賦值或比較。
//
//	type MemberMarker struct{}
//	type MemberID = shared.EntityID[MemberMarker]
type EntityID[T any] struct {
	value uuid.UUID
}

// NewEntityID 生成新的實體 ID（UUID v4）
func NewEntityID[T any]() EntityID[T] {
	return EntityID[T]{value: uuid.New()}
}

// EntityIDFromString 從字串解析實體 ID
//
// errTemplate 由各 bounded context 提供（例如 member.ErrInvalidMemberID），
// 解析失敗時附上 input 與 parse_error 兩個上下文欄位後返回。
func EntityIDFromString[T any](s string, errTemplate *DomainError) (EntityID[T], error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return EntityID[T]{}, errTemplate.WithContext(
			"input", s,
			"parse_error", err.Error(),
		)
	}
	return EntityID[T]{value: id}, nil
}

// MustEntityIDFromString 解析失敗時 panic，只用於常量與測試資料
func MustEntityIDFromString[T any](s string) EntityID[T] {
	return EntityID[T]{value: uuid.MustParse(s)}
}

// String 轉換為字串表示（小寫 UUID）
func (e EntityID[T]) String() string {
	return e.value.String()
}

// Equals 比較兩個 EntityID 是否相等
func (e EntityID[T]) Equals(other EntityID[T]) bool {
	return e.value == other.value
}

// IsEmpty 判斷是否為空 ID（零值）
func (e EntityID[T]) IsEmpty() bool {
	return e.value == uuid.Nil
}
