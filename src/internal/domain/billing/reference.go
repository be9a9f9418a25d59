package billing

import (
	"fmt"
	"regexp"
	"time"
)

var referencePattern = regexp.MustCompile(`^MEM-\d{4}-\d{2}-\d{4}$`)

// ===========================
// Reference Value Object
// ===========================

// Reference 交易參考編號 MEM-{yyyy}-{mm}-{####}
//
// 格式只保證可讀性；全域唯一由資料庫唯一索引保證。
type Reference struct {
	value string
}

// ParseReference 解析參考編號
func ParseReference(value string) (Reference, error) {
	if !referencePattern.MatchString(value) {
		return Reference{}, ErrInvalidReference.WithContext("reference", value)
	}
	return Reference{value: value}, nil
}

// String 返回參考編號
func (r Reference) String() string {
	return r.value
}

// IsZero 是否為零值
func (r Reference) IsZero() bool {
	return r.value == ""
}

// ===========================
// ReferenceGenerator 領域服務
// ===========================

// ReferenceGenerator 產生參考編號（年份、月份取自付款時間，末四碼隨機）
type ReferenceGenerator struct {
	// intn 返回 [0, n) 的隨機整數
	intn func(n int) int
}

// NewReferenceGenerator 建構函數；intn 通常為 math/rand/v2 的 rand.IntN
func NewReferenceGenerator(intn func(n int) int) *ReferenceGenerator {
	return &ReferenceGenerator{intn: intn}
}

// Generate 產生一個參考編號（不保證唯一）
func (g *ReferenceGenerator) Generate(at time.Time) Reference {
	return Reference{value: fmt.Sprintf("MEM-%04d-%02d-%04d", at.Year(), int(at.Month()), g.intn(10000))}
}
