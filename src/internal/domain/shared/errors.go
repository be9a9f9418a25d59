package shared

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ===========================
// 錯誤分類（ErrorKind）
// ===========================

// ErrorKind 錯誤大類，決定 delivery 層的 HTTP 狀態碼
type ErrorKind string

const (
	KindValidation     ErrorKind = "VALIDATION"
	KindNotFound       ErrorKind = "NOT_FOUND"
	KindConflict       ErrorKind = "CONFLICT"
	KindAuthorization  ErrorKind = "AUTHORIZATION"
	KindPersistence    ErrorKind = "PERSISTENCE"
	KindPartialFailure ErrorKind = "PARTIAL_FAILURE"
)

// ErrorCode 具體錯誤代碼（各 bounded context 自行定義）
type ErrorCode string

// ===========================
// DomainError 結構
// ===========================

// DomainError 領域錯誤
//
// - Kind 用於分類比對：errors.Is(err, shared.ErrValidation)
// - Code 用於精確比對：errors.Is(err, member.ErrMemberNotFound)
// - Context 只供日誌與除錯，不參與比對
// - 實例不可變，WithContext / Wrap 皆返回新實例
type DomainError struct {
	Kind    ErrorKind
	Code    ErrorCode
	Message string
	Context map[string]interface{}
	cause   error
}

// NewDomainError 建立錯誤模板
func NewDomainError(kind ErrorKind, code ErrorCode, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

// Error 實現 error 接口
func (e *DomainError) Error() string {
	var b strings.Builder
	if e.Code != "" {
		fmt.Fprintf(&b, "[%s] ", e.Code)
	}
	b.WriteString(e.Message)
	if len(e.Context) > 0 {
		b.WriteString(" (context: ")
		b.WriteString(formatContext(e.Context))
		b.WriteString(")")
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// WithContext 添加上下文信息（返回新的錯誤實例）
//
//	return ErrInvalidUsername.WithContext("username", raw, "reason", "too long")
func (e *DomainError) WithContext(keyValues ...interface{}) *DomainError {
	if len(keyValues)%2 != 0 {
		panic("WithContext requires even number of arguments (key-value pairs)")
	}

	newErr := e.clone()
	for i := 0; i < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			panic(fmt.Sprintf("context key must be string, got %T", keyValues[i]))
		}
		newErr.Context[key] = keyValues[i+1]
	}
	return newErr
}

// Wrap 附上底層原因（例如資料庫錯誤），errors.Unwrap 可取回
func (e *DomainError) Wrap(cause error) *DomainError {
	newErr := e.clone()
	newErr.cause = cause
	return newErr
}

// Unwrap 返回底層原因
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is 實現 errors.Is
//
// 目標沒有 Code 時視為分類哨兵，比對 Kind；否則比對 Code。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Code == "" {
		return t.Kind != "" && e.Kind == t.Kind
	}
	return e.Code == t.Code
}

func (e *DomainError) clone() *DomainError {
	ctx := make(map[string]interface{}, len(e.Context))
	for k, v := range e.Context {
		ctx[k] = v
	}
	return &DomainError{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: e.Message,
		Context: ctx,
		cause:   e.cause,
	}
}

func formatContext(ctx map[string]interface{}) string {
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, ctx[k]))
	}
	return strings.Join(parts, ", ")
}

// ===========================
// 分類哨兵
// ===========================

var (
	ErrValidation     = &DomainError{Kind: KindValidation, Message: "validation failed"}
	ErrNotFound       = &DomainError{Kind: KindNotFound, Message: "resource not found"}
	ErrConflict       = &DomainError{Kind: KindConflict, Message: "resource conflict"}
	ErrAuthorization  = &DomainError{Kind: KindAuthorization, Message: "not authorized"}
	ErrPersistence    = &DomainError{Kind: KindPersistence, Message: "persistence failure"}
	ErrPartialFailure = &DomainError{Kind: KindPartialFailure, Message: "operation partially applied"}
)

// AsDomainError 取出錯誤鏈中最外層的 DomainError
func AsDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// KindOf 返回錯誤分類；非 DomainError 一律視為 KindPersistence
func KindOf(err error) ErrorKind {
	if domainErr, ok := AsDomainError(err); ok && domainErr.Kind != "" {
		return domainErr.Kind
	}
	return KindPersistence
}
