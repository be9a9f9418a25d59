// Package validator 將 go-playground/validator 接到 echo 的 c.Validate。
package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator echo.Validator 實作
type CustomValidator struct {
	validator *validator.Validate
}

// New 建構函數；錯誤欄位名稱使用 json tag
func New() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate 驗證請求 DTO 的 validate tag
func (cv *CustomValidator) Validate(i any) error {
	return cv.validator.Struct(i)
}

// FieldError 單一欄位的驗證錯誤
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// Details 將 ValidationErrors 攤平為欄位清單
func Details(errs validator.ValidationErrors) []FieldError {
	details := make([]FieldError, 0, len(errs))
	for _, fe := range errs {
		details = append(details, FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return details
}
