package service

import "github.com/jackyeh168/gym_crm/src/internal/domain/shared"

// ErrMalformedToken 掃描內容無法解析，或缺少會員 id
var ErrMalformedToken = shared.NewDomainError(shared.KindValidation, "MALFORMED_TOKEN", "malformed scan")

// QRPayload 會員 QR code 內嵌的資料
type QRPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// QRCodeService QR code 編碼 / 解碼
type QRCodeService interface {
	// Token 將 payload 序列化為 QR 內容字串（儲存於會員資料）
	Token(payload QRPayload) (string, error)

	// Render 將 QR 內容字串渲染為 PNG
	Render(token string) ([]byte, error)

	// Decode 解析掃描得到的文字；格式錯誤或缺少 id 返回 ErrMalformedToken
	Decode(scanned string) (QRPayload, error)
}
