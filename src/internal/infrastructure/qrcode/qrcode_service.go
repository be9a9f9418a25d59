// Package qrcode 以 skip2/go-qrcode 實作會員 QR code 的編碼、渲染與解析。
package qrcode

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/jackyeh168/gym_crm/src/internal/domain/service"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/config"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch strings.ToUpper(cfg.QRCode.ErrorCorrectionLevel) {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	size := cfg.QRCode.Size
	if size <= 0 {
		size = 256
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// Token 序列化 {id, username, email}
func (s *qrcodeService) Token(payload service.QRPayload) (string, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal QR code data")
	}
	return string(jsonData), nil
}

// Render 產生 PNG
func (s *qrcodeService) Render(token string) ([]byte, error) {
	qrCode, err := qrcode.New(token, s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}
	return pngBytes, nil
}

// Decode 解析掃描內容
//
// 接受 JSON（至少含 id）或單純的 UUID 字串；id 必須是合法 UUID。
func (s *qrcodeService) Decode(scanned string) (service.QRPayload, error) {
	text := strings.TrimSpace(scanned)
	if text == "" {
		return service.QRPayload{}, service.ErrMalformedToken.WithContext("reason", "empty scan")
	}

	var payload service.QRPayload
	if strings.HasPrefix(text, "{") {
		if err := json.Unmarshal([]byte(text), &payload); err != nil {
			return service.QRPayload{}, service.ErrMalformedToken.WithContext("reason", "invalid json")
		}
	} else {
		payload.ID = text
	}

	id, err := uuid.Parse(strings.TrimSpace(payload.ID))
	if err != nil {
		return service.QRPayload{}, service.ErrMalformedToken.WithContext("reason", "missing or invalid id")
	}
	payload.ID = id.String()

	return payload, nil
}
