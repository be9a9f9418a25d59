package member

import (
	"math"
	"time"
)

// monthSpan 計算 durationMonths 時使用的月長度（30 天）
const monthSpan = 30 * 24 * time.Hour

// ===========================
// ValidityWindow Value Object
// ===========================

// ValidityWindow 付費有效期間 [start, expiry]
//
// 不變量：非零值時 start 與 expiry 皆存在，且 expiry 嚴格晚於 start。
// 零值代表「沒有有效期間」（未開通的會員）。
type ValidityWindow struct {
	start  time.Time
	expiry time.Time
}

// NewValidityWindow 以明確的 expiry 建立有效期間
func NewValidityWindow(start, expiry time.Time) (ValidityWindow, error) {
	if start.IsZero() {
		return ValidityWindow{}, ErrInvalidValidityWindow.WithContext("reason", "start time is required")
	}
	if expiry.IsZero() {
		return ValidityWindow{}, ErrDurationRequired
	}
	if !expiry.After(start) {
		return ValidityWindow{}, ErrInvalidValidityWindow.WithContext(
			"start", start.Format(time.RFC3339),
			"expiry", expiry.Format(time.RFC3339),
		)
	}
	return ValidityWindow{start: start.UTC(), expiry: expiry.UTC()}, nil
}

// NewValidityWindowForMonths 以日曆月數建立有效期間（start + months 個月）
func NewValidityWindowForMonths(start time.Time, months int) (ValidityWindow, error) {
	if months <= 0 {
		return ValidityWindow{}, ErrDurationRequired.WithContext("duration_months", months)
	}
	return NewValidityWindow(start, start.AddDate(0, months, 0))
}

// Start 開始時間
func (w ValidityWindow) Start() time.Time {
	return w.start
}

// Expiry 到期時間
func (w ValidityWindow) Expiry() time.Time {
	return w.expiry
}

// IsZero 是否沒有有效期間
func (w ValidityWindow) IsZero() bool {
	return w.expiry.IsZero()
}

// Covers now <= expiry（到期當下仍有效）
func (w ValidityWindow) Covers(now time.Time) bool {
	return !w.IsZero() && !now.After(w.expiry)
}

// DurationMonths 以 30 天為一個月，四捨五入的月數（僅供交易紀錄描述）；有效期間至少算 1 個月
func (w ValidityWindow) DurationMonths() int {
	if w.IsZero() {
		return 0
	}
	return max(1, int(math.Round(float64(w.expiry.Sub(w.start))/float64(monthSpan))))
}

// Equals 比較兩個有效期間
func (w ValidityWindow) Equals(other ValidityWindow) bool {
	return w.start.Equal(other.start) && w.expiry.Equal(other.expiry)
}
