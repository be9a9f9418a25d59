package shared

import "time"

// Clock 時間來源；IsValid 等判斷一律以注入的 now 計算，方便測試
type Clock interface {
	Now() time.Time
}

// SystemClock 使用系統時間（UTC）
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// ClockFunc 以函數實作 Clock
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }
