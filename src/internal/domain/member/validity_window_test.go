package member

import (
	"errors"
	"testing"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Test 1: 三個月期間 → expiry 2024-04-01, durationMonths = 3
func TestNewValidityWindowForMonths_ThreeMonths(t *testing.T) {
	// Act
	w, err := NewValidityWindowForMonths(date(2024, 1, 1), 3)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, date(2024, 4, 1), w.Expiry())
	assert.Equal(t, 3, w.DurationMonths())
}

// Test 2: expiry 不晚於 start → ValidationError
func TestNewValidityWindow_ExpiryNotAfterStart_ReturnsError(t *testing.T) {
	start := date(2024, 1, 1)

	for _, expiry := range []time.Time{start, start.Add(-time.Hour)} {
		_, err := NewValidityWindow(start, expiry)

		assert.True(t, errors.Is(err, ErrInvalidValidityWindow))
		assert.True(t, errors.Is(err, shared.ErrValidation))
	}
}

// Test 3: 缺少 expiry → duration required
func TestNewValidityWindow_MissingExpiry_ReturnsDurationRequired(t *testing.T) {
	_, err := NewValidityWindow(date(2024, 1, 1), time.Time{})
	assert.True(t, errors.Is(err, ErrDurationRequired))

	_, err = NewValidityWindowForMonths(date(2024, 1, 1), 0)
	assert.True(t, errors.Is(err, ErrDurationRequired))
}

// Test 4: Covers 邊界（到期當下仍有效）
func TestValidityWindow_Covers(t *testing.T) {
	w, _ := NewValidityWindow(date(2024, 1, 1), date(2024, 2, 1))

	assert.True(t, w.Covers(date(2024, 1, 15)))
	assert.True(t, w.Covers(date(2024, 2, 1)), "now == expiry is still valid")
	assert.False(t, w.Covers(date(2024, 2, 1).Add(time.Nanosecond)))
	assert.False(t, ValidityWindow{}.Covers(date(2024, 1, 15)))
}

// Test 5: DurationMonths 四捨五入，短於半個月仍記 1 個月
func TestValidityWindow_DurationMonths_Rounds(t *testing.T) {
	tests := []struct {
		days int
		want int
	}{
		{1, 1},
		{14, 1},
		{30, 1},
		{44, 1},
		{46, 2},
		{365, 12},
	}

	for _, tt := range tests {
		start := date(2024, 1, 1)
		w, err := NewValidityWindow(start, start.AddDate(0, 0, tt.days))
		require.NoError(t, err)
		assert.Equal(t, tt.want, w.DurationMonths(), "days=%d", tt.days)
	}
}
