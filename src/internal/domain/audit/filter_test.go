package audit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var filterNow = time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

// Test 1: 沒有任何條件 → 不限時間
func TestBuildTimeRange_NoFilter(t *testing.T) {
	r, err := BuildTimeRange(TimeRangeQuery{}, filterNow, time.UTC)

	require.NoError(t, err)
	assert.Nil(t, r.From)
	assert.Nil(t, r.To)
}

// Test 2: quick filters
func TestBuildTimeRange_QuickFilters(t *testing.T) {
	tests := []struct {
		quick    QuickFilter
		wantFrom time.Time
	}{
		{QuickToday, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
		{QuickWeek, time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)},
		{QuickMonth, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(string(tt.quick), func(t *testing.T) {
			r, err := BuildTimeRange(TimeRangeQuery{Quick: tt.quick}, filterNow, time.UTC)

			require.NoError(t, err)
			assert.Equal(t, tt.wantFrom, *r.From)
			assert.Equal(t, filterNow, *r.To)
		})
	}
}

// Test 3: 指定日期 → 整天
func TestBuildTimeRange_Date(t *testing.T) {
	r, err := BuildTimeRange(TimeRangeQuery{Date: "2024-06-01"}, filterNow, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *r.From)
	assert.Equal(t, time.Date(2024, 6, 1, 23, 59, 59, int(999*time.Millisecond), time.UTC), *r.To)
}

// Test 4: 指定日期 + 時段
func TestBuildTimeRange_DateWithClockRange(t *testing.T) {
	r, err := BuildTimeRange(TimeRangeQuery{Date: "2024-06-01", StartTime: "08:00", EndTime: "09:15"}, filterNow, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), *r.From)
	assert.Equal(t, time.Date(2024, 6, 1, 9, 15, 59, int(999*time.Millisecond), time.UTC), *r.To)
}

// Test 5: week 不套用時段
func TestBuildTimeRange_WeekIgnoresClockRange(t *testing.T) {
	r, err := BuildTimeRange(TimeRangeQuery{Quick: QuickWeek, StartTime: "08:00"}, filterNow, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC), *r.From)
}

// Test 6: 格式錯誤
func TestBuildTimeRange_InvalidInput(t *testing.T) {
	queries := []TimeRangeQuery{
		{Quick: "year"},
		{Date: "06/01/2024"},
		{Date: "2024-06-01", StartTime: "25:00"},
		{Quick: QuickToday, EndTime: "noon"},
	}

	for _, q := range queries {
		_, err := BuildTimeRange(q, filterNow, time.UTC)
		assert.True(t, errors.Is(err, ErrInvalidFilter), "query=%+v", q)
	}
}
