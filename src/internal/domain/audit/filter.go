package audit

import (
	"fmt"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// QuickFilter 快速時間篩選
type QuickFilter string

const (
	QuickNone  QuickFilter = ""
	QuickToday QuickFilter = "today"
	QuickWeek  QuickFilter = "week"
	QuickMonth QuickFilter = "month"
)

// TimeRange 時間區間（兩端皆含）；From / To 為 nil 表示不限
type TimeRange struct {
	From *time.Time
	To   *time.Time
}

// TimeRangeQuery 日誌查詢的時間條件原始輸入
type TimeRangeQuery struct {
	Quick     QuickFilter
	Date      string // YYYY-MM-DD
	StartTime string // HH:MM，只在指定日期或 today 時生效
	EndTime   string // HH:MM
}

// BuildTimeRange 將時間條件換算為區間
//
// 規則：
//   - quick 優先於 date：today 從當日 00:00 起，week / month 從 7 天前 / 一個月前的 00:00 起，到 now
//   - 只給 date：當日 00:00:00 到 23:59:59.999
//   - 指定 date 或 quick=today 時，startTime / endTime 進一步收窄到當日的時分
func BuildTimeRange(q TimeRangeQuery, now time.Time, loc *time.Location) (TimeRange, error) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)

	var r TimeRange
	var baseDay time.Time

	switch q.Quick {
	case QuickNone:
		if q.Date != "" {
			day, err := time.ParseInLocation("2006-01-02", q.Date, loc)
			if err != nil {
				return TimeRange{}, ErrInvalidFilter.WithContext("date", q.Date)
			}
			r = closedDay(day)
			baseDay = day
		}
	case QuickToday:
		baseDay = startOfDay(now)
		r = between(baseDay, now)
	case QuickWeek:
		r = between(startOfDay(now.AddDate(0, 0, -7)), now)
	case QuickMonth:
		r = between(startOfDay(now.AddDate(0, -1, 0)), now)
	default:
		return TimeRange{}, ErrInvalidFilter.WithContext("quick_filter", string(q.Quick))
	}

	if baseDay.IsZero() {
		return r, nil
	}

	if q.StartTime != "" {
		h, m, err := parseClock(q.StartTime)
		if err != nil {
			return TimeRange{}, err
		}
		from := time.Date(baseDay.Year(), baseDay.Month(), baseDay.Day(), h, m, 0, 0, loc)
		r.From = &from
	}
	if q.EndTime != "" {
		h, m, err := parseClock(q.EndTime)
		if err != nil {
			return TimeRange{}, err
		}
		to := time.Date(baseDay.Year(), baseDay.Month(), baseDay.Day(), h, m, 59, int(999*time.Millisecond), loc)
		r.To = &to
	}
	return r, nil
}

func parseClock(value string) (int, int, error) {
	var h, m int
	if _, err := fmt.Sscanf(value, "%d:%d", &h, &m); err != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, ErrInvalidFilter.WithContext("time", value)
	}
	return h, m, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func closedDay(day time.Time) TimeRange {
	from := startOfDay(day)
	to := from.Add(24*time.Hour - time.Millisecond)
	return TimeRange{From: &from, To: &to}
}

func between(from, to time.Time) TimeRange {
	return TimeRange{From: &from, To: &to}
}

// ===========================
// LogFilter
// ===========================

// LogFilter 日誌查詢條件
type LogFilter struct {
	// MemberIDs 非 nil 時，只返回 subject 或 actor 屬於其中的紀錄（空切片代表不會有結果）
	MemberIDs []member.MemberID
	// Action 只對審計日誌有效
	Action Action
	Range  TimeRange
	Page   shared.Page
}
