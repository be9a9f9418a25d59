package logs

import (
	"errors"
	"strings"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/audit"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// PageSize 日誌每頁固定筆數
const PageSize = 10

// deletedAccount 已刪除帳號的顯示名稱
const deletedAccount = "(deleted)"

// LogQuery 審計日誌 / 入場紀錄共用的查詢條件
type LogQuery struct {
	Actor member.Actor

	// Search 以使用者名稱模糊搜尋（主體或執行者）
	Search    string
	Quick     string // today / week / month
	Date      string // YYYY-MM-DD
	StartTime string // HH:MM
	EndTime   string // HH:MM
	Page      int
}

// PageInfo 分頁資訊
type PageInfo struct {
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}

// buildFilter 將查詢條件轉為 LogFilter；action 只在審計日誌使用
func buildFilter(memberRepo member.MemberRepository, q LogQuery, action audit.Action, now time.Time, loc *time.Location) (audit.LogFilter, error) {
	timeRange, err := audit.BuildTimeRange(audit.TimeRangeQuery{
		Quick:     audit.QuickFilter(strings.ToLower(strings.TrimSpace(q.Quick))),
		Date:      strings.TrimSpace(q.Date),
		StartTime: strings.TrimSpace(q.StartTime),
		EndTime:   strings.TrimSpace(q.EndTime),
	}, now, loc)
	if err != nil {
		return audit.LogFilter{}, err
	}

	filter := audit.LogFilter{
		Action: action,
		Range:  timeRange,
		Page:   shared.NewPage(q.Page, PageSize),
	}

	if term := strings.TrimSpace(q.Search); term != "" {
		ids, err := memberRepo.FindIDsByUsernameLike(nil, term)
		if err != nil {
			return audit.LogFilter{}, err
		}
		// 沒有符合的帳號時仍需非 nil，代表查無結果
		if ids == nil {
			ids = []member.MemberID{}
		}
		filter.MemberIDs = ids
	}
	return filter, nil
}

func pageInfo(page shared.Page, total int64) PageInfo {
	return PageInfo{
		Page:       page.Number,
		PageSize:   page.Size,
		Total:      total,
		TotalPages: page.TotalPages(total),
	}
}

// usernameResolver 以 ID 查詢使用者名稱，單次查詢內快取
type usernameResolver struct {
	memberRepo member.MemberRepository
	cache      map[string]string
}

func newUsernameResolver(memberRepo member.MemberRepository) *usernameResolver {
	return &usernameResolver{memberRepo: memberRepo, cache: make(map[string]string)}
}

// resolve 空 ID 返回空字串；帳號已刪除返回 "(deleted)"
func (r *usernameResolver) resolve(id member.MemberID) (string, error) {
	if id.IsEmpty() {
		return "", nil
	}
	key := id.String()
	if name, ok := r.cache[key]; ok {
		return name, nil
	}

	name := deletedAccount
	m, err := r.memberRepo.FindByMemberID(nil, id)
	switch {
	case err == nil:
		name = m.Username().String()
	case errors.Is(err, shared.ErrNotFound):
	default:
		return "", err
	}

	r.cache[key] = name
	return name, nil
}
