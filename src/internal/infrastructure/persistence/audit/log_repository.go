package audit

import (
	"github.com/jackyeh168/gym_crm/src/internal/domain/audit"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/persistence"
	"gorm.io/gorm"
)

// ===========================
// EntryRepositoryImpl
// ===========================

// EntryRepositoryImpl 審計日誌倉儲實現（GORM）
type EntryRepositoryImpl struct {
	db *gorm.DB
}

// NewEntryRepository 創建審計日誌倉儲
func NewEntryRepository(db *gorm.DB) audit.EntryRepository {
	return &EntryRepositoryImpl{db: db}
}

// Append 新增一筆日誌
func (r *EntryRepositoryImpl) Append(tx shared.TransactionContext, entry *audit.Entry) error {
	if err := persistence.DBFrom(tx, r.db).Create(entryToGORM(entry)).Error; err != nil {
		return repositoryError("append_entry", err)
	}
	return nil
}

// Find 分頁查詢（新到舊）
func (r *EntryRepositoryImpl) Find(tx shared.TransactionContext, filter audit.LogFilter) ([]*audit.Entry, int64, error) {
	if filter.MemberIDs != nil && len(filter.MemberIDs) == 0 {
		return []*audit.Entry{}, 0, nil
	}

	query := persistence.DBFrom(tx, r.db).Model(&AuditLogGORM{})
	if filter.MemberIDs != nil {
		ids := idStrings(filter.MemberIDs)
		query = query.Where("subject_member_id IN ? OR actor_member_id IN ?", ids, ids)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action.String())
	}
	query = applyRange(query, "occurred_at", filter.Range)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, repositoryError("count_entries", err)
	}

	var models []AuditLogGORM
	err := paginate(query, filter.Page).
		Order("occurred_at DESC").Order("entry_id").
		Find(&models).Error
	if err != nil {
		return nil, 0, repositoryError("find_entries", err)
	}

	entries := make([]*audit.Entry, 0, len(models))
	for i := range models {
		e, err := models[i].toDomain()
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, nil
}

// ===========================
// CheckInLogRepositoryImpl
// ===========================

// CheckInLogRepositoryImpl 入場紀錄倉儲實現（GORM）
type CheckInLogRepositoryImpl struct {
	db *gorm.DB
}

// NewCheckInLogRepository 創建入場紀錄倉儲
func NewCheckInLogRepository(db *gorm.DB) audit.CheckInLogRepository {
	return &CheckInLogRepositoryImpl{db: db}
}

// Append 新增一筆入場紀錄
func (r *CheckInLogRepositoryImpl) Append(tx shared.TransactionContext, log *audit.CheckInLog) error {
	if err := persistence.DBFrom(tx, r.db).Create(checkInLogToGORM(log)).Error; err != nil {
		return repositoryError("append_check_in_log", err)
	}
	return nil
}

// Find 分頁查詢（新到舊）；MemberIDs 比對會員或經手 staff
func (r *CheckInLogRepositoryImpl) Find(tx shared.TransactionContext, filter audit.LogFilter) ([]*audit.CheckInLog, int64, error) {
	if filter.MemberIDs != nil && len(filter.MemberIDs) == 0 {
		return []*audit.CheckInLog{}, 0, nil
	}

	query := persistence.DBFrom(tx, r.db).Model(&CheckInLogGORM{})
	if filter.MemberIDs != nil {
		ids := idStrings(filter.MemberIDs)
		query = query.Where("member_id IN ? OR staff_id IN ?", ids, ids)
	}
	query = applyRange(query, "checked_in_at", filter.Range)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, repositoryError("count_check_in_logs", err)
	}

	var models []CheckInLogGORM
	err := paginate(query, filter.Page).
		Order("checked_in_at DESC").Order("check_in_log_id").
		Find(&models).Error
	if err != nil {
		return nil, 0, repositoryError("find_check_in_logs", err)
	}

	logs := make([]*audit.CheckInLog, 0, len(models))
	for i := range models {
		l, err := models[i].toDomain()
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, l)
	}
	return logs, total, nil
}

// ===========================
// Helper Functions
// ===========================

// applyRange 時間欄位的區間條件（兩端皆含）
func applyRange(query *gorm.DB, column string, r audit.TimeRange) *gorm.DB {
	if r.From != nil {
		query = query.Where(column+" >= ?", r.From.UTC())
	}
	if r.To != nil {
		query = query.Where(column+" <= ?", r.To.UTC())
	}
	return query
}

func paginate(query *gorm.DB, page shared.Page) *gorm.DB {
	if page.Size == 0 {
		page = shared.NewPage(1, 0)
	}
	return query.Offset(page.Offset()).Limit(page.Size)
}

func idStrings(ids []member.MemberID) []string {
	values := make([]string, 0, len(ids))
	for _, id := range ids {
		values = append(values, id.String())
	}
	return values
}

func repositoryError(op string, err error) error {
	return audit.ErrRepositoryError.WithContext("op", op).Wrap(err)
}
