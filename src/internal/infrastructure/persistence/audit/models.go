package audit

import (
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/audit"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// ===========================
// GORM Models
// ===========================

// AuditLogGORM 審計日誌資料表模型（只新增）
//
// actor_member_id 為 NULL 表示自助或系統操作。
// 不對 members 建外鍵：帳號刪除後日誌保留。
type AuditLogGORM struct {
	EntryID         string    `gorm:"column:entry_id;type:varchar(36);primaryKey"`
	SubjectMemberID string    `gorm:"column:subject_member_id;type:varchar(36);index;not null"`
	ActorMemberID   *string   `gorm:"column:actor_member_id;type:varchar(36);index"`
	Action          string    `gorm:"column:action;type:varchar(64);index;not null"`
	Description     string    `gorm:"column:description;type:text;not null"`
	OccurredAt      time.Time `gorm:"column:occurred_at;index;not null"`
}

// TableName 指定資料表名稱
func (AuditLogGORM) TableName() string {
	return "audit_logs"
}

// CheckInLogGORM 入場紀錄資料表模型
type CheckInLogGORM struct {
	CheckInLogID string    `gorm:"column:check_in_log_id;type:varchar(36);primaryKey"`
	MemberID     string    `gorm:"column:member_id;type:varchar(36);index;not null"`
	StaffID      string    `gorm:"column:staff_id;type:varchar(36);index;not null"`
	CheckedInAt  time.Time `gorm:"column:checked_in_at;index;not null"`
}

// TableName 指定資料表名稱
func (CheckInLogGORM) TableName() string {
	return "check_in_logs"
}

// ===========================
// Mapper Functions
// ===========================

func (m *AuditLogGORM) toDomain() (*audit.Entry, error) {
	id, err := shared.EntityIDFromString[audit.EntryMarker](m.EntryID, audit.ErrInvalidEntry)
	if err != nil {
		return nil, err
	}
	subject, err := member.MemberIDFromString(m.SubjectMemberID)
	if err != nil {
		return nil, err
	}

	var actor member.MemberID
	if m.ActorMemberID != nil {
		actor, err = member.MemberIDFromString(*m.ActorMemberID)
		if err != nil {
			return nil, err
		}
	}

	return audit.ReconstructEntry(id, subject, actor, audit.Action(m.Action), m.Description, m.OccurredAt), nil
}

func entryToGORM(e *audit.Entry) *AuditLogGORM {
	var actor *string
	if e.HasActor() {
		value := e.ActorID().String()
		actor = &value
	}

	return &AuditLogGORM{
		EntryID:         e.ID().String(),
		SubjectMemberID: e.SubjectID().String(),
		ActorMemberID:   actor,
		Action:          e.Action().String(),
		Description:     e.Description(),
		OccurredAt:      e.OccurredAt().UTC(),
	}
}

func (m *CheckInLogGORM) toDomain() (*audit.CheckInLog, error) {
	id, err := shared.EntityIDFromString[audit.CheckInLogMarker](m.CheckInLogID, audit.ErrInvalidEntry)
	if err != nil {
		return nil, err
	}
	memberID, err := member.MemberIDFromString(m.MemberID)
	if err != nil {
		return nil, err
	}
	staffID, err := member.MemberIDFromString(m.StaffID)
	if err != nil {
		return nil, err
	}

	return audit.ReconstructCheckInLog(id, memberID, staffID, m.CheckedInAt), nil
}

func checkInLogToGORM(l *audit.CheckInLog) *CheckInLogGORM {
	return &CheckInLogGORM{
		CheckInLogID: l.ID().String(),
		MemberID:     l.MemberID().String(),
		StaffID:      l.StaffID().String(),
		CheckedInAt:  l.CheckedInAt().UTC(),
	}
}
