package audit

import (
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// ===========================
// Entry（append-only）
// ===========================

// Entry 審計日誌：誰（actor）對誰（subject）做了什麼
//
// actor 為空 ID 表示自助操作或系統操作（註冊、自動停用）。
// 日誌只寫不讀：任何業務判斷都不得依賴日誌內容。
type Entry struct {
	id          EntryID
	subjectID   member.MemberID
	actorID     member.MemberID
	action      Action
	description string
	occurredAt  time.Time
}

// NewEntry 創建日誌；description 為空時使用 action 標籤
func NewEntry(subjectID, actorID member.MemberID, action Action, description string, occurredAt time.Time) (*Entry, error) {
	if subjectID.IsEmpty() {
		return nil, ErrInvalidEntry.WithContext("reason", "subject is required", "action", action.String())
	}
	if action == "" {
		return nil, ErrInvalidEntry.WithContext("reason", "action is required")
	}
	if description == "" {
		description = action.String()
	}

	return &Entry{
		id:          shared.NewEntityID[EntryMarker](),
		subjectID:   subjectID,
		actorID:     actorID,
		action:      action,
		description: description,
		occurredAt:  occurredAt,
	}, nil
}

// ReconstructEntry 從資料庫重建
func ReconstructEntry(id EntryID, subjectID, actorID member.MemberID, action Action, description string, occurredAt time.Time) *Entry {
	return &Entry{
		id:          id,
		subjectID:   subjectID,
		actorID:     actorID,
		action:      action,
		description: description,
		occurredAt:  occurredAt,
	}
}

func (e *Entry) ID() EntryID                { return e.id }
func (e *Entry) SubjectID() member.MemberID { return e.subjectID }
func (e *Entry) ActorID() member.MemberID   { return e.actorID }
func (e *Entry) HasActor() bool             { return !e.actorID.IsEmpty() }
func (e *Entry) Action() Action             { return e.action }
func (e *Entry) Description() string        { return e.description }
func (e *Entry) OccurredAt() time.Time      { return e.occurredAt }

// ===========================
// CheckInLog
// ===========================

// CheckInLog 入場紀錄（每次放行一筆）
type CheckInLog struct {
	id          CheckInLogID
	memberID    member.MemberID
	staffID     member.MemberID
	checkedInAt time.Time
}

// NewCheckInLog 創建入場紀錄
func NewCheckInLog(memberID, staffID member.MemberID, checkedInAt time.Time) *CheckInLog {
	return &CheckInLog{
		id:          shared.NewEntityID[CheckInLogMarker](),
		memberID:    memberID,
		staffID:     staffID,
		checkedInAt: checkedInAt,
	}
}

// ReconstructCheckInLog 從資料庫重建
func ReconstructCheckInLog(id CheckInLogID, memberID, staffID member.MemberID, checkedInAt time.Time) *CheckInLog {
	return &CheckInLog{id: id, memberID: memberID, staffID: staffID, checkedInAt: checkedInAt}
}

func (l *CheckInLog) ID() CheckInLogID          { return l.id }
func (l *CheckInLog) MemberID() member.MemberID { return l.memberID }
func (l *CheckInLog) StaffID() member.MemberID  { return l.staffID }
func (l *CheckInLog) CheckedInAt() time.Time    { return l.checkedInAt }
