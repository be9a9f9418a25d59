package member

import (
	"time"

	"github.com/google/uuid"
)

// 事件類型
const (
	EventTypeCheckInAdmitted           = "checkin.admitted"
	EventTypeMembershipActivated       = "membership.activated"
	EventTypeMembershipDeactivated     = "membership.deactivated"
	EventTypeMembershipAutoDeactivated = "membership.auto_deactivated"
)

// DeactivationReason 停用原因
type DeactivationReason string

const (
	ReasonManual          DeactivationReason = "manual"
	ReasonExpired         DeactivationReason = "expired"
	ReasonMissingDuration DeactivationReason = "missing_duration"
)

// ===========================
// CheckInAdmitted 領域事件
// ===========================

// CheckInAdmittedEvent 會員掃碼入場成功
type CheckInAdmittedEvent struct {
	eventID    string
	memberID   MemberID
	staffID    MemberID
	username   string
	occurredAt time.Time
}

// NewCheckInAdmittedEvent 創建入場事件
func NewCheckInAdmittedEvent(memberID, staffID MemberID, username string, occurredAt time.Time) *CheckInAdmittedEvent {
	return &CheckInAdmittedEvent{
		eventID:    uuid.New().String(),
		memberID:   memberID,
		staffID:    staffID,
		username:   username,
		occurredAt: occurredAt,
	}
}

func (e *CheckInAdmittedEvent) EventID() string       { return e.eventID }
func (e *CheckInAdmittedEvent) EventType() string     { return EventTypeCheckInAdmitted }
func (e *CheckInAdmittedEvent) OccurredAt() time.Time { return e.occurredAt }
func (e *CheckInAdmittedEvent) AggregateID() string   { return e.memberID.String() }

// Payload 對外廣播的欄位
func (e *CheckInAdmittedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"memberId": e.memberID.String(),
		"staffId":  e.staffID.String(),
		"username": e.username,
	}
}

// ===========================
// MembershipActivated 領域事件
// ===========================

// MembershipActivatedEvent 會籍開通
type MembershipActivatedEvent struct {
	eventID    string
	memberID   MemberID
	staffID    MemberID
	expiry     time.Time
	occurredAt time.Time
}

// NewMembershipActivatedEvent 創建開通事件
func NewMembershipActivatedEvent(memberID, staffID MemberID, expiry, occurredAt time.Time) *MembershipActivatedEvent {
	return &MembershipActivatedEvent{
		eventID:    uuid.New().String(),
		memberID:   memberID,
		staffID:    staffID,
		expiry:     expiry,
		occurredAt: occurredAt,
	}
}

func (e *MembershipActivatedEvent) EventID() string       { return e.eventID }
func (e *MembershipActivatedEvent) EventType() string     { return EventTypeMembershipActivated }
func (e *MembershipActivatedEvent) OccurredAt() time.Time { return e.occurredAt }
func (e *MembershipActivatedEvent) AggregateID() string   { return e.memberID.String() }

// Expiry 到期時間
func (e *MembershipActivatedEvent) Expiry() time.Time { return e.expiry }

// Payload 對外廣播的欄位
func (e *MembershipActivatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"memberId": e.memberID.String(),
		"staffId":  e.staffID.String(),
		"expiry":   e.expiry,
	}
}

// ===========================
// MembershipDeactivated 領域事件
// ===========================

// MembershipDeactivatedEvent 會籍停用；reason 非 manual 時為自動校正
type MembershipDeactivatedEvent struct {
	eventID    string
	memberID   MemberID
	reason     DeactivationReason
	occurredAt time.Time
}

// NewMembershipDeactivatedEvent 創建停用事件
func NewMembershipDeactivatedEvent(memberID MemberID, reason DeactivationReason, occurredAt time.Time) *MembershipDeactivatedEvent {
	return &MembershipDeactivatedEvent{
		eventID:    uuid.New().String(),
		memberID:   memberID,
		reason:     reason,
		occurredAt: occurredAt,
	}
}

func (e *MembershipDeactivatedEvent) EventID() string       { return e.eventID }
func (e *MembershipDeactivatedEvent) OccurredAt() time.Time { return e.occurredAt }
func (e *MembershipDeactivatedEvent) AggregateID() string   { return e.memberID.String() }

// EventType 自動校正與人工停用使用不同類型
func (e *MembershipDeactivatedEvent) EventType() string {
	if e.reason == ReasonManual {
		return EventTypeMembershipDeactivated
	}
	return EventTypeMembershipAutoDeactivated
}

// Reason 停用原因
func (e *MembershipDeactivatedEvent) Reason() DeactivationReason { return e.reason }

// Payload 對外廣播的欄位
func (e *MembershipDeactivatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"memberId": e.memberID.String(),
		"reason":   string(e.reason),
	}
}
