package checkin

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/application/membership"
	"github.com/jackyeh168/gym_crm/src/internal/application/mocks"
	"github.com/jackyeh168/gym_crm/src/internal/domain/audit"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/service"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var scanTime = time.Date(2025, 5, 10, 18, 30, 0, 0, time.UTC)

type scanFixture struct {
	memberRepo  *mocks.MockMemberRepository
	auditRepo   *mocks.MockEntryRepository
	checkInRepo *mocks.MockCheckInLogRepository
	qr          *mocks.MockQRCodeService
	publisher   *mocks.MockEventPublisher
	staff       member.Actor
	useCase     ProcessScanUseCase
}

func setupScan() *scanFixture {
	f := &scanFixture{
		memberRepo:  new(mocks.MockMemberRepository),
		auditRepo:   new(mocks.MockEntryRepository),
		checkInRepo: new(mocks.MockCheckInLogRepository),
		qr:          new(mocks.MockQRCodeService),
		publisher:   &mocks.MockEventPublisher{},
		staff:       member.Actor{ID: member.NewMemberID(), Role: member.RoleStaff},
	}
	clock := mocks.FixedClock(scanTime)
	f.useCase = NewProcessScanUseCase(ProcessScanDeps{
		MemberRepo:  f.memberRepo,
		AuditRepo:   f.auditRepo,
		CheckInRepo: f.checkInRepo,
		Records:     membership.NewRecordManager(f.memberRepo, clock),
		QRCode:      f.qr,
		TxManager:   &mocks.MockTransactionManager{},
		Locker:      mocks.NopLocker{},
		Publisher:   f.publisher,
		Clock:       clock,
		Logger:      slog.New(slog.DiscardHandler),
	})
	return f
}

// reconstruct 建立指定會籍狀態的會員
func reconstruct(t *testing.T, role member.Role, activated bool, start, expiry *time.Time) *member.Member {
	t.Helper()
	u, err := member.NewUsername("juan")
	require.NoError(t, err)
	e, err := member.NewEmail("juan@example.com")
	require.NoError(t, err)
	m, err := member.ReconstructMember(member.MemberSnapshot{
		MemberID:     member.NewMemberID(),
		Username:     u,
		Email:        e,
		PasswordHash: "hash",
		Role:         role,
		Activated:    activated,
		StartTime:    start,
		Expiry:       expiry,
		QRToken:      "token",
		CreatedAt:    scanTime.AddDate(0, -3, 0),
		UpdatedAt:    scanTime.AddDate(0, -3, 0),
		Version:      1,
	})
	require.NoError(t, err)
	return m
}

func ptr(t time.Time) *time.Time { return &t }

// Test 1: 有效會員放行
func TestProcessScan_ValidAdmit(t *testing.T) {
	// Arrange
	f := setupScan()
	m := reconstruct(t, member.RoleMember, true, ptr(scanTime.AddDate(0, -1, 0)), ptr(scanTime.AddDate(0, 1, 0)))

	f.memberRepo.On("FindByMemberID", nil, m.MemberID()).Return(m, nil)
	f.memberRepo.On("AdmitIfValid", nil, m.MemberID(), scanTime).Return(true, nil)
	f.memberRepo.On("IncrementScanCount", nil, f.staff.ID, scanTime).Return(nil)
	f.checkInRepo.On("Append", nil, mock.MatchedBy(func(l *audit.CheckInLog) bool {
		return l.MemberID().Equals(m.MemberID()) && l.StaffID().Equals(f.staff.ID)
	})).Return(nil)
	f.auditRepo.On("Append", nil, mock.MatchedBy(func(e *audit.Entry) bool {
		return e.Action() == audit.ActionScannedQR && e.ActorID().Equals(f.staff.ID)
	})).Return(nil)

	// Act
	result, err := f.useCase.Execute(context.Background(), ProcessScanCommand{
		Actor:    f.staff,
		MemberID: m.MemberID().String(),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, OutcomeValidAdmit, result.Outcome)
	assert.True(t, result.Success())
	require.NotNil(t, result.Member)
	assert.Equal(t, "juan", result.Member.Username)
	assert.Equal(t, "juan@example.com", result.Member.Email)
	assert.Equal(t, []string{member.EventTypeCheckInAdmitted}, f.publisher.Types())
	f.memberRepo.AssertExpectations(t)
	f.checkInRepo.AssertExpectations(t)
	f.auditRepo.AssertExpectations(t)
}

// Test 2: QR 內容無法解析時不讀取會員、不寫日誌
func TestProcessScan_MalformedToken(t *testing.T) {
	f := setupScan()
	f.qr.On("Decode", "garbage").Return(service.QRPayload{}, service.ErrMalformedToken)

	result, err := f.useCase.Execute(context.Background(), ProcessScanCommand{Actor: f.staff, Token: "garbage"})

	require.NoError(t, err)
	assert.Equal(t, OutcomeMalformedToken, result.Outcome)
	assert.False(t, result.Success())
	assert.Contains(t, result.Message, "malformed")
	f.memberRepo.AssertNotCalled(t, "FindByMemberID", mock.Anything, mock.Anything)
	f.auditRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

// Test 3: 直接提供的 id 不是 UUID
func TestProcessScan_MalformedMemberID(t *testing.T) {
	f := setupScan()

	result, err := f.useCase.Execute(context.Background(), ProcessScanCommand{Actor: f.staff, MemberID: "not-an-id"})

	require.NoError(t, err)
	assert.Equal(t, OutcomeMalformedToken, result.Outcome)
	f.memberRepo.AssertNotCalled(t, "FindByMemberID", mock.Anything, mock.Anything)
}

// Test 4: 會員不存在
func TestProcessScan_NoMember(t *testing.T) {
	f := setupScan()
	id := member.NewMemberID()
	f.qr.On("Decode", "qr").Return(service.QRPayload{ID: id.String()}, nil)
	f.memberRepo.On("FindByMemberID", nil, id).Return(nil, member.ErrMemberNotFound)

	result, err := f.useCase.Execute(context.Background(), ProcessScanCommand{Actor: f.staff, Token: "qr"})

	require.NoError(t, err)
	assert.Equal(t, OutcomeNoMember, result.Outcome)
	f.auditRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	assert.Empty(t, f.publisher.Events)
}

// Test 5: 掃到 staff 的 QR 視為不存在的會員
func TestProcessScan_StaffTargetIsNoMember(t *testing.T) {
	f := setupScan()
	staff := reconstruct(t, member.RoleStaff, false, nil, nil)
	f.memberRepo.On("FindByMemberID", nil, staff.MemberID()).Return(staff, nil)

	result, err := f.useCase.Execute(context.Background(), ProcessScanCommand{Actor: f.staff, MemberID: staff.MemberID().String()})

	require.NoError(t, err)
	assert.Equal(t, OutcomeNoMember, result.Outcome)
}

// Test 6: 未開通
func TestProcessScan_Inactive(t *testing.T) {
	f := setupScan()
	m := reconstruct(t, member.RoleMember, false, nil, nil)
	f.memberRepo.On("FindByMemberID", nil, m.MemberID()).Return(m, nil)

	result, err := f.useCase.Execute(context.Background(), ProcessScanCommand{Actor: f.staff, MemberID: m.MemberID().String()})

	require.NoError(t, err)
	assert.Equal(t, OutcomeInactive, result.Outcome)
	f.memberRepo.AssertNotCalled(t, "DeactivateIfActive", mock.Anything, mock.Anything, mock.Anything)
	f.auditRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

// Test 7: 開通但缺少 expiry → 停用並記錄異常
func TestProcessScan_MissingExpiryAutocorrect(t *testing.T) {
	f := setupScan()
	m := reconstruct(t, member.RoleMember, true, nil, nil)
	require.True(t, m.HasMissingExpiry())

	f.memberRepo.On("FindByMemberID", nil, m.MemberID()).Return(m, nil)
	f.memberRepo.On("DeactivateIfActive", nil, m.MemberID(), scanTime).Return(true, nil)
	f.auditRepo.On("Append", nil, mock.MatchedBy(func(e *audit.Entry) bool {
		return e.Action() == audit.ActionMissingDuration && e.SubjectID().Equals(m.MemberID())
	})).Return(nil)

	result, err := f.useCase.Execute(context.Background(), ProcessScanCommand{Actor: f.staff, MemberID: m.MemberID().String()})

	require.NoError(t, err)
	assert.Equal(t, OutcomeExpiredAutocorrect, result.Outcome)
	assert.Equal(t, MessageMissingDuration, result.Message)
	assert.Equal(t, []string{member.EventTypeMembershipAutoDeactivated}, f.publisher.Types())
	f.memberRepo.AssertNotCalled(t, "AdmitIfValid", mock.Anything, mock.Anything, mock.Anything)
	f.auditRepo.AssertExpectations(t)
}

// Test 8: 已過期 → 停用
func TestProcessScan_ExpiredAutocorrect(t *testing.T) {
	f := setupScan()
	m := reconstruct(t, member.RoleMember, true, ptr(scanTime.AddDate(0, -2, 0)), ptr(scanTime.Add(-time.Second)))

	f.memberRepo.On("FindByMemberID", nil, m.MemberID()).Return(m, nil)
	f.memberRepo.On("DeactivateIfActive", nil, m.MemberID(), scanTime).Return(true, nil)
	f.auditRepo.On("Append", nil, mock.MatchedBy(func(e *audit.Entry) bool {
		return e.Action() == audit.ActionMembershipExpired
	})).Return(nil)

	result, err := f.useCase.Execute(context.Background(), ProcessScanCommand{Actor: f.staff, MemberID: m.MemberID().String()})

	require.NoError(t, err)
	assert.Equal(t, OutcomeExpiredAutocorrect, result.Outcome)
	assert.Contains(t, result.Message, "expired")
	f.checkInRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

// Test 9: 到期當下仍放行
func TestProcessScan_ExpiryEqualsNowAdmits(t *testing.T) {
	f := setupScan()
	m := reconstruct(t, member.RoleMember, true, ptr(scanTime.AddDate(0, -1, 0)), ptr(scanTime))

	f.memberRepo.On("FindByMemberID", nil, m.MemberID()).Return(m, nil)
	f.memberRepo.On("AdmitIfValid", nil, m.MemberID(), scanTime).Return(true, nil)
	f.memberRepo.On("IncrementScanCount", nil, f.staff.ID, scanTime).Return(nil)
	f.checkInRepo.On("Append", nil, mock.Anything).Return(nil)
	f.auditRepo.On("Append", nil, mock.Anything).Return(nil)

	result, err := f.useCase.Execute(context.Background(), ProcessScanCommand{Actor: f.staff, MemberID: m.MemberID().String()})

	require.NoError(t, err)
	assert.Equal(t, OutcomeValidAdmit, result.Outcome)
}

// Test 10: 同一時刻已入場過一次 → 掃碼時間往後推，到期會員被停用
func TestProcessScan_SameInstantRescanAfterExpiry(t *testing.T) {
	f := setupScan()
	last := scanTime
	m, err := member.ReconstructMember(member.MemberSnapshot{
		MemberID:      member.NewMemberID(),
		Username:      reconstruct(t, member.RoleMember, false, nil, nil).Username(),
		PasswordHash:  "hash",
		Role:          member.RoleMember,
		Activated:     true,
		StartTime:     ptr(scanTime.AddDate(0, -1, 0)),
		Expiry:        ptr(scanTime),
		LastCheckInAt: &last,
	})
	require.NoError(t, err)

	f.memberRepo.On("FindByMemberID", nil, m.MemberID()).Return(m, nil)
	f.memberRepo.On("DeactivateIfActive", nil, m.MemberID(), scanTime).Return(true, nil)
	f.auditRepo.On("Append", nil, mock.Anything).Return(nil)

	result, err := f.useCase.Execute(context.Background(), ProcessScanCommand{Actor: f.staff, MemberID: m.MemberID().String()})

	require.NoError(t, err)
	assert.Equal(t, OutcomeExpiredAutocorrect, result.Outcome)
	f.memberRepo.AssertNotCalled(t, "AdmitIfValid", mock.Anything, mock.Anything, mock.Anything)
}

// Test 11: 條件更新未命中且會籍已被停用 → 不放行
func TestProcessScan_ConditionalAdmitMiss(t *testing.T) {
	f := setupScan()
	m := reconstruct(t, member.RoleMember, true, ptr(scanTime.AddDate(0, -1, 0)), ptr(scanTime.AddDate(0, 1, 0)))
	deactivated := reconstruct(t, member.RoleMember, false, nil, nil)

	f.memberRepo.On("FindByMemberID", nil, m.MemberID()).Return(m, nil).Once()
	f.memberRepo.On("FindByMemberID", nil, m.MemberID()).Return(deactivated, nil).Once()
	f.memberRepo.On("AdmitIfValid", nil, m.MemberID(), scanTime).Return(false, nil)

	result, err := f.useCase.Execute(context.Background(), ProcessScanCommand{Actor: f.staff, MemberID: m.MemberID().String()})

	require.NoError(t, err)
	assert.Equal(t, OutcomeInactive, result.Outcome)
	f.checkInRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	assert.Empty(t, f.publisher.Events)
}

// Test 12: 寫入失敗 → PersistenceError，不返回結果
func TestProcessScan_StorageFailure(t *testing.T) {
	f := setupScan()
	m := reconstruct(t, member.RoleMember, true, ptr(scanTime.AddDate(0, -1, 0)), ptr(scanTime.AddDate(0, 1, 0)))
	dbErr := audit.ErrRepositoryError.Wrap(errors.New("disk I/O error"))

	f.memberRepo.On("FindByMemberID", nil, m.MemberID()).Return(m, nil)
	f.memberRepo.On("AdmitIfValid", nil, m.MemberID(), scanTime).Return(true, nil)
	f.memberRepo.On("IncrementScanCount", nil, f.staff.ID, scanTime).Return(nil)
	f.checkInRepo.On("Append", nil, mock.Anything).Return(dbErr)

	result, err := f.useCase.Execute(context.Background(), ProcessScanCommand{Actor: f.staff, MemberID: m.MemberID().String()})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrPersistence)
	assert.Empty(t, f.publisher.Events)
}

// Test 13: 只有 staff 能掃碼，member 與 admin 都被拒絕
func TestProcessScan_Forbidden(t *testing.T) {
	for _, role := range []member.Role{member.RoleMember, member.RoleAdmin} {
		t.Run(string(role), func(t *testing.T) {
			f := setupScan()

			_, err := f.useCase.Execute(context.Background(), ProcessScanCommand{
				Actor:    member.Actor{ID: member.NewMemberID(), Role: role},
				MemberID: member.NewMemberID().String(),
			})

			assert.ErrorIs(t, err, member.ErrForbidden)
			f.memberRepo.AssertNotCalled(t, "FindByMemberID", mock.Anything, mock.Anything)
			f.memberRepo.AssertNotCalled(t, "AdmitIfValid", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

// Test 14: staff 計數累加失敗時整次掃碼失敗
func TestProcessScan_ScanCounterFailureAbortsAdmit(t *testing.T) {
	f := setupScan()
	m := reconstruct(t, member.RoleMember, true, ptr(scanTime.AddDate(0, -1, 0)), ptr(scanTime.AddDate(0, 1, 0)))

	f.memberRepo.On("FindByMemberID", nil, m.MemberID()).Return(m, nil)
	f.memberRepo.On("AdmitIfValid", nil, m.MemberID(), scanTime).Return(true, nil)
	f.memberRepo.On("IncrementScanCount", nil, f.staff.ID, scanTime).Return(member.ErrMemberNotFound)

	result, err := f.useCase.Execute(context.Background(), ProcessScanCommand{Actor: f.staff, MemberID: m.MemberID().String()})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, member.ErrMemberNotFound)
	f.checkInRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	assert.Empty(t, f.publisher.Events)
}

// Test 15: 另一個程序在同一時間點已放行 → Conflict，不重複記錄入場
func TestProcessScan_ConcurrentAdmitConflict(t *testing.T) {
	f := setupScan()
	m := reconstruct(t, member.RoleMember, true, ptr(scanTime.AddDate(0, -1, 0)), ptr(scanTime.AddDate(0, 1, 0)))

	f.memberRepo.On("FindByMemberID", nil, m.MemberID()).Return(m, nil)
	f.memberRepo.On("AdmitIfValid", nil, m.MemberID(), scanTime).Return(false, nil)

	result, err := f.useCase.Execute(context.Background(), ProcessScanCommand{Actor: f.staff, MemberID: m.MemberID().String()})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, member.ErrConcurrentCheckIn)
	assert.ErrorIs(t, err, shared.ErrConflict)
	f.memberRepo.AssertNotCalled(t, "IncrementScanCount", mock.Anything, mock.Anything, mock.Anything)
	f.checkInRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	assert.Empty(t, f.publisher.Events)
}
