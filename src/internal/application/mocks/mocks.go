// Package mocks 提供 Application Layer 單元測試共用的 testify mock。
package mocks

import (
	"context"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/audit"
	"github.com/jackyeh168/gym_crm/src/internal/domain/billing"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/service"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// ===========================
// Repositories
// ===========================

// MockMemberRepository mock implementation of MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Save(tx shared.TransactionContext, mem *member.Member) error {
	args := m.Called(tx, mem)
	return args.Error(0)
}

func (m *MockMemberRepository) FindByMemberID(tx shared.TransactionContext, id member.MemberID) (*member.Member, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepository) FindByUsername(tx shared.TransactionContext, username member.Username) (*member.Member, error) {
	args := m.Called(tx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepository) ExistsByUsername(tx shared.TransactionContext, username member.Username, exclude member.MemberID) (bool, error) {
	args := m.Called(tx, username, exclude)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) ExistsByEmail(tx shared.TransactionContext, email member.Email, exclude member.MemberID) (bool, error) {
	args := m.Called(tx, email, exclude)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) DeactivateIfActive(tx shared.TransactionContext, id member.MemberID, now time.Time) (bool, error) {
	args := m.Called(tx, id, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) AdmitIfValid(tx shared.TransactionContext, id member.MemberID, now time.Time) (bool, error) {
	args := m.Called(tx, id, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) IncrementScanCount(tx shared.TransactionContext, staffID member.MemberID, now time.Time) error {
	args := m.Called(tx, staffID, now)
	return args.Error(0)
}

func (m *MockMemberRepository) Delete(tx shared.TransactionContext, id member.MemberID) error {
	args := m.Called(tx, id)
	return args.Error(0)
}

func (m *MockMemberRepository) List(tx shared.TransactionContext, filter member.ListFilter) ([]*member.Member, int64, error) {
	args := m.Called(tx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*member.Member), args.Get(1).(int64), args.Error(2)
}

func (m *MockMemberRepository) FindIDsByUsernameLike(tx shared.TransactionContext, term string) ([]member.MemberID, error) {
	args := m.Called(tx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]member.MemberID), args.Error(1)
}

func (m *MockMemberRepository) FindNeedingDeactivation(tx shared.TransactionContext, now time.Time, limit int) ([]*member.Member, error) {
	args := m.Called(tx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*member.Member), args.Error(1)
}

func (m *MockMemberRepository) CountByRole(tx shared.TransactionContext, role member.Role) (int64, error) {
	args := m.Called(tx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) CountActive(tx shared.TransactionContext, now time.Time) (int64, error) {
	args := m.Called(tx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) CountCreatedSince(tx shared.TransactionContext, role member.Role, since time.Time) (int64, error) {
	args := m.Called(tx, role, since)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionRepository mock implementation of billing.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Save(tx shared.TransactionContext, t *billing.Transaction) error {
	args := m.Called(tx, t)
	return args.Error(0)
}

func (m *MockTransactionRepository) MarkVoid(tx shared.TransactionContext, id billing.TransactionID, reason string) error {
	args := m.Called(tx, id, reason)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByID(tx shared.TransactionContext, id billing.TransactionID) (*billing.Transaction, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByMemberID(tx shared.TransactionContext, memberID member.MemberID) ([]*billing.Transaction, error) {
	args := m.Called(tx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Transaction), args.Error(1)
}

// MockEntryRepository mock implementation of audit.EntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Append(tx shared.TransactionContext, entry *audit.Entry) error {
	args := m.Called(tx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) Find(tx shared.TransactionContext, filter audit.LogFilter) ([]*audit.Entry, int64, error) {
	args := m.Called(tx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*audit.Entry), args.Get(1).(int64), args.Error(2)
}

// MockCheckInLogRepository mock implementation of audit.CheckInLogRepository
type MockCheckInLogRepository struct {
	mock.Mock
}

func (m *MockCheckInLogRepository) Append(tx shared.TransactionContext, log *audit.CheckInLog) error {
	args := m.Called(tx, log)
	return args.Error(0)
}

func (m *MockCheckInLogRepository) Find(tx shared.TransactionContext, filter audit.LogFilter) ([]*audit.CheckInLog, int64, error) {
	args := m.Called(tx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*audit.CheckInLog), args.Get(1).(int64), args.Error(2)
}

// ===========================
// Transaction / Events
// ===========================

// MockTransactionManager 直接以 nil context 執行 fn
//
// RollbackFails 為 true 時模擬回滾失敗：fn 返回錯誤時改回傳 ErrRollbackFailed（Wrap 原錯誤）。
type MockTransactionManager struct {
	RollbackFails bool
	Calls         int
}

func (m *MockTransactionManager) InTransaction(_ context.Context, fn func(tx shared.TransactionContext) error) error {
	m.Calls++
	err := fn(nil)
	if err != nil && m.RollbackFails {
		return shared.ErrRollbackFailed.Wrap(err)
	}
	return err
}

// MockEventPublisher 記錄已發布的事件
type MockEventPublisher struct {
	Events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(event shared.DomainEvent) error {
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockEventPublisher) PublishBatch(events []shared.DomainEvent) error {
	m.Events = append(m.Events, events...)
	return nil
}

// Types 已發布事件的類型
func (m *MockEventPublisher) Types() []string {
	types := make([]string, 0, len(m.Events))
	for _, e := range m.Events {
		types = append(types, e.EventType())
	}
	return types
}

// ===========================
// Domain Services
// ===========================

// MockPasswordHasher mock implementation of PasswordHasher
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	args := m.Called(password, hash)
	return args.Bool(0)
}

// MockTokenService mock implementation of TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(memberID member.MemberID, role member.Role) (string, time.Time, error) {
	args := m.Called(memberID, role)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenService) ValidateAccessToken(token string) (*service.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

// MockQRCodeService mock implementation of QRCodeService
type MockQRCodeService struct {
	mock.Mock
}

func (m *MockQRCodeService) Token(payload service.QRPayload) (string, error) {
	args := m.Called(payload)
	return args.String(0), args.Error(1)
}

func (m *MockQRCodeService) Render(token string) ([]byte, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockQRCodeService) Decode(scanned string) (service.QRPayload, error) {
	args := m.Called(scanned)
	return args.Get(0).(service.QRPayload), args.Error(1)
}

// ===========================
// Others
// ===========================

// NopLocker 不加鎖（單執行緒測試）
type NopLocker struct{}

func (NopLocker) Lock(string) func() { return func() {} }

// FixedClock 固定時間
func FixedClock(t time.Time) shared.Clock {
	return shared.ClockFunc(func() time.Time { return t })
}
