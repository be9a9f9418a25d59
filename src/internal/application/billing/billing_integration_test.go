package billing_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	appbilling "github.com/jackyeh168/gym_crm/src/internal/application/billing"
	"github.com/jackyeh168/gym_crm/src/internal/application/membership"
	"github.com/jackyeh168/gym_crm/src/internal/application/mocks"
	"github.com/jackyeh168/gym_crm/src/internal/domain/audit"
	"github.com/jackyeh168/gym_crm/src/internal/domain/billing"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/lock"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/persistence"
	auditrepo "github.com/jackyeh168/gym_crm/src/internal/infrastructure/persistence/audit"
	billingrepo "github.com/jackyeh168/gym_crm/src/internal/infrastructure/persistence/billing"
	memberrepo "github.com/jackyeh168/gym_crm/src/internal/infrastructure/persistence/member"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/persistence/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var integrationNow = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

type billingFixture struct {
	memberRepo      member.MemberRepository
	transactionRepo billing.TransactionRepository
	auditRepo       audit.EntryRepository
	activation      appbilling.SetActivationUseCase
	transactions    appbilling.ListMemberTransactionsUseCase
	staff           member.Actor
}

// setupBilling intn 依序返回 sequence 中的值
func setupBilling(t *testing.T, sequence ...int) *billingFixture {
	t.Helper()
	db := persistence.OpenTestDB(t, schema.Models()...)
	clock := mocks.FixedClock(integrationNow)

	next := 0
	intn := func(int) int {
		v := sequence[next%len(sequence)]
		next++
		return v
	}

	f := &billingFixture{
		memberRepo:      memberrepo.NewMemberRepository(db),
		transactionRepo: billingrepo.NewTransactionRepository(db),
		auditRepo:       auditrepo.NewEntryRepository(db),
		staff:           member.Actor{ID: member.NewMemberID(), Role: member.RoleStaff},
	}
	f.activation = appbilling.NewSetActivationUseCase(appbilling.SetActivationDeps{
		MemberRepo:        f.memberRepo,
		TransactionRepo:   f.transactionRepo,
		AuditRepo:         f.auditRepo,
		Records:           membership.NewRecordManager(f.memberRepo, clock),
		References:        billing.NewReferenceGenerator(intn),
		TxManager:         persistence.NewGORMTransactionManager(db),
		Locker:            lock.NewLocker(),
		Publisher:         shared.NopEventPublisher{},
		Clock:             clock,
		Logger:            slog.New(slog.DiscardHandler),
		ReferenceAttempts: 3,
		Currency:          "₱",
	})
	f.transactions = appbilling.NewListMemberTransactionsUseCase(f.memberRepo, f.transactionRepo)
	return f
}

func (f *billingFixture) saveMember(t *testing.T, username string) *member.Member {
	t.Helper()
	u, err := member.NewUsername(username)
	require.NoError(t, err)
	m, err := member.NewMember(u, member.Email{}, "hash", member.RoleMember, integrationNow)
	require.NoError(t, err)
	require.NoError(t, f.memberRepo.Save(nil, m))
	return m
}

func (f *billingFixture) activate(t *testing.T, m *member.Member, months int, amount string) (*appbilling.SetActivationResult, error) {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d := decimal.RequireFromString(amount)
	return f.activation.Execute(context.Background(), appbilling.SetActivationCommand{
		Actor:          f.staff,
		MemberID:       m.MemberID().String(),
		Activated:      true,
		DurationMonths: &months,
		StartTime:      &start,
		Amount:         &d,
		PaymentMethod:  "cash",
	})
}

// Test 1: 2024-01-01 起 3 個月、800 元現金
func TestSetActivation_Integration_ThreeMonths(t *testing.T) {
	// Arrange
	f := setupBilling(t, 7)
	m := f.saveMember(t, "pedro")

	// Act
	result, err := f.activate(t, m, 3, "800")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "MEM-2024-01-0007", result.Transaction.Reference)

	reloaded, err := f.memberRepo.FindByMemberID(nil, m.MemberID())
	require.NoError(t, err)
	assert.True(t, reloaded.Activated())
	assert.True(t, reloaded.Window().Expiry().Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))

	transactions, err := f.transactionRepo.FindByMemberID(nil, m.MemberID())
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, 3, transactions[0].DurationMonths())
	assert.Equal(t, "800.00", transactions[0].Amount().String())
	assert.Equal(t, billing.PaymentCash, transactions[0].PaymentMethod())

	entries, _, err := f.auditRepo.Find(nil, audit.LogFilter{Page: shared.NewPage(1, 10)})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Description(), "expires: 2024-04-01")
	assert.Contains(t, entries[0].Description(), "amount: ₱800.00")
}

// Test 2: reference 與既有交易衝突 → savepoint 回滾後重試成功
func TestSetActivation_Integration_ReferenceCollision(t *testing.T) {
	f := setupBilling(t, 1, 1, 2)
	first := f.saveMember(t, "ana")
	second := f.saveMember(t, "ben")

	_, err := f.activate(t, first, 1, "500")
	require.NoError(t, err)

	result, err := f.activate(t, second, 1, "500")

	require.NoError(t, err)
	assert.Equal(t, "MEM-2024-01-0002", result.Transaction.Reference)
}

// Test 3: reference 全部衝突 → 會員維持未開通，沒有多餘交易
func TestSetActivation_Integration_ReferenceExhausted(t *testing.T) {
	f := setupBilling(t, 9)
	first := f.saveMember(t, "carla")
	second := f.saveMember(t, "dino")

	_, err := f.activate(t, first, 1, "500")
	require.NoError(t, err)

	_, err = f.activate(t, second, 1, "500")

	assert.ErrorIs(t, err, billing.ErrReferenceGeneration)
	reloaded, err := f.memberRepo.FindByMemberID(nil, second.MemberID())
	require.NoError(t, err)
	assert.False(t, reloaded.Activated())
	transactions, err := f.transactionRepo.FindByMemberID(nil, second.MemberID())
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

// Test 4: 金額為 0 → 驗證錯誤，會員原狀態不變
func TestSetActivation_Integration_ZeroAmountKeepsState(t *testing.T) {
	f := setupBilling(t, 3)
	m := f.saveMember(t, "elle")
	_, err := f.activate(t, m, 2, "600")
	require.NoError(t, err)

	_, err = f.activate(t, m, 6, "0")

	assert.ErrorIs(t, err, shared.ErrValidation)
	reloaded, err := f.memberRepo.FindByMemberID(nil, m.MemberID())
	require.NoError(t, err)
	assert.True(t, reloaded.Window().Expiry().Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

// Test 5: 會員查詢自己的付款紀錄與統計
func TestListMemberTransactions_Integration(t *testing.T) {
	f := setupBilling(t, 11, 12)
	m := f.saveMember(t, "fred")
	_, err := f.activate(t, m, 1, "500")
	require.NoError(t, err)
	_, err = f.activate(t, m, 3, "1350.50")
	require.NoError(t, err)

	result, err := f.transactions.Execute(context.Background(), appbilling.ListMemberTransactionsQuery{
		Actor: member.Actor{ID: m.MemberID(), Role: member.RoleMember},
	})

	require.NoError(t, err)
	assert.Len(t, result.Transactions, 2)
	assert.Equal(t, "1850.50", result.TotalSpent)
	assert.Equal(t, 2, result.TotalPayments)
}

// Test 6: 會員不能查詢他人
func TestListMemberTransactions_Integration_OtherMemberForbidden(t *testing.T) {
	f := setupBilling(t, 1)
	m := f.saveMember(t, "gina")

	_, err := f.transactions.Execute(context.Background(), appbilling.ListMemberTransactionsQuery{
		Actor:    member.Actor{ID: member.NewMemberID(), Role: member.RoleMember},
		MemberID: m.MemberID().String(),
	})

	assert.ErrorIs(t, err, member.ErrForbidden)
}
