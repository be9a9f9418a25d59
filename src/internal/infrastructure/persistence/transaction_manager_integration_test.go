package persistence_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/billing"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/persistence"
	billingrepo "github.com/jackyeh168/gym_crm/src/internal/infrastructure/persistence/billing"
	memberrepo "github.com/jackyeh168/gym_crm/src/internal/infrastructure/persistence/member"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ===========================
// TransactionManager Integration Tests
// ===========================
//
// 這些測試驗證 TransactionManager 的核心保證：
// 1. 事務隔離：錯誤時回滾，成功時提交
// 2. Panic 處理：panic 時自動回滾
// 3. 多操作原子性：帳號與交易在同一事務中成功或失敗
// 4. 回滾失敗：以 ErrRollbackFailed 回報（PartialFailure）

var now = time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	return persistence.OpenTestDB(t, &memberrepo.MemberGORM{}, &billingrepo.TransactionGORM{})
}

func newTestMember(t *testing.T, name string) *member.Member {
	username, err := member.NewUsername(name)
	require.NoError(t, err)
	m, err := member.NewMember(username, member.Email{}, "hash", member.RoleMember, now)
	require.NoError(t, err)
	return m
}

func newTestTransaction(t *testing.T, m *member.Member, reference string) *billing.Transaction {
	window, err := member.NewValidityWindowForMonths(now, 1)
	require.NoError(t, err)
	amount, err := billing.NewAmount(decimal.NewFromInt(1000))
	require.NoError(t, err)
	ref, err := billing.ParseReference(reference)
	require.NoError(t, err)

	tr, err := billing.NewTransaction(billing.NewTransactionParams{
		MemberID:    m.MemberID(),
		StaffID:     member.NewMemberID(),
		Window:      window,
		Amount:      amount,
		PaymentDate: now,
		Reference:   ref,
	})
	require.NoError(t, err)
	return tr
}

// TestRollbackOnError_DoesNotCommit 錯誤時回滾，帳號不應存在
func TestRollbackOnError_DoesNotCommit(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	txManager := persistence.NewGORMTransactionManager(db)
	repo := memberrepo.NewMemberRepository(db)
	m := newTestMember(t, "rollback")

	// Act
	err := txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
		require.NoError(t, repo.Save(tx, m), "Save should succeed within transaction")
		return errors.New("simulated error - trigger rollback")
	})

	// Assert
	require.Error(t, err)
	assert.Equal(t, "simulated error - trigger rollback", err.Error())

	_, err = repo.FindByMemberID(nil, m.MemberID())
	assert.ErrorIs(t, err, member.ErrMemberNotFound, "member should not exist after rollback")
}

// TestCommitOnSuccess_SavesData 成功時提交
func TestCommitOnSuccess_SavesData(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	txManager := persistence.NewGORMTransactionManager(db)
	repo := memberrepo.NewMemberRepository(db)
	m := newTestMember(t, "commit")

	// Act
	err := txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
		return repo.Save(tx, m)
	})

	// Assert
	require.NoError(t, err)
	found, err := repo.FindByMemberID(nil, m.MemberID())
	require.NoError(t, err)
	assert.Equal(t, "commit", found.Username().String())
}

// TestPanicRecovery_RollsBackAndRepanics panic 時回滾並重新 panic
func TestPanicRecovery_RollsBackAndRepanics(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	txManager := persistence.NewGORMTransactionManager(db)
	repo := memberrepo.NewMemberRepository(db)
	m := newTestMember(t, "panic")

	// Act & Assert
	assert.PanicsWithValue(t, "boom", func() {
		_ = txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
			require.NoError(t, repo.Save(tx, m))
			panic("boom")
		})
	})

	_, err := repo.FindByMemberID(nil, m.MemberID())
	assert.ErrorIs(t, err, member.ErrMemberNotFound, "member should not exist after panic")
}

// TestMultipleOperations_AtomicCommit 開通（帳號 + 交易）一起提交
func TestMultipleOperations_AtomicCommit(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	txManager := persistence.NewGORMTransactionManager(db)
	members := memberrepo.NewMemberRepository(db)
	transactions := billingrepo.NewTransactionRepository(db)
	m := newTestMember(t, "atomic")
	require.NoError(t, members.Save(nil, m))
	tr := newTestTransaction(t, m, "MEM-2025-01-0001")

	// Act
	err := txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
		if err := transactions.Save(tx, tr); err != nil {
			return err
		}
		if err := m.Activate(tr.Window(), now); err != nil {
			return err
		}
		return members.Save(tx, m)
	})

	// Assert
	require.NoError(t, err)

	found, err := members.FindByMemberID(nil, m.MemberID())
	require.NoError(t, err)
	assert.True(t, found.Activated())

	list, err := transactions.FindByMemberID(nil, m.MemberID())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// TestMultipleOperations_AtomicRollback 後段失敗時，交易也不應留下
func TestMultipleOperations_AtomicRollback(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	txManager := persistence.NewGORMTransactionManager(db)
	members := memberrepo.NewMemberRepository(db)
	transactions := billingrepo.NewTransactionRepository(db)
	m := newTestMember(t, "partial")
	require.NoError(t, members.Save(nil, m))
	tr := newTestTransaction(t, m, "MEM-2025-01-0002")

	// Act
	err := txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
		require.NoError(t, transactions.Save(tx, tr))
		return member.ErrInvalidValidityWindow
	})

	// Assert
	assert.ErrorIs(t, err, member.ErrInvalidValidityWindow)

	list, err := transactions.FindByMemberID(nil, m.MemberID())
	require.NoError(t, err)
	assert.Empty(t, list, "transaction should be rolled back together with activation")

	found, err := members.FindByMemberID(nil, m.MemberID())
	require.NoError(t, err)
	assert.False(t, found.Activated())
}

// TestRollbackFailure_ReturnsPartialFailure 回滾本身失敗時返回 ErrRollbackFailed
func TestRollbackFailure_ReturnsPartialFailure(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	txManager := persistence.NewGORMTransactionManager(db)
	original := errors.New("activation failed")

	// Act：先手動結束事務，讓 manager 的回滾得到 sql.ErrTxDone
	err := txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
		provider, ok := tx.(persistence.DBProvider)
		require.True(t, ok)
		require.NoError(t, provider.GetDB().Rollback().Error)
		return original
	})

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrRollbackFailed)
	assert.ErrorIs(t, err, shared.ErrPartialFailure)
	assert.ErrorIs(t, err, original, "original error must stay in the chain")
}

// TestRepository_NilContext_AutoCommitMode nil tx 使用 auto-commit 模式
func TestRepository_NilContext_AutoCommitMode(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := memberrepo.NewMemberRepository(db)
	m := newTestMember(t, "autocommit")

	// Act
	err := repo.Save(nil, m)

	// Assert
	require.NoError(t, err)
	exists, err := repo.ExistsByUsername(nil, m.Username(), member.MemberID{})
	require.NoError(t, err)
	assert.True(t, exists)
}
