package membership

import (
	"errors"
	"testing"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/application/mocks"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newMember(t *testing.T, username string, role member.Role) *member.Member {
	t.Helper()
	u, err := member.NewUsername(username)
	require.NoError(t, err)
	m, err := member.NewMember(u, member.Email{}, "hash", role, baseTime)
	require.NoError(t, err)
	return m
}

// Test 1: Activate 寫入有效期間
func TestRecordManager_Activate_Success(t *testing.T) {
	// Arrange
	repo := new(mocks.MockMemberRepository)
	rm := NewRecordManager(repo, mocks.FixedClock(baseTime))
	m := newMember(t, "alice", member.RoleMember)
	expiry := baseTime.AddDate(0, 1, 0)

	repo.On("FindByMemberID", nil, m.MemberID()).Return(m, nil)
	repo.On("Save", nil, m).Return(nil)

	// Act
	got, err := rm.Activate(nil, m.MemberID(), baseTime, expiry)

	// Assert
	require.NoError(t, err)
	assert.True(t, got.Activated())
	assert.True(t, got.Window().Expiry().Equal(expiry))
	repo.AssertExpectations(t)
}

// Test 2: expiry 不晚於 startTime 時不讀取也不寫入
func TestRecordManager_Activate_InvalidWindow(t *testing.T) {
	repo := new(mocks.MockMemberRepository)
	rm := NewRecordManager(repo, mocks.FixedClock(baseTime))

	_, err := rm.Activate(nil, member.NewMemberID(), baseTime, baseTime)

	assert.ErrorIs(t, err, member.ErrInvalidValidityWindow)
	assert.ErrorIs(t, err, shared.ErrValidation)
	repo.AssertNotCalled(t, "FindByMemberID", mock.Anything, mock.Anything)
}

// Test 3: 缺少 expiry
func TestRecordManager_Activate_MissingExpiry(t *testing.T) {
	repo := new(mocks.MockMemberRepository)
	rm := NewRecordManager(repo, mocks.FixedClock(baseTime))

	_, err := rm.Activate(nil, member.NewMemberID(), baseTime, time.Time{})

	assert.ErrorIs(t, err, member.ErrDurationRequired)
}

// Test 4: staff 帳號不能被開通
func TestRecordManager_Activate_ProtectedTarget(t *testing.T) {
	repo := new(mocks.MockMemberRepository)
	rm := NewRecordManager(repo, mocks.FixedClock(baseTime))
	staff := newMember(t, "bob", member.RoleStaff)

	repo.On("FindByMemberID", nil, staff.MemberID()).Return(staff, nil)

	_, err := rm.Activate(nil, staff.MemberID(), baseTime, baseTime.Add(time.Hour))

	assert.ErrorIs(t, err, member.ErrProtectedTarget)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// Test 5: 會員不存在
func TestRecordManager_Activate_NotFound(t *testing.T) {
	repo := new(mocks.MockMemberRepository)
	rm := NewRecordManager(repo, mocks.FixedClock(baseTime))
	id := member.NewMemberID()

	repo.On("FindByMemberID", nil, id).Return(nil, member.ErrMemberNotFound)

	_, err := rm.Activate(nil, id, baseTime, baseTime.Add(time.Hour))

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

// Test 6: Deactivate 轉交條件更新並回報是否變更
func TestRecordManager_Deactivate(t *testing.T) {
	repo := new(mocks.MockMemberRepository)
	rm := NewRecordManager(repo, mocks.FixedClock(baseTime))
	id := member.NewMemberID()

	repo.On("DeactivateIfActive", nil, id, baseTime).Return(true, nil).Once()
	repo.On("DeactivateIfActive", nil, id, baseTime).Return(false, nil).Once()

	first, err := rm.Deactivate(nil, id)
	require.NoError(t, err)
	second, err := rm.Deactivate(nil, id)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
}

// Test 7: Deactivate 儲存錯誤原樣返回
func TestRecordManager_Deactivate_RepositoryError(t *testing.T) {
	repo := new(mocks.MockMemberRepository)
	rm := NewRecordManager(repo, mocks.FixedClock(baseTime))
	id := member.NewMemberID()
	dbErr := member.ErrRepositoryError.Wrap(errors.New("disk full"))

	repo.On("DeactivateIfActive", nil, id, baseTime).Return(false, dbErr)

	_, err := rm.Deactivate(nil, id)

	assert.ErrorIs(t, err, shared.ErrPersistence)
}

// Test 8: IsValid 到期當下仍有效
func TestRecordManager_IsValid_Boundary(t *testing.T) {
	rm := NewRecordManager(new(mocks.MockMemberRepository), mocks.FixedClock(baseTime))
	m := newMember(t, "carol", member.RoleMember)
	window, err := member.NewValidityWindow(baseTime.Add(-time.Hour), baseTime)
	require.NoError(t, err)
	require.NoError(t, m.Activate(window, baseTime))

	assert.True(t, rm.IsValid(m, baseTime))
	assert.False(t, rm.IsValid(m, baseTime.Add(time.Nanosecond)))
	assert.False(t, rm.IsValid(nil, baseTime))
}
