package member

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===========================
// Member Aggregate Tests
// ===========================

var testNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestMember(t *testing.T, role Role) *Member {
	t.Helper()
	username, err := NewUsername("alice")
	require.NoError(t, err)
	email, err := NewEmail("alice@example.com")
	require.NoError(t, err)

	m, err := NewMember(username, email, "$2a$10$hash", role, testNow)
	require.NoError(t, err)
	return m
}

// Test 1: Create new member successfully
func TestNewMember_ValidInput_Success(t *testing.T) {
	// Act
	m := newTestMember(t, RoleMember)

	// Assert
	assert.False(t, m.MemberID().IsEmpty())
	assert.Equal(t, "alice", m.Username().String())
	assert.Equal(t, RoleMember, m.Role())
	assert.False(t, m.Activated(), "new member starts inactive")
	assert.True(t, m.Window().IsZero())
	assert.Equal(t, 1, m.Version())
}

// Test 2: Empty password hash is rejected
func TestNewMember_EmptyPasswordHash_ReturnsError(t *testing.T) {
	username, _ := NewUsername("alice")

	m, err := NewMember(username, Email{}, "", RoleMember, testNow)

	assert.True(t, errors.Is(err, ErrInvalidPassword))
	assert.Nil(t, m)
}

// Test 3: Activate sets window and makes the member valid
func TestMember_Activate_Success(t *testing.T) {
	// Arrange
	m := newTestMember(t, RoleMember)
	window, _ := NewValidityWindowForMonths(date(2024, 1, 1), 3)

	// Act
	err := m.Activate(window, testNow)

	// Assert
	require.NoError(t, err)
	assert.True(t, m.Activated())
	assert.Equal(t, date(2024, 4, 1), m.Window().Expiry())
	assert.True(t, m.IsValid(testNow))
	assert.False(t, m.HasMissingExpiry())
}

// Test 4: Staff/admin accounts cannot be activated
func TestMember_Activate_PrivilegedTarget_ReturnsError(t *testing.T) {
	window, _ := NewValidityWindowForMonths(date(2024, 1, 1), 1)

	for _, role := range []Role{RoleStaff, RoleAdmin} {
		m := newTestMember(t, role)

		err := m.Activate(window, testNow)

		assert.True(t, errors.Is(err, ErrProtectedTarget))
		assert.False(t, m.Activated())
	}
}

// Test 5: Deactivate clears the window; second call is a no-op
func TestMember_Deactivate_Idempotent(t *testing.T) {
	// Arrange
	m := newTestMember(t, RoleMember)
	window, _ := NewValidityWindowForMonths(date(2024, 1, 1), 3)
	require.NoError(t, m.Activate(window, testNow))
	version := m.Version()

	// Act
	first := m.Deactivate(testNow)
	second := m.Deactivate(testNow)

	// Assert
	assert.True(t, first)
	assert.False(t, second)
	assert.False(t, m.Activated())
	assert.True(t, m.Window().IsZero())
	assert.Equal(t, version+1, m.Version(), "no-op deactivate must not bump version")
}

// Test 6: IsValid is a pure predicate
func TestIsValid_Predicate(t *testing.T) {
	m := newTestMember(t, RoleMember)
	window, _ := NewValidityWindow(date(2024, 1, 1), date(2024, 2, 1))
	require.NoError(t, m.Activate(window, testNow))
	version := m.Version()

	assert.True(t, IsValid(m, date(2024, 1, 20)))
	assert.True(t, IsValid(m, date(2024, 2, 1)))
	assert.False(t, IsValid(m, date(2024, 6, 1)))
	assert.True(t, m.IsExpired(date(2024, 6, 1)))
	assert.False(t, IsValid(nil, testNow))
	assert.True(t, m.Activated(), "IsValid must not mutate")
	assert.Equal(t, version, m.Version())
}

// Test 7: Reconstruct keeps the activated-without-expiry anomaly visible
func TestReconstructMember_MissingExpiry_IsAnomaly(t *testing.T) {
	// Arrange
	username, _ := NewUsername("bob")
	start := date(2024, 1, 1)

	// Act
	m, err := ReconstructMember(MemberSnapshot{
		MemberID:  NewMemberID(),
		Username:  username,
		Role:      RoleMember,
		Activated: true,
		StartTime: &start,
		Expiry:    nil,
		Version:   3,
	})

	// Assert
	require.NoError(t, err)
	assert.True(t, m.HasMissingExpiry())
	assert.False(t, m.IsValid(testNow))
	assert.True(t, m.Deactivate(testNow))
	assert.False(t, m.HasMissingExpiry())
}

// Test 8: Reconstruct treats malformed window (expiry <= start) as missing
func TestReconstructMember_MalformedWindow_IsAnomaly(t *testing.T) {
	username, _ := NewUsername("bob")
	start := date(2024, 2, 1)
	expiry := date(2024, 1, 1)

	m, err := ReconstructMember(MemberSnapshot{
		MemberID:  NewMemberID(),
		Username:  username,
		Role:      RoleMember,
		Activated: true,
		StartTime: &start,
		Expiry:    &expiry,
	})

	require.NoError(t, err)
	assert.True(t, m.HasMissingExpiry())
}

// Test 9: QR token can only be assigned once
func TestMember_AssignQRToken_Immutable(t *testing.T) {
	m := newTestMember(t, RoleMember)

	require.NoError(t, m.AssignQRToken(`{"id":"x"}`))
	err := m.AssignQRToken(`{"id":"y"}`)

	assert.True(t, errors.Is(err, ErrQRTokenAlreadyAssigned))
	assert.Equal(t, `{"id":"x"}`, m.QRToken())
}

// Test 10: RecordScan only for staff
func TestMember_RecordScan(t *testing.T) {
	staff := newTestMember(t, RoleStaff)
	require.NoError(t, staff.RecordScan(testNow))
	assert.Equal(t, 1, staff.ScanCount())

	member := newTestMember(t, RoleMember)
	assert.True(t, errors.Is(member.RecordScan(testNow), ErrForbidden))
}

// Test 11: UpdateProfile
func TestMember_UpdateProfile(t *testing.T) {
	m := newTestMember(t, RoleMember)
	username, _ := NewUsername("alice2")
	email, _ := NewEmail("alice2@example.com")

	require.NoError(t, m.UpdateProfile(username, email, testNow.Add(time.Hour)))

	assert.Equal(t, "alice2", m.Username().String())
	assert.Equal(t, "alice2@example.com", m.Email().String())
	assert.Equal(t, testNow.Add(time.Hour), m.UpdatedAt())
}

// Test: 密碼長度規則
func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, ValidatePassword("12345"), ErrInvalidPassword)
	assert.NoError(t, ValidatePassword("123456"))
	assert.NoError(t, ValidatePassword("密碼密碼密碼"))
}
