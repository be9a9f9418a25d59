package auth

import (
	"context"
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

var loginNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func staffAccount(t *testing.T) *member.Member {
	t.Helper()
	u, err := member.NewUsername("desk1")
	require.NoError(t, err)
	m, err := member.NewMember(u, member.Email{}, "$2a$hash", member.RoleStaff, loginNow)
	require.NoError(t, err)
	return m
}

// Test 1: 帳密正確，簽發 token
func TestLoginUseCase_Execute_Success(t *testing.T) {
	// Arrange
	memberRepo := new(mocks.MockMemberRepository)
	hasher := new(mocks.MockPasswordHasher)
	tokens := new(mocks.MockTokenService)
	account := staffAccount(t)
	expiresAt := loginNow.Add(24 * time.Hour)

	memberRepo.On("FindByUsername", nil, account.Username()).Return(account, nil)
	hasher.On("Check", "deskpass", "$2a$hash").Return(true)
	tokens.On("GenerateAccessToken", account.MemberID(), member.RoleStaff).Return("signed.jwt", expiresAt, nil)

	uc := NewLoginUseCase(memberRepo, hasher, tokens)

	// Act
	result, err := uc.Execute(context.Background(), LoginCommand{Username: "desk1", Password: "deskpass"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "signed.jwt", result.AccessToken)
	assert.Equal(t, expiresAt, result.ExpiresAt)
	assert.Equal(t, "staff", result.Role)
	assert.Equal(t, account.MemberID().String(), result.MemberID)
}

// Test 2: 密碼錯誤
func TestLoginUseCase_Execute_WrongPassword(t *testing.T) {
	memberRepo := new(mocks.MockMemberRepository)
	hasher := new(mocks.MockPasswordHasher)
	tokens := new(mocks.MockTokenService)
	account := staffAccount(t)

	memberRepo.On("FindByUsername", nil, account.Username()).Return(account, nil)
	hasher.On("Check", "wrong", "$2a$hash").Return(false)

	_, err := NewLoginUseCase(memberRepo, hasher, tokens).Execute(context.Background(), LoginCommand{Username: "desk1", Password: "wrong"})

	assert.ErrorIs(t, err, member.ErrInvalidCredentials)
	tokens.AssertNotCalled(t, "GenerateAccessToken", mock.Anything, mock.Anything)
}

// Test 3: 帳號不存在與不合法的帳號名稱都返回同一個錯誤
func TestLoginUseCase_Execute_UnknownUser(t *testing.T) {
	memberRepo := new(mocks.MockMemberRepository)
	memberRepo.On("FindByUsername", nil, mock.Anything).Return(nil, member.ErrMemberNotFound)
	uc := NewLoginUseCase(memberRepo, new(mocks.MockPasswordHasher), new(mocks.MockTokenService))

	_, err := uc.Execute(context.Background(), LoginCommand{Username: "ghost", Password: "whatever"})
	assert.ErrorIs(t, err, member.ErrInvalidCredentials)
	assert.ErrorIs(t, err, shared.ErrAuthorization)

	_, err = uc.Execute(context.Background(), LoginCommand{Username: "has space", Password: "whatever"})
	assert.ErrorIs(t, err, member.ErrInvalidCredentials)
}

// Test 4: 儲存層錯誤原樣返回
func TestLoginUseCase_Execute_RepositoryError(t *testing.T) {
	memberRepo := new(mocks.MockMemberRepository)
	memberRepo.On("FindByUsername", nil, mock.Anything).Return(nil, member.ErrRepositoryError.Wrap(errors.New("db down")))

	_, err := NewLoginUseCase(memberRepo, new(mocks.MockPasswordHasher), new(mocks.MockTokenService)).
		Execute(context.Background(), LoginCommand{Username: "desk1", Password: "deskpass"})

	assert.ErrorIs(t, err, shared.ErrPersistence)
	assert.NotErrorIs(t, err, member.ErrInvalidCredentials)
}
