package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/service"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// ===========================
// Login Use Case
// ===========================

// LoginCommand 登入指令
type LoginCommand struct {
	Username string
	Password string
}

// LoginResult 登入結果
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	MemberID    string
	Username    string
	Role        string
}

// LoginUseCase 帳密登入並簽發 access token
//
// 帳號不存在與密碼錯誤一律返回 member.ErrInvalidCredentials，不區分原因。
type LoginUseCase interface {
	Execute(ctx context.Context, cmd LoginCommand) (*LoginResult, error)
}

// LoginUseCaseImpl 實作
type LoginUseCaseImpl struct {
	memberRepo member.MemberRepository
	hasher     service.PasswordHasher
	tokens     service.TokenService
}

// NewLoginUseCase 建構函數
func NewLoginUseCase(memberRepo member.MemberRepository, hasher service.PasswordHasher, tokens service.TokenService) LoginUseCase {
	return &LoginUseCaseImpl{
		memberRepo: memberRepo,
		hasher:     hasher,
		tokens:     tokens,
	}
}

// Execute 執行登入
func (uc *LoginUseCaseImpl) Execute(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	username, err := member.NewUsername(cmd.Username)
	if err != nil {
		return nil, member.ErrInvalidCredentials
	}

	account, err := uc.memberRepo.FindByUsername(nil, username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, member.ErrInvalidCredentials
		}
		return nil, err
	}

	if !uc.hasher.Check(cmd.Password, account.PasswordHash()) {
		return nil, member.ErrInvalidCredentials
	}

	token, expiresAt, err := uc.tokens.GenerateAccessToken(account.MemberID(), account.Role())
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		MemberID:    account.MemberID().String(),
		Username:    account.Username().String(),
		Role:        account.Role().String(),
	}, nil
}
