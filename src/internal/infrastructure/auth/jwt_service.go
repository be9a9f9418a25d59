package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/service"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/config"
	"github.com/pkg/errors"
)

const accessTokenType = "access"

// jwtService 以 HS256 JWT 實作 TokenService
type jwtService struct {
	accessSecret string
	accessTTL    time.Duration
	clock        shared.Clock
}

// NewJWTService 建構函數
func NewJWTService(cfg *config.Config, clock shared.Clock) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}
	ttl := cfg.Auth.AccessTokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &jwtService{
		accessSecret: cfg.SecretKey.Access,
		accessTTL:    ttl,
		clock:        clock,
	}, nil
}

// GenerateAccessToken 簽發 access token（sub = member id, role = 帳號角色）
func (s *jwtService) GenerateAccessToken(memberID member.MemberID, role member.Role) (string, time.Time, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.accessTTL)

	claims := jwt.MapClaims{
		"sub":  memberID.String(),
		"role": role.String(),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
		"type": accessTokenType,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.accessSecret))
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "failed to sign access token")
	}
	return token, expiresAt, nil
}

// ValidateAccessToken 驗證簽章、期限與 token 類型
func (s *jwtService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.accessSecret), nil
	}, jwt.WithTimeFunc(s.clock.Now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, service.ErrInvalidToken.WithContext("reason", reason(err))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, service.ErrInvalidToken.WithContext("reason", "unexpected claims")
	}
	if tokenType, _ := claims["type"].(string); tokenType != accessTokenType {
		return nil, service.ErrInvalidToken.WithContext("reason", "not an access token")
	}

	sub, _ := claims["sub"].(string)
	memberID, err := member.MemberIDFromString(sub)
	if err != nil {
		return nil, service.ErrInvalidToken.WithContext("reason", "invalid subject")
	}

	roleValue, _ := claims["role"].(string)
	role, err := member.ParseRole(roleValue)
	if err != nil {
		return nil, service.ErrInvalidToken.WithContext("reason", "invalid role")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, service.ErrInvalidToken.WithContext("reason", "missing expiration")
	}

	return &service.Claims{
		MemberID:  memberID,
		Role:      role,
		ExpiresAt: exp.Time,
	}, nil
}

func reason(err error) string {
	if err == nil {
		return "invalid token"
	}
	return err.Error()
}
