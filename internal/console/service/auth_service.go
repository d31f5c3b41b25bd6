package service

import (
	"context"
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/xela07ax/truverse-dashboard/internal/domain"
	"github.com/xela07ax/truverse-dashboard/internal/infra/auth"
)

type OperatorProvider interface {
	GetOperator(ctx context.Context, username string) (*domain.Operator, error)
}

// StaticOperators — операторы из конфига (у дашборда нет таблицы пользователей)
type StaticOperators map[string]domain.Operator

func (s StaticOperators) GetOperator(_ context.Context, username string) (*domain.Operator, error) {
	op, ok := s[username]
	if !ok || op.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	return &op, nil
}

type AuthService struct {
	*auth.Verifier

	repo       OperatorProvider
	privateKey *rsa.PrivateKey
	ttl        time.Duration
}

func NewAuthService(repo OperatorProvider, privateKey *rsa.PrivateKey, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AuthService{
		Verifier:   auth.NewVerifier(&privateKey.PublicKey),
		repo:       repo,
		privateKey: privateKey,
		ttl:        ttl,
	}
}

func (s *AuthService) GenerateToken(ctx context.Context, username, password string) (*domain.TokenResponse, error) {
	// 1. Аутентификация (источник правды — конфиг)
	op, err := s.repo.GetOperator(ctx, username)
	if err != nil || op == nil {
		return nil, domain.ErrInvalidCredentials
	}

	// 2. Проверка пароля (используем bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	// 3. Формирование Claims
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := &domain.CustomClaims{
		UserID: op.Username,
		Scopes: op.Scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    auth.Issuer,
			Subject:   op.Username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	// 4. Подпись токена ЗАКРЫТЫМ КЛЮЧОМ (RS256)
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &domain.TokenResponse{
		AccessToken: signedToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.ttl.Seconds()),
	}, nil
}
