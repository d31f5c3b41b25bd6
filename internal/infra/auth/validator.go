package auth

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/xela07ax/truverse-dashboard/internal/domain"
)

// Issuer — издатель токенов консоли дашборда
const Issuer = "truverse-console"

// clockSkew — допуск расхождения часов между консолью и ее репликами
const clockSkew = 30 * time.Second

// Verifier проверяет операторские токены консоли (RS256).
// Его же встраивает AuthService, который эти токены выдает.
type Verifier struct {
	publicKey *rsa.PublicKey
	parser    *jwt.Parser
}

func NewVerifier(pubKey *rsa.PublicKey) *Verifier {
	return &Verifier{
		publicKey: pubKey,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(Issuer),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(clockSkew),
		),
	}
}

// VerifyToken принимает сырой JWT (без "Bearer ").
// Токен без оператора отклоняется: от user_id зависит автор снапшота.
func (v *Verifier) VerifyToken(raw string) (*domain.CustomClaims, error) {
	claims := &domain.CustomClaims{}
	if _, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return v.publicKey, nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}

	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is empty", domain.ErrInvalidToken)
	}
	if claims.Subject != "" && claims.Subject != claims.UserID {
		return nil, fmt.Errorf("%w: subject %q does not match user_id %q", domain.ErrInvalidToken, claims.Subject, claims.UserID)
	}
	return claims, nil
}

// ParseRSAPublicKey читает PEM ключ проверки подписи
func ParseRSAPublicKey(data []byte) (*rsa.PublicKey, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("public key data is empty")
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return key, nil
}

// ParseRSAPrivateKey читает PEM ключ подписи (выдача токенов)
func ParseRSAPrivateKey(data []byte) (*rsa.PrivateKey, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("private key data is empty")
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return key, nil
}
