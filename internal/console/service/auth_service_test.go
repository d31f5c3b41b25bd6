package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xela07ax/truverse-dashboard/internal/domain"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	ops := StaticOperators{
		"operator": {
			Username:     "operator",
			PasswordHash: string(hash),
			Scopes:       map[string]bool{domain.ScopeSnapshotWrite: true},
		},
	}
	return NewAuthService(ops, key, 10*time.Minute)
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	s := newAuthService(t)

	resp, err := s.GenerateToken(context.Background(), "operator", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(600), resp.ExpiresIn)

	claims, err := s.VerifyToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.UserID)
	assert.True(t, claims.Scopes[domain.ScopeSnapshotWrite])
}

func TestGenerateToken_InvalidCredentials(t *testing.T) {
	s := newAuthService(t)

	_, err := s.GenerateToken(context.Background(), "operator", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = s.GenerateToken(context.Background(), "nobody", "s3cret")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestStaticOperators_EmptyHashIsDisabled(t *testing.T) {
	ops := StaticOperators{"operator": {Username: "operator"}}
	_, err := ops.GetOperator(context.Background(), "operator")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
