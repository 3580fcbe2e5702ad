package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestIssuer(t *testing.T, clock *fakeClock) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(TokenConfig{
		SecretKey: "test-secret",
		TTL:       DefaultTokenTTL,
		Issuer:    "tasktracker-test",
	}, clock.Now)
	require.NoError(t, err)
	return issuer
}

func TestTokenIssuerRoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	issuer := newTestIssuer(t, clock)

	token, err := issuer.Issue("6f1c1c1e-2a4b-4c1d-9a56-3d2f0f5e7b11")
	require.NoError(t, err)

	clock.now = clock.now.Add(DefaultTokenTTL - time.Minute)
	userID, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "6f1c1c1e-2a4b-4c1d-9a56-3d2f0f5e7b11", userID)
}

func TestTokenIssuerExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	issuer := newTestIssuer(t, clock)

	token, err := issuer.Issue("user-1")
	require.NoError(t, err)

	clock.now = clock.now.Add(DefaultTokenTTL + time.Second)
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenIssuerRejectsBadTokens(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	issuer := newTestIssuer(t, clock)

	other, err := NewTokenIssuer(TokenConfig{SecretKey: "other-secret", TTL: time.Hour, Issuer: "tasktracker-test"}, clock.Now)
	require.NoError(t, err)
	foreign, err := other.Issue("user-1")
	require.NoError(t, err)

	valid, err := issuer.Issue("user-1")
	require.NoError(t, err)
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, sessionClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "tasktracker-test",
			ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "signed with another key", token: foreign},
		{name: "tampered signature", token: tampered},
		{name: "alg none", token: unsigned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.NotErrorIs(t, err, ErrExpiredToken)
		})
	}
}

func TestExpiredTokenWithBadSignatureIsInvalid(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	other, err := NewTokenIssuer(TokenConfig{SecretKey: "other-secret", TTL: time.Hour, Issuer: "tasktracker-test"}, clock.Now)
	require.NoError(t, err)
	foreign, err := other.Issue("user-1")
	require.NoError(t, err)

	issuer := newTestIssuer(t, clock)
	clock.now = clock.now.Add(2 * time.Hour)

	_, err = issuer.Verify(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenIssuerValidation(t *testing.T) {
	_, err := NewTokenIssuer(TokenConfig{TTL: time.Hour}, nil)
	assert.Error(t, err)
	_, err = NewTokenIssuer(TokenConfig{SecretKey: "k"}, nil)
	assert.Error(t, err)
}
