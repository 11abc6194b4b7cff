package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/productdb/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-unit-tests"

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	cred, err := NewCredential("admin", "password123")
	require.NoError(t, err)

	svc, err := NewAuthService(cred, config.AuthConfig{JWTSecret: testSecret, JWTAccessTTL: time.Hour})
	require.NoError(t, err)
	return svc
}

func TestLoginThenParse(t *testing.T) {
	svc := newTestAuthService(t)

	token, expiresIn, err := svc.Login(context.Background(), "admin", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, int64(3600), expiresIn)

	user, err := svc.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuthService(t)

	cases := []struct {
		name, username, password string
	}{
		{"wrong password", "admin", "password124"},
		{"unknown user", "root", "password123"},
		{"empty username", "", "password123"},
		{"empty password", "admin", ""},
		{"case differs", "Admin", "password123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tc.username, tc.password)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestTokenExpiresAfterTTL(t *testing.T) {
	svc := newTestAuthService(t)
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, _, err := svc.Login(context.Background(), "admin", "password123")
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(59 * time.Minute) }
	_, err = svc.ParseAccessToken(token)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(time.Hour + time.Second) }
	_, err = svc.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	svc := newTestAuthService(t)
	token, _, err := svc.Login(context.Background(), "admin", "password123")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = svc.ParseAccessToken(tampered)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestParseRejectsForeignTokens(t *testing.T) {
	svc := newTestAuthService(t)

	otherSecret, err := jwt.NewWithClaims(jwt.SigningMethodHS256, authClaims{
		Username: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, authClaims{
		Username: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, authClaims{Username: "admin"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"other secret": otherSecret,
		"alg none":     unsigned,
		"no expiry":    noExpiry,
		"malformed":    "not.a.jwt",
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ParseAccessToken(token)
			assert.ErrorIs(t, err, ErrForbidden)
		})
	}
}

func TestNewAuthServiceMisconfigured(t *testing.T) {
	cred, err := NewCredential("admin", "password123")
	require.NoError(t, err)

	_, err = NewAuthService(cred, config.AuthConfig{JWTAccessTTL: time.Hour})
	assert.ErrorIs(t, err, ErrMisconfigured)

	_, err = NewAuthService(cred, config.AuthConfig{JWTSecret: testSecret})
	assert.ErrorIs(t, err, ErrMisconfigured)

	_, err = NewAuthService(Credential{}, config.AuthConfig{JWTSecret: testSecret, JWTAccessTTL: time.Hour})
	assert.ErrorIs(t, err, ErrMisconfigured)

	_, err = NewCredential(" ", "password123")
	assert.ErrorIs(t, err, ErrMisconfigured)
}
