package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/productdb/backend/internal/config"
	"github.com/productdb/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
	ErrNotFound      = errors.New("not found")
	ErrUnavailable   = errors.New("service unavailable")
	ErrMisconfigured = errors.New("auth config invalid")
)

// Credential is the single identity allowed to log in. It is built once at
// startup and never mutated.
type Credential struct {
	username     string
	passwordHash []byte
}

// NewCredential hashes password with bcrypt so the plaintext is not kept.
func NewCredential(username, password string) (Credential, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return Credential{}, fmt.Errorf("%w: ADMIN_USERNAME/ADMIN_PASSWORD are required", ErrMisconfigured)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Credential{}, fmt.Errorf("hash admin password: %w", err)
	}
	return Credential{username: username, passwordHash: hash}, nil
}

func (c Credential) Username() string {
	return c.username
}

// matches runs the bcrypt comparison even on a username mismatch so both
// failure modes take similar time.
func (c Credential) matches(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password))
	return userOK && passErr == nil
}

type AuthService struct {
	credential Credential
	jwtSecret  []byte
	accessTTL  time.Duration
	now        func() time.Time
}

type authClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewAuthService(credential Credential, cfg config.AuthConfig) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}
	if cfg.JWTAccessTTL <= 0 {
		return nil, fmt.Errorf("%w: invalid JWT_ACCESS_TTL", ErrMisconfigured)
	}
	if credential.username == "" || len(credential.passwordHash) == 0 {
		return nil, fmt.Errorf("%w: credential is empty", ErrMisconfigured)
	}

	return &AuthService{
		credential: credential,
		jwtSecret:  []byte(cfg.JWTSecret),
		accessTTL:  cfg.JWTAccessTTL,
		now:        time.Now,
	}, nil
}

// Login checks the submitted pair against the configured credential and
// returns a signed access token with its lifetime in seconds. Unknown user and
// wrong password both yield ErrUnauthorized.
func (s *AuthService) Login(_ context.Context, username, password string) (string, int64, error) {
	if username == "" || password == "" {
		return "", 0, ErrUnauthorized
	}
	if !s.credential.matches(username, password) {
		return "", 0, ErrUnauthorized
	}
	return s.generateAccessToken(username)
}

// ParseAccessToken verifies signature and expiry. Any failure is ErrForbidden.
func (s *AuthService) ParseAccessToken(tokenStr string) (*model.AuthUser, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrForbidden
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrForbidden
	}
	if claims.Username == "" {
		return nil, ErrForbidden
	}

	return &model.AuthUser{Username: claims.Username}, nil
}

func (s *AuthService) generateAccessToken(username string) (string, int64, error) {
	now := s.now()
	claims := authClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", 0, err
	}

	return signed, int64(s.accessTTL.Seconds()), nil
}
