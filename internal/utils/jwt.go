package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token validation errors
var (
	// ErrTokenExpired is returned when a structurally valid token has passed its expiry
	ErrTokenExpired = errors.New("token is expired")

	// ErrTokenInvalid is returned for malformed, unsigned or tampered tokens
	ErrTokenInvalid = errors.New("token is invalid")
)

// JWTManager signs and verifies HS256 tokens whose subject is the user's
// email. The time source is injectable so expiry behavior is testable.
type JWTManager struct {
	secret             []byte
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	now                func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret string, accessTokenExpiry, refreshTokenExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:             []byte(secret),
		accessTokenExpiry:  accessTokenExpiry,
		refreshTokenExpiry: refreshTokenExpiry,
		now:                time.Now,
	}
}

// WithTimeFunc overrides the manager's clock. Used by tests.
func (j *JWTManager) WithTimeFunc(now func() time.Time) *JWTManager {
	j.now = now
	return j
}

// GenerateAccessToken generates a short-lived access token for the subject email
func (j *JWTManager) GenerateAccessToken(email string) (string, error) {
	return j.sign(jwt.MapClaims{
		"sub": email,
		"exp": j.now().Add(j.accessTokenExpiry).Unix(),
		"iat": j.now().Unix(),
	})
}

// GenerateRefreshToken generates a long-lived refresh token for the subject email
func (j *JWTManager) GenerateRefreshToken(email string) (string, error) {
	return j.sign(jwt.MapClaims{
		"sub": email,
		"exp": j.now().Add(j.refreshTokenExpiry).Unix(),
		"iat": j.now().Unix(),
		"jti": uuid.New().String(),
	})
}

// GenerateVerificationToken generates an email-verification token. It
// carries no expiry: the link stays valid until the account is verified.
func (j *JWTManager) GenerateVerificationToken(email string) (string, error) {
	return j.sign(jwt.MapClaims{
		"sub": email,
		"iat": j.now().Unix(),
	})
}

func (j *JWTManager) sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ParseSubject verifies a token and returns its subject email. Expired
// tokens yield ErrTokenExpired; everything else wrong yields ErrTokenInvalid.
func (j *JWTManager) ParseSubject(tokenString string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
	)

	token, err := parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return j.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: %s", ErrTokenExpired, err)
		}
		return "", fmt.Errorf("%w: %s", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenInvalid
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	return subject, nil
}

// GetAccessTokenExpiry returns the access token expiry duration in seconds
func (j *JWTManager) GetAccessTokenExpiry() int {
	return int(j.accessTokenExpiry.Seconds())
}

// GetRefreshTokenExpiry returns the refresh token expiry duration in seconds
func (j *JWTManager) GetRefreshTokenExpiry() int {
	return int(j.refreshTokenExpiry.Seconds())
}
