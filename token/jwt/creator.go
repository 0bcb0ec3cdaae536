package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Creator issues and verifies HS256 access tokens for the development auth
// service. The subject is the user's email, as the back-office API expects.
type Creator struct {
	secret []byte
	expiry time.Duration
}

// NewCreator creates a new JWT creator
func NewCreator(secret string, expiry time.Duration) (*Creator, error) {
	if secret == "" {
		return nil, errors.New("[jwt.NewCreator] secret is required")
	}
	if expiry <= 0 {
		return nil, errors.New("[jwt.NewCreator] expiry must be positive")
	}
	return &Creator{secret: []byte(secret), expiry: expiry}, nil
}

// CreateAccessToken creates a signed bearer token for subject and returns it
// with its expiry.
func (c *Creator) CreateAccessToken(subject string) (string, time.Time, error) {
	now := NowTimeFunc()
	exp := now.Add(c.expiry)
	claims := jwtlib.MapClaims{
		"sub": subject,             // The user's email
		"iat": int64(now.Unix()),   // Issued At: the time at which the token was issued
		"exp": int64(exp.Unix()),   // Expiry: when the token will expire
		"jti": uuid.New().String(), // Unique token ID
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, time.Unix(exp.Unix(), 0), nil
}
