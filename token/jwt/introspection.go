package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	bserrors "github.com/jrsteele09/go-backoffice-session/internal/errors"
)

// ErrNotJWT is returned by Inspect for opaque (non-JWT) bearer tokens.
var ErrNotJWT = errors.New("token is not a JWT")

// Claims is the subset of registered claims the back-office tokens carry.
type Claims struct {
	Subject   string
	ExpiresAt time.Time // zero when the token has no exp
	IssuedAt  time.Time
	ID        string
}

// Expired reports whether the token is past its expiry at now. Tokens
// without an exp claim never expire here.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Inspect reads the claims of raw WITHOUT verifying its signature. The
// client has no key to verify with; the result is for display only.
func Inspect(raw string) (*Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrNotJWT
	}
	parsed, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}
	mc, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("error extracting claims")
	}
	return claimsFrom(mc)
}

// Verify checks the signature and expiry of raw and returns its claims.
func (c *Creator) Verify(raw string) (*Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, bserrors.ErrInvalidToken
	}
	parsed, err := jwtlib.ParseWithClaims(raw, jwtlib.MapClaims{},
		func(t *jwtlib.Token) (any, error) {
			if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return c.secret, nil
		},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(NowTimeFunc),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, bserrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", bserrors.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, bserrors.ErrInvalidToken
	}
	mc, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, bserrors.ErrInvalidToken
	}
	claims, err := claimsFrom(mc)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", bserrors.ErrInvalidToken)
	}
	return claims, nil
}

func claimsFrom(mc jwtlib.MapClaims) (*Claims, error) {
	var claims Claims
	sub, err := mc.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("invalid sub claim: %w", err)
	}
	claims.Subject = sub

	exp, err := mc.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp != nil {
		claims.ExpiresAt = exp.Time
	}

	iat, err := mc.GetIssuedAt()
	if err != nil {
		return nil, fmt.Errorf("invalid iat claim: %w", err)
	}
	if iat != nil {
		claims.IssuedAt = iat.Time
	}

	claims.ID, _ = mc["jti"].(string)
	return &claims, nil
}
