package jwt_test

import (
	"testing"
	"time"

	bserrors "github.com/jrsteele09/go-backoffice-session/internal/errors"
	"github.com/jrsteele09/go-backoffice-session/token/jwt"
	"github.com/stretchr/testify/require"
)

func fixedNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := jwt.NowTimeFunc
	jwt.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { jwt.NowTimeFunc = prev })
}

func TestCreateAndVerify(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	fixedNow(t, now)

	c, err := jwt.NewCreator("secret", 30*time.Minute)
	require.NoError(t, err)

	raw, exp, err := c.CreateAccessToken("lawyer@example.com")
	require.NoError(t, err)
	require.Equal(t, now.Add(30*time.Minute).Unix(), exp.Unix())

	claims, err := c.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "lawyer@example.com", claims.Subject)
	require.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
	require.NotEmpty(t, claims.ID)
}

func TestVerify_Expired(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	fixedNow(t, now)

	c, err := jwt.NewCreator("secret", time.Minute)
	require.NoError(t, err)
	raw, _, err := c.CreateAccessToken("lawyer@example.com")
	require.NoError(t, err)

	fixedNow(t, now.Add(2*time.Minute))
	_, err = c.Verify(raw)
	require.ErrorIs(t, err, bserrors.ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer, err := jwt.NewCreator("secret", time.Hour)
	require.NoError(t, err)
	other, err := jwt.NewCreator("other-secret", time.Hour)
	require.NoError(t, err)

	raw, _, err := issuer.CreateAccessToken("lawyer@example.com")
	require.NoError(t, err)

	_, err = other.Verify(raw)
	require.ErrorIs(t, err, bserrors.ErrInvalidToken)

	_, err = issuer.Verify("")
	require.ErrorIs(t, err, bserrors.ErrInvalidToken)
}

func TestInspect(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	fixedNow(t, now)

	c, err := jwt.NewCreator("secret", time.Hour)
	require.NoError(t, err)
	raw, _, err := c.CreateAccessToken("analyst@example.com")
	require.NoError(t, err)

	claims, err := jwt.Inspect(raw)
	require.NoError(t, err)
	require.Equal(t, "analyst@example.com", claims.Subject)
	require.False(t, claims.Expired(now))
	require.True(t, claims.Expired(now.Add(time.Hour)))

	_, err = jwt.Inspect("opaque-token")
	require.ErrorIs(t, err, jwt.ErrNotJWT)
}

func TestNewCreator_Validation(t *testing.T) {
	_, err := jwt.NewCreator("", time.Hour)
	require.Error(t, err)
	_, err = jwt.NewCreator("secret", 0)
	require.Error(t, err)
}
