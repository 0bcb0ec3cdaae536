package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-backoffice-session/internal/config"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"APP_NAME", "ENV", "FOLDER", "LOG_LEVEL", "API_BASE_URL", "TOKEN_STORE",
		"TOKEN_KEY", "REQUEST_TIMEOUT", "PORT", "JWT_SECRET", "ACCESS_TOKEN_EXPIRE",
		"ADMIN_EMAIL", "ADMIN_PASSWORD", "TOTP_ISSUER", "BACKOFFICE_CONFIG",
	} {
		t.Setenv(name, "")
	}
}

func TestNew_Defaults(t *testing.T) {
	clearEnv(t)
	c := config.New()

	require.Equal(t, "Backoffice", c.GetAppName())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, "http://localhost:8000", c.GetAPIBaseURL())
	require.Equal(t, config.TokenStoreFile, c.GetTokenStore())
	require.Equal(t, "token", c.GetTokenKey())
	require.Equal(t, 15*time.Second, c.GetRequestTimeout())
	require.Equal(t, ":8000", c.GetPort())
	require.Equal(t, 30*time.Minute, c.GetAccessTokenExpiry())
	require.Equal(t, "Contas a Pagar e Receber", c.GetTOTPIssuer())
}

func TestNew_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "https://api.example.com/")
	t.Setenv("TOKEN_STORE", "SQLite")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("PORT", ":9090")

	c := config.New()

	require.Equal(t, "https://api.example.com", c.GetAPIBaseURL())
	require.Equal(t, config.TokenStoreSQLite, c.GetTokenStore())
	require.Equal(t, 3*time.Second, c.GetRequestTimeout())
	require.Equal(t, ":9090", c.GetPort())
}

func TestNew_InvalidDurationFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("REQUEST_TIMEOUT", "soon")

	require.Equal(t, 15*time.Second, config.New().GetRequestTimeout())
}

func TestLoad_FileBelowEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "backoffice.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_base_url = "http://files.example.com"
token_store = "sqlite"
request_timeout = "7s"
app_name = "Escritorio"
`), 0o600))
	t.Setenv("APP_NAME", "FromEnv")

	c, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "http://files.example.com", c.GetAPIBaseURL())
	require.Equal(t, config.TokenStoreSQLite, c.GetTokenStore())
	require.Equal(t, 7*time.Second, c.GetRequestTimeout())
	require.Equal(t, "FromEnv", c.GetAppName())
}

func TestLoad_UsesEnvPath(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "backoffice.toml")
	require.NoError(t, os.WriteFile(path, []byte(`token_key = "bo-token"`), 0o600))
	t.Setenv("BACKOFFICE_CONFIG", path)

	c, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "bo-token", c.GetTokenKey())
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "backoffice.toml")
	require.NoError(t, os.WriteFile(path, []byte(`api_base = "typo"`), 0o600))

	_, err := config.Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown keys")
}
