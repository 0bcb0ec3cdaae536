package config

import (
	"fmt"
	"time"
)

const configFileEnvVar = "BACKOFFICE_CONFIG"

type Config interface {
	EnvConfig
	ClientConfig
	ServerConfig
}

type EnvConfig interface {
	GetAppName() string
	GetDataFolder() string
	GetLogLevel() string
	GetEnv() string
}

// ClientConfig covers the session client: where the auth service lives and
// where the bearer token is persisted between runs.
type ClientConfig interface {
	GetAPIBaseURL() string
	GetTokenStore() string
	GetTokenKey() string
	GetRequestTimeout() time.Duration
}

// ServerConfig covers the development auth service.
type ServerConfig interface {
	GetPort() string
	GetJWTSecret() string
	GetAccessTokenExpiry() time.Duration
	GetAdminEmail() string
	GetAdminPassword() string
	GetTOTPIssuer() string
}

type mainConfig struct {
	EnvVars
	Client
	Server
}

// New returns a config backed by environment variables only.
func New() Config {
	return newMainConfig(FileValues{})
}

// Load returns a config whose defaults come from the TOML file at path;
// environment variables still take precedence. An empty path falls back to
// BACKOFFICE_CONFIG, and when that is unset too the file layer is skipped.
func Load(path string) (Config, error) {
	if path == "" {
		path = GetEnv(configFileEnvVar, "")
	}
	if path == "" {
		return New(), nil
	}
	fv, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("[config.Load] %w", err)
	}
	return newMainConfig(fv), nil
}

func newMainConfig(fv FileValues) mainConfig {
	return mainConfig{
		EnvVars: EnvVars{file: fv},
		Client:  Client{file: fv},
		Server:  Server{file: fv},
	}
}
