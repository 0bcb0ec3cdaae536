package config

import (
	"strings"
	"time"
)

const (
	apiBaseURLVar     = "API_BASE_URL"
	tokenStoreVar     = "TOKEN_STORE"
	tokenKeyVar       = "TOKEN_KEY"
	requestTimeoutVar = "REQUEST_TIMEOUT"
)

const (
	TokenStoreFile   = "file"
	TokenStoreSQLite = "sqlite"
)

type Client struct {
	file FileValues
}

var _ ClientConfig = Client{}

// GetAPIBaseURL returns the auth service base URL without a trailing slash
func (c Client) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv(apiBaseURLVar, orDefault(c.file.APIBaseURL, "http://localhost:8000")), "/")
}

func (c Client) GetTokenStore() string {
	return strings.ToLower(GetEnv(tokenStoreVar, orDefault(c.file.TokenStore, TokenStoreFile)))
}

// GetTokenKey is the well-known key the bearer token is stored under
func (c Client) GetTokenKey() string {
	return GetEnv(tokenKeyVar, orDefault(c.file.TokenKey, "token"))
}

func (c Client) GetRequestTimeout() time.Duration {
	return GetEnvDuration(requestTimeoutVar, orDefaultDuration(c.file.RequestTimeout, 15*time.Second))
}
