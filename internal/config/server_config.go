package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	portEnvVar           = "PORT"
	jwtSecretVar         = "JWT_SECRET"
	accessTokenExpireVar = "ACCESS_TOKEN_EXPIRE"
	adminEmailVar        = "ADMIN_EMAIL"
	adminPasswordVar     = "ADMIN_PASSWORD"
	totpIssuerVar        = "TOTP_ISSUER"
)

type Server struct {
	file FileValues
}

var _ ServerConfig = Server{}

func (s Server) GetPort() string {
	port := GetEnv(portEnvVar, orDefault(s.file.Port, "8000"))
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (s Server) GetJWTSecret() string {
	return GetEnv(jwtSecretVar, orDefault(s.file.JWTSecret, "dev-secret-change-me"))
}

func (s Server) GetAccessTokenExpiry() time.Duration {
	return GetEnvDuration(accessTokenExpireVar, orDefaultDuration(s.file.AccessTokenExpire, 30*time.Minute))
}

func (s Server) GetAdminEmail() string {
	return GetEnv(adminEmailVar, orDefault(s.file.AdminEmail, "admin@example.com"))
}

// GetTOTPIssuer is the issuer authenticator apps show next to the code
func (s Server) GetTOTPIssuer() string {
	return GetEnv(totpIssuerVar, orDefault(s.file.TOTPIssuer, "Contas a Pagar e Receber"))
}

func (s Server) GetAdminPassword() string {
	return GetEnv(adminPasswordVar, orDefault(s.file.AdminPassword, "Admin123"))
}
