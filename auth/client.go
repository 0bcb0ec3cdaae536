package auth

import (
	"context"
	"time"

	"github.com/jrsteele09/go-backoffice-session/users"
)

// Token is the result of a successful credential exchange.
type Token struct {
	AccessToken string
	TokenType   string
	Expiry      time.Time // zero when the service does not say
}

// TwoFactorSetup is returned when enrolment starts; OTPAuthURL is the
// otpauth:// URI an authenticator app scans.
type TwoFactorSetup struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

// Client is the remote auth service as the session manager sees it.
type Client interface {
	// ExchangeCredentials trades identifier/secret (and otp when non-empty)
	// for a bearer token. Fails with ErrOTPRequired, ErrOTPInvalid or
	// ErrAuthenticationFailed.
	ExchangeCredentials(ctx context.Context, identifier, secret, otp string) (*Token, error)

	// FetchProfile returns the profile the token belongs to. Fails with
	// ErrUnauthorized for invalid/expired tokens or ErrTransport.
	FetchProfile(ctx context.Context, accessToken string) (*users.Profile, error)

	Setup2FA(ctx context.Context, accessToken string) (*TwoFactorSetup, error)
	Activate2FA(ctx context.Context, accessToken, code string) error
	Disable2FA(ctx context.Context, accessToken, code string) error
}
