package fakeauthclient

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-backoffice-session/auth"
	"github.com/jrsteele09/go-backoffice-session/users"
)

var _ auth.Client = (*FakeClient)(nil)

// Account is a user known to the fake. OTP is the only code accepted while
// the account has 2FA enabled.
type Account struct {
	Profile  users.Profile
	Password string
	OTP      string
	pending  bool // setup started, not yet activated
}

// FakeClient is an in-memory auth service. Counters and forced errors let
// tests assert which calls the session manager made.
type FakeClient struct {
	lock     sync.Mutex
	accounts map[string]*Account
	tokens   map[string]string // access token to email
	issued   int

	ExchangeCalls int
	ProfileCalls  int

	// ExchangeErr and ProfileErr, when set, are returned instead of the
	// normal answer.
	ExchangeErr error
	ProfileErr  error

	// ExchangeGate, when non-nil, blocks ExchangeCredentials until it is
	// closed or receives a value.
	ExchangeGate chan struct{}
	// ExchangeStarted, when non-nil, receives once per exchange before the
	// gate is awaited.
	ExchangeStarted chan struct{}

	// ProfileGate and ProfileStarted do the same for FetchProfile.
	ProfileGate    chan struct{}
	ProfileStarted chan struct{}
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		accounts: make(map[string]*Account),
		tokens:   make(map[string]string),
	}
}

// AddAccount registers an account and returns its profile. A non-empty otp
// turns 2FA on.
func (fc *FakeClient) AddAccount(email, password string, role users.RoleType, otp string) users.Profile {
	fc.lock.Lock()
	defer fc.lock.Unlock()

	profile := users.Profile{
		ID:           uuid.New(),
		Email:        email,
		Role:         role,
		Is2FAEnabled: otp != "",
	}
	fc.accounts[strings.ToLower(email)] = &Account{Profile: profile, Password: password, OTP: otp}
	return profile
}

// IssueToken hands out a valid token for email without an exchange, for
// seeding a token store before Start.
func (fc *FakeClient) IssueToken(email string) string {
	fc.lock.Lock()
	defer fc.lock.Unlock()
	return fc.issue(email)
}

// Revoke makes token unknown, as an expired or revoked session would be.
func (fc *FakeClient) Revoke(token string) {
	fc.lock.Lock()
	defer fc.lock.Unlock()
	delete(fc.tokens, token)
}

func (fc *FakeClient) ExchangeCredentials(ctx context.Context, identifier, secret, otp string) (*auth.Token, error) {
	fc.lock.Lock()
	fc.ExchangeCalls++
	gate, started := fc.ExchangeGate, fc.ExchangeStarted
	fc.lock.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w: %w", auth.ErrAuthenticationFailed, auth.ErrTransport, ctx.Err())
		}
	}

	fc.lock.Lock()
	defer fc.lock.Unlock()

	if fc.ExchangeErr != nil {
		return nil, fc.ExchangeErr
	}
	account, ok := fc.accounts[strings.ToLower(identifier)]
	if !ok || account.Password != secret {
		return nil, fmt.Errorf("%w: %w", auth.ErrAuthenticationFailed,
			&auth.APIError{StatusCode: 401, Detail: "Incorrect username or password"})
	}
	if account.Profile.Is2FAEnabled {
		if otp == "" {
			return nil, auth.ErrOTPRequired
		}
		if otp != account.OTP {
			return nil, auth.ErrOTPInvalid
		}
	}
	return &auth.Token{AccessToken: fc.issue(account.Profile.Email), TokenType: "bearer"}, nil
}

func (fc *FakeClient) FetchProfile(ctx context.Context, accessToken string) (*users.Profile, error) {
	fc.lock.Lock()
	fc.ProfileCalls++
	gate, started := fc.ProfileGate, fc.ProfileStarted
	fc.lock.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", auth.ErrTransport, ctx.Err())
		}
	}

	fc.lock.Lock()
	defer fc.lock.Unlock()

	if fc.ProfileErr != nil {
		return nil, fc.ProfileErr
	}
	account, err := fc.accountFor(accessToken)
	if err != nil {
		return nil, err
	}
	profile := account.Profile
	return &profile, nil
}

// Setup2FA starts enrolment; the fake's "secret" is the code later accepted.
func (fc *FakeClient) Setup2FA(_ context.Context, accessToken string) (*auth.TwoFactorSetup, error) {
	fc.lock.Lock()
	defer fc.lock.Unlock()

	account, err := fc.accountFor(accessToken)
	if err != nil {
		return nil, err
	}
	if account.Profile.Is2FAEnabled {
		return nil, auth.ErrOTPAlreadyEnabled
	}
	if account.OTP == "" {
		account.OTP = "123456"
	}
	account.pending = true
	return &auth.TwoFactorSetup{
		Secret:     account.OTP,
		OTPAuthURL: "otpauth://totp/Fake:" + account.Profile.Email + "?secret=" + account.OTP,
	}, nil
}

func (fc *FakeClient) Activate2FA(_ context.Context, accessToken, code string) error {
	fc.lock.Lock()
	defer fc.lock.Unlock()

	account, err := fc.accountFor(accessToken)
	if err != nil {
		return err
	}
	switch {
	case account.Profile.Is2FAEnabled:
		return auth.ErrOTPAlreadyEnabled
	case !account.pending:
		return auth.ErrOTPSetupNotStarted
	case code != account.OTP:
		return auth.ErrOTPInvalid
	}
	account.pending = false
	account.Profile.Is2FAEnabled = true
	return nil
}

func (fc *FakeClient) Disable2FA(_ context.Context, accessToken, code string) error {
	fc.lock.Lock()
	defer fc.lock.Unlock()

	account, err := fc.accountFor(accessToken)
	if err != nil {
		return err
	}
	if !account.Profile.Is2FAEnabled {
		return auth.ErrOTPNotEnabled
	}
	if code != account.OTP {
		return auth.ErrOTPInvalid
	}
	account.Profile.Is2FAEnabled = false
	account.OTP = ""
	return nil
}

func (fc *FakeClient) issue(email string) string {
	fc.issued++
	t := fmt.Sprintf("fake-token-%d", fc.issued)
	fc.tokens[t] = strings.ToLower(email)
	return t
}

func (fc *FakeClient) accountFor(accessToken string) (*Account, error) {
	email, ok := fc.tokens[accessToken]
	if !ok {
		return nil, fmt.Errorf("%w: %w", auth.ErrUnauthorized, &auth.APIError{StatusCode: 401, Detail: "Could not validate credentials"})
	}
	account, ok := fc.accounts[email]
	if !ok {
		return nil, fmt.Errorf("%w: account %s removed", auth.ErrUnauthorized, email)
	}
	return account, nil
}
