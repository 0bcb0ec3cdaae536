package sessions

import (
	"context"

	"github.com/jrsteele09/go-backoffice-session/auth"
	"github.com/pkg/errors"
)

// Setup2FA starts enrolment for the signed-in user and returns the secret
// and otpauth:// URL to hand to an authenticator app.
func (m *Manager) Setup2FA(ctx context.Context) (*auth.TwoFactorSetup, error) {
	raw, err := m.bearer()
	if err != nil {
		return nil, err
	}
	setup, err := m.client.Setup2FA(ctx, raw)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.Setup2FA]")
	}
	return setup, nil
}

// Activate2FA confirms enrolment with a code from the authenticator app.
func (m *Manager) Activate2FA(ctx context.Context, code string) error {
	return m.changeTwoFactor(ctx, code, m.client.Activate2FA, "[Manager.Activate2FA]")
}

// Disable2FA turns 2FA off; the backend wants a current code.
func (m *Manager) Disable2FA(ctx context.Context, code string) error {
	return m.changeTwoFactor(ctx, code, m.client.Disable2FA, "[Manager.Disable2FA]")
}

func (m *Manager) changeTwoFactor(ctx context.Context, code string, call func(context.Context, string, string) error, op string) error {
	if code == "" {
		return errors.Wrap(auth.ErrOTPRequired, op)
	}
	m.lock.Lock()
	if m.state != StateAuthenticated {
		m.lock.Unlock()
		return ErrNotAuthenticated
	}
	raw, epoch := m.accessToken, m.epoch
	m.lock.Unlock()

	if err := call(ctx, raw, code); err != nil {
		return errors.Wrap(err, op)
	}

	// Refresh so CurrentUser reports the new is_2fa_enabled.
	profile, err := m.client.FetchProfile(ctx, raw)
	if err != nil {
		m.log.Warn().Err(err).Msg("profile refresh after 2FA change failed")
		return nil
	}
	m.lock.Lock()
	if epoch == m.epoch && m.state == StateAuthenticated {
		m.user = profile
	}
	m.lock.Unlock()
	m.log.Info().Str("email", profile.Email).Bool("two_factor", profile.Is2FAEnabled).Msg("2FA settings changed")
	return nil
}
