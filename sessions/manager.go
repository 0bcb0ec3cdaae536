package sessions

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-backoffice-session/auth"
	"github.com/jrsteele09/go-backoffice-session/token"
	"github.com/jrsteele09/go-backoffice-session/token/jwt"
	"github.com/jrsteele09/go-backoffice-session/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

type observer struct {
	id int
	fn func(State)
}

// Manager owns the authentication lifecycle of one client: the startup
// check, login with an optional 2FA challenge, logout and the 2FA
// enrolment calls. It is safe for concurrent use; network calls are made
// without holding the lock, token store writes are made while holding it.
type Manager struct {
	client auth.Client
	tokens token.Repo
	log    zerolog.Logger

	lock        sync.Mutex
	state       State
	user        *users.Profile
	accessToken string
	started     bool
	starting    bool
	loggingIn   bool
	epoch       uint64 // bumped by Logout, stale results are discarded

	observers  []observer
	observerID int
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

func WithLogger(l zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = l
	}
}

// NewManager returns a Manager in the Unknown state. Call Start before Login.
func NewManager(client auth.Client, tokens token.Repo, options ...ManagerOption) (*Manager, error) {
	if client == nil {
		return nil, errors.New("[NewManager] auth client is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewManager] token repo is required")
	}

	m := &Manager{
		client: client,
		tokens: tokens,
		log:    log.Logger,
		state:  StateUnknown,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Start runs the startup check once: with no stored token the session
// settles Anonymous without a network call; otherwise the profile is
// fetched and any failure discards the token. Only a failure to read the
// store is returned. Later calls do nothing.
func (m *Manager) Start(ctx context.Context) error {
	m.lock.Lock()
	if m.started || m.starting {
		m.lock.Unlock()
		return nil
	}
	m.starting = true
	epoch := m.epoch
	m.lock.Unlock()

	stored, err := m.tokens.Get(ctx)
	if err != nil {
		m.settleStart(epoch, StateAnonymous, nil, "", false)
		if errors.Is(err, token.ErrNoToken) {
			m.log.Debug().Msg("no stored session")
			return nil
		}
		return errors.Wrap(err, "[Manager.Start] read stored token")
	}

	profile, err := m.client.FetchProfile(ctx, stored)
	if err != nil {
		// Expired, revoked and unreachable are not told apart here.
		m.log.Info().Err(err).Msg("stored session rejected, signing out")
		m.settleStart(epoch, StateAnonymous, nil, "", true)
		return nil
	}

	m.settleStart(epoch, StateAuthenticated, profile, stored, false)
	return nil
}

func (m *Manager) settleStart(epoch uint64, to State, profile *users.Profile, accessToken string, discard bool) {
	m.lock.Lock()
	m.starting = false
	if epoch != m.epoch {
		// Logout ran meanwhile and already settled the session.
		m.lock.Unlock()
		return
	}
	m.started = true
	if discard {
		m.deleteStoredLocked()
	}
	changed := m.setLocked(to, profile, accessToken)
	m.lock.Unlock()

	if changed {
		m.notify(to)
	}
	if to == StateAuthenticated {
		m.log.Info().Str("email", profile.Email).Str("role", string(profile.Role)).Msg("session restored")
	}
}

// Login exchanges the credentials, with otp when non-empty, for a token,
// stores it and loads the profile. ErrOTPRequired and ErrOTPInvalid move the
// session to AwaitingOTP and are returned as-is, as are all other exchange
// failures, which leave the state alone.
func (m *Manager) Login(ctx context.Context, identifier, secret, otp string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		return ErrMissingCredentials
	}

	m.lock.Lock()
	switch {
	case m.state == StateUnknown:
		m.lock.Unlock()
		return ErrNotStarted
	case m.state == StateAuthenticated:
		m.lock.Unlock()
		return ErrAlreadyAuthenticated
	case m.loggingIn:
		m.lock.Unlock()
		return ErrLoginInProgress
	}
	m.loggingIn = true
	epoch := m.epoch
	m.lock.Unlock()

	defer func() {
		m.lock.Lock()
		m.loggingIn = false
		m.lock.Unlock()
	}()

	tok, err := m.client.ExchangeCredentials(ctx, identifier, secret, otp)
	if err != nil {
		if auth.IsOTPChallenge(err) {
			m.transition(epoch, StateAwaitingOTP)
			m.log.Info().Str("email", identifier).Bool("otp_supplied", otp != "").Msg("2FA challenge")
		} else {
			m.log.Info().Err(err).Str("email", identifier).Msg("login failed")
		}
		return err
	}

	m.lock.Lock()
	if epoch != m.epoch {
		m.lock.Unlock()
		return ErrSessionReset
	}
	if err := m.tokens.Set(ctx, tok.AccessToken); err != nil {
		m.lock.Unlock()
		return errors.Wrap(err, "[Manager.Login] store token")
	}
	m.lock.Unlock()

	profile, err := m.client.FetchProfile(ctx, tok.AccessToken)
	if err != nil {
		m.lock.Lock()
		changed := false
		if epoch == m.epoch {
			m.deleteStoredLocked()
			changed = m.setLocked(StateAnonymous, nil, "")
		}
		m.lock.Unlock()
		if changed {
			m.notify(StateAnonymous)
		}
		m.log.Err(err).Str("email", identifier).Msg("profile fetch failed after token exchange")
		return fmt.Errorf("%w: %w", auth.ErrProfileFetchFailed, err)
	}

	m.lock.Lock()
	if epoch != m.epoch {
		m.lock.Unlock()
		return ErrSessionReset
	}
	changed := m.setLocked(StateAuthenticated, profile, tok.AccessToken)
	m.lock.Unlock()

	if changed {
		m.notify(StateAuthenticated)
	}
	m.log.Info().Str("email", profile.Email).Str("role", string(profile.Role)).Msg("logged in")
	return nil
}

// Logout clears the user, the token and the stored copy from any state,
// Unknown included. A Login or Start still in flight is discarded when it
// returns.
func (m *Manager) Logout() {
	m.lock.Lock()
	m.epoch++
	m.started = true
	prev := m.state
	m.deleteStoredLocked()
	changed := m.setLocked(StateAnonymous, nil, "")
	m.lock.Unlock()

	if changed {
		m.notify(StateAnonymous)
		m.log.Info().Str("from", prev.String()).Msg("logged out")
	}
}

// CancelOTPChallenge abandons a pending 2FA challenge. It does nothing in
// any other state and does not stop a Login in flight.
func (m *Manager) CancelOTPChallenge() {
	m.lock.Lock()
	if m.state != StateAwaitingOTP {
		m.lock.Unlock()
		return
	}
	m.setLocked(StateAnonymous, nil, "")
	m.lock.Unlock()

	m.notify(StateAnonymous)
}

func (m *Manager) State() State {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.state
}

func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// IsLoading is true while the startup check is in flight.
func (m *Manager) IsLoading() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.state == StateUnknown && m.starting
}

func (m *Manager) AwaitingOTP() bool {
	return m.State() == StateAwaitingOTP
}

// CurrentUser returns a copy of the confirmed profile.
func (m *Manager) CurrentUser() (users.Profile, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.user == nil {
		return users.Profile{}, false
	}
	return *m.user, true
}

// Require guards protected areas: the session must be authenticated and,
// when roles are given, the user must hold one of them.
func (m *Manager) Require(roles ...users.RoleType) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.state != StateAuthenticated || m.user == nil {
		return ErrNotAuthenticated
	}
	if len(roles) > 0 && !m.user.HasRole(roles...) {
		return errors.Wrapf(ErrForbidden, "role %s", m.user.Role)
	}
	return nil
}

// TokenExpiry reports the exp claim of the session token when it is a JWT.
func (m *Manager) TokenExpiry() (time.Time, bool) {
	m.lock.Lock()
	raw := m.accessToken
	m.lock.Unlock()

	if raw == "" {
		return time.Time{}, false
	}
	claims, err := jwt.Inspect(raw)
	if err != nil || claims.ExpiresAt.IsZero() {
		return time.Time{}, false
	}
	return claims.ExpiresAt, true
}

// TokenSource exposes the session token to oauth2.NewClient for calls to
// other API resources. It fails with ErrNotAuthenticated once logged out.
func (m *Manager) TokenSource() oauth2.TokenSource {
	return managerTokenSource{m: m}
}

type managerTokenSource struct {
	m *Manager
}

func (ts managerTokenSource) Token() (*oauth2.Token, error) {
	raw, err := ts.m.bearer()
	if err != nil {
		return nil, err
	}
	tok := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}
	if exp, ok := ts.m.TokenExpiry(); ok {
		tok.Expiry = exp
	}
	return tok, nil
}

// Subscribe registers fn to be called with the new state after every state
// change. Calls happen outside the Manager's lock, in subscription order.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.observerID++
	id := m.observerID
	m.observers = append(m.observers, observer{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			m.lock.Lock()
			defer m.lock.Unlock()
			for i, o := range m.observers {
				if o.id == id {
					m.observers = append(m.observers[:i:i], m.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// transition moves to state unless Logout ran since epoch was taken.
func (m *Manager) transition(epoch uint64, to State) {
	m.lock.Lock()
	changed := false
	if epoch == m.epoch {
		changed = m.setLocked(to, m.user, m.accessToken)
	}
	m.lock.Unlock()

	if changed {
		m.notify(to)
	}
}

func (m *Manager) setLocked(to State, profile *users.Profile, accessToken string) bool {
	changed := m.state != to
	m.state = to
	m.user = profile
	m.accessToken = accessToken
	return changed
}

func (m *Manager) deleteStoredLocked() {
	if err := m.tokens.Delete(context.Background()); err != nil {
		m.log.Err(err).Msg("failed to remove stored token")
	}
}

func (m *Manager) bearer() (string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.state != StateAuthenticated || m.accessToken == "" {
		return "", ErrNotAuthenticated
	}
	return m.accessToken, nil
}

func (m *Manager) notify(s State) {
	m.lock.Lock()
	observers := make([]observer, len(m.observers))
	copy(observers, m.observers)
	m.lock.Unlock()

	for _, o := range observers {
		o.fn(s)
	}
}
