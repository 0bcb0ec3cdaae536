package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-backoffice-session/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	routeToken       = "/auth/token"
	routeMe          = "/auth/me"
	route2FASetup    = "/auth/2fa/setup"
	route2FAActivate = "/auth/2fa/activate"
	route2FADisable  = "/auth/2fa/disable"
	routeRegister    = "/auth/register"

	otpQueryParam = "otp_code"

	defaultTimeout  = 15 * time.Second
	maxErrorBodyLen = 4096
)

var _ Client = (*HTTPClient)(nil)

// HTTPClient talks to the back-office REST API. The token endpoint is an
// OAuth2 password grant; the one-time code travels as a query parameter.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// HTTPClientOption defines a function type to modify the HTTPClient instance.
type HTTPClientOption func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client (timeouts, proxies, tests).
func WithHTTPClient(c *http.Client) HTTPClientOption {
	return func(hc *HTTPClient) {
		hc.httpClient = c
	}
}

func WithTimeout(d time.Duration) HTTPClientOption {
	return func(hc *HTTPClient) {
		hc.httpClient = &http.Client{Timeout: d}
	}
}

func WithLogger(l zerolog.Logger) HTTPClientOption {
	return func(hc *HTTPClient) {
		hc.log = l
	}
}

// NewHTTPClient creates a client for the API rooted at baseURL
// (e.g. "https://api.example.com").
func NewHTTPClient(baseURL string, options ...HTTPClientOption) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("[NewHTTPClient] invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("[NewHTTPClient] base URL must be http or https, got %q", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("[NewHTTPClient] base URL has no host: %q", baseURL)
	}

	hc := &HTTPClient{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        log.Logger,
	}
	for _, opt := range options {
		opt(hc)
	}
	return hc, nil
}

// ExchangeCredentials implements Client.
func (c *HTTPClient) ExchangeCredentials(ctx context.Context, identifier, secret, otp string) (*Token, error) {
	tokenURL := c.baseURL + routeToken
	if otp != "" {
		tokenURL += "?" + url.Values{otpQueryParam: {otp}}.Encode()
	}

	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL: tokenURL,
			// Params only: auto-detection would retry a rejected login
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	tok, err := conf.PasswordCredentialsToken(c.oauthContext(ctx), identifier, secret)
	if err != nil {
		err = classifyTokenError(err)
		c.log.Debug().Err(err).Bool("otp_supplied", otp != "").Msg("credential exchange failed")
		return nil, err
	}

	c.log.Debug().Bool("otp_supplied", otp != "").Msg("credential exchange succeeded")
	return &Token{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		Expiry:      tok.Expiry,
	}, nil
}

// FetchProfile implements Client.
func (c *HTTPClient) FetchProfile(ctx context.Context, accessToken string) (*users.Profile, error) {
	var profile users.Profile
	if err := c.doJSON(ctx, http.MethodGet, routeMe, bearer(accessToken), nil, nil, &profile); err != nil {
		return nil, err
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("%w: profile without email", ErrUnexpectedResponse)
	}
	return &profile, nil
}

// Setup2FA implements Client.
func (c *HTTPClient) Setup2FA(ctx context.Context, accessToken string) (*TwoFactorSetup, error) {
	var setup TwoFactorSetup
	if err := c.doJSON(ctx, http.MethodPost, route2FASetup, bearer(accessToken), nil, nil, &setup); err != nil {
		return nil, err
	}
	if setup.Secret == "" || setup.OTPAuthURL == "" {
		return nil, fmt.Errorf("%w: incomplete 2FA setup response", ErrUnexpectedResponse)
	}
	return &setup, nil
}

// Activate2FA implements Client.
func (c *HTTPClient) Activate2FA(ctx context.Context, accessToken, code string) error {
	return c.doJSON(ctx, http.MethodPost, route2FAActivate, bearer(accessToken), url.Values{otpQueryParam: {code}}, nil, nil)
}

// Disable2FA implements Client.
func (c *HTTPClient) Disable2FA(ctx context.Context, accessToken, code string) error {
	return c.doJSON(ctx, http.MethodPost, route2FADisable, bearer(accessToken), url.Values{otpQueryParam: {code}}, nil, nil)
}

// RegisterUser creates an account. ts must yield an admin's token, e.g. the
// session manager's TokenSource.
func (c *HTTPClient) RegisterUser(ctx context.Context, ts oauth2.TokenSource, reg users.Registration) (*users.Profile, error) {
	body, err := json.Marshal(reg)
	if err != nil {
		return nil, fmt.Errorf("[HTTPClient.RegisterUser] encode: %w", err)
	}
	var profile users.Profile
	if err := c.doJSON(ctx, http.MethodPost, routeRegister, ts, nil, body, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func bearer(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
}

// oauthContext makes the oauth2 package use our *http.Client.
func (c *HTTPClient) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// doJSON performs an authenticated request, with body sent as JSON when
// non-nil, and decodes a JSON answer into out (skipped when out is nil).
func (c *HTTPClient) doJSON(ctx context.Context, method, route string, ts oauth2.TokenSource, query url.Values, body []byte, out any) error {
	endpoint := c.baseURL + route
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("[HTTPClient] build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := oauth2.NewClient(c.oauthContext(ctx), ts)

	resp, err := client.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("route", route).Msg("auth service unreachable")
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, route, err)
	}
	defer resp.Body.Close()

	c.log.Debug().Str("method", method).Str("route", route).Int("status", resp.StatusCode).Msg("auth service call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		return responseError(resp.StatusCode, body)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnexpectedResponse, route, err)
	}
	return nil
}

// classifyTokenError maps an oauth2 token retrieval failure onto the
// taxonomy: the two 2FA answers stay distinct, everything else is an
// authentication failure (transport ones additionally match ErrTransport).
func classifyTokenError(err error) error {
	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) {
		status := 0
		if rErr.Response != nil {
			status = rErr.Response.StatusCode
		}
		apiErr := &APIError{StatusCode: status, Detail: detailFrom(rErr.Body)}
		if status == http.StatusUnauthorized {
			if sentinel, ok := detailErrors[apiErr.Detail]; ok && IsOTPChallenge(sentinel) {
				return fmt.Errorf("%w: %w", sentinel, apiErr)
			}
		}
		return fmt.Errorf("%w: %w", ErrAuthenticationFailed, apiErr)
	}

	if isTransportError(err) {
		return fmt.Errorf("%w: %w: %w", ErrAuthenticationFailed, ErrTransport, err)
	}
	return fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
}

func responseError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status, Detail: detailFrom(body)}
	switch {
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", ErrUnauthorized, apiErr)
	case status == http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrForbidden, apiErr)
	case status == http.StatusBadRequest:
		if sentinel, ok := detailErrors[apiErr.Detail]; ok {
			return fmt.Errorf("%w: %w", sentinel, apiErr)
		}
	}
	return fmt.Errorf("%w: %w", ErrUnexpectedResponse, apiErr)
}

// detailFrom extracts FastAPI's {"detail": "..."}; non-string details and
// non-JSON bodies are returned as trimmed text.
func detailFrom(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return s
		}
		return string(payload.Detail)
	}
	return strings.TrimSpace(string(body))
}

func isTransportError(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}
