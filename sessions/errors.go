package sessions

import "errors"

var (
	ErrMissingCredentials   = errors.New("identifier and secret are required")
	ErrNotStarted           = errors.New("session not started")
	ErrAlreadyAuthenticated = errors.New("session already authenticated")
	ErrLoginInProgress      = errors.New("login already in progress")
	// ErrSessionReset is returned by a Login that completed after a Logout.
	ErrSessionReset     = errors.New("session reset during login")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
)
