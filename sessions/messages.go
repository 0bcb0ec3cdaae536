package sessions

import (
	"github.com/jrsteele09/go-backoffice-session/auth"
	"github.com/pkg/errors"
)

const (
	MsgOTPRequired  = "two-factor code required"
	MsgOTPInvalid   = "invalid two-factor code"
	MsgLoginFailed  = "login failed, check your credentials"
	MsgProfile      = "signed in but the profile could not be loaded, try again"
	MsgNotSignedIn  = "not signed in"
	MsgForbidden    = "you do not have access to this area"
	MsgUnreachable  = "the service is unreachable, try again later"
	MsgInProgress   = "a login is already in progress"
	MsgAlreadyIn    = "already signed in, log out first"
	MsgSessionReset = "the session was reset while signing in"
)

// UserMessage turns an error from the Manager into text for the user. Nil
// gives "".
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, auth.ErrOTPRequired):
		return MsgOTPRequired
	case errors.Is(err, auth.ErrOTPInvalid):
		return MsgOTPInvalid
	case errors.Is(err, auth.ErrAuthenticationFailed), errors.Is(err, ErrMissingCredentials):
		return MsgLoginFailed
	case errors.Is(err, auth.ErrProfileFetchFailed):
		return MsgProfile
	case errors.Is(err, ErrNotAuthenticated), errors.Is(err, auth.ErrUnauthorized):
		return MsgNotSignedIn
	case errors.Is(err, ErrForbidden), errors.Is(err, auth.ErrForbidden):
		return MsgForbidden
	case errors.Is(err, auth.ErrTransport):
		return MsgUnreachable
	case errors.Is(err, ErrLoginInProgress):
		return MsgInProgress
	case errors.Is(err, ErrAlreadyAuthenticated):
		return MsgAlreadyIn
	case errors.Is(err, ErrSessionReset):
		return MsgSessionReset
	}
	return err.Error()
}
