package auth

import (
	"errors"
	"fmt"

	bserrors "github.com/jrsteele09/go-backoffice-session/internal/errors"
)

var (
	// ErrOTPRequired: the account has 2FA enabled and no code was sent.
	ErrOTPRequired = bserrors.ErrOTPRequired
	// ErrOTPInvalid: a code was sent and rejected.
	ErrOTPInvalid = bserrors.ErrOTPInvalid

	ErrOTPAlreadyEnabled  = bserrors.ErrOTPAlreadyEnabled
	ErrOTPNotEnabled      = bserrors.ErrOTPNotEnabled
	ErrOTPSetupNotStarted = bserrors.ErrOTPSetupNotStarted

	// ErrAuthenticationFailed covers bad credentials, disabled accounts and,
	// during the credential exchange, transport failures.
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrTransport            = errors.New("transport error")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrProfileFetchFailed   = errors.New("profile fetch failed")
	ErrUnexpectedResponse   = errors.New("unexpected response from auth service")
)

// APIError is a non-2xx answer from the auth service.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("auth service returned %d", e.StatusCode)
	}
	return fmt.Sprintf("auth service returned %d: %s", e.StatusCode, e.Detail)
}

// detailErrors maps the backend's detail strings onto sentinels.
var detailErrors = map[string]error{
	ErrOTPRequired.Error():        ErrOTPRequired,
	ErrOTPInvalid.Error():         ErrOTPInvalid,
	ErrOTPAlreadyEnabled.Error():  ErrOTPAlreadyEnabled,
	ErrOTPNotEnabled.Error():      ErrOTPNotEnabled,
	ErrOTPSetupNotStarted.Error(): ErrOTPSetupNotStarted,
}

// IsOTPChallenge reports whether err asks the user for a (new) 2FA code.
func IsOTPChallenge(err error) bool {
	return errors.Is(err, ErrOTPRequired) || errors.Is(err, ErrOTPInvalid)
}
