package errors

import (
	"errors"
	"fmt"
)

// Common error types shared by the session client and the development auth service
var (
	// Account errors
	ErrUserNotFound = errors.New("user not found")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Two-factor errors
	ErrOTPRequired        = errors.New("2FA code required")
	ErrOTPInvalid         = errors.New("Invalid 2FA code")
	ErrOTPAlreadyEnabled  = errors.New("2FA is already enabled")
	ErrOTPNotEnabled      = errors.New("2FA is not enabled")
	ErrOTPSetupNotStarted = errors.New("2FA setup not initiated")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
