package server

import (
	"net/http"

	bserrors "github.com/jrsteele09/go-backoffice-session/internal/errors"
	"github.com/pquerna/otp/totp"
)

type setupResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

// Setup2FAHandler stores a fresh TOTP secret; 2FA stays off until activated.
func (s *Server) Setup2FAHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r.Context())
		if !ok {
			writeUnauthorized(w, detailCouldNotVerify)
			return
		}
		if account.Is2FAEnabled {
			writeDetail(w, http.StatusBadRequest, bserrors.ErrOTPAlreadyEnabled.Error())
			return
		}

		key, err := totp.Generate(totp.GenerateOpts{
			Issuer:      s.issuer,
			AccountName: account.Email,
		})
		if err != nil {
			s.log.Err(err).Str("email", account.Email).Msg("failed to generate TOTP secret")
			writeDetail(w, http.StatusInternalServerError, "Could not generate 2FA secret")
			return
		}
		if err := s.accounts.SetSecret2FA(account.Email, key.Secret()); err != nil {
			s.log.Err(err).Str("email", account.Email).Msg("failed to store TOTP secret")
			writeDetail(w, http.StatusInternalServerError, "Could not store 2FA secret")
			return
		}

		s.log.Info().Str("email", account.Email).Msg("2FA setup started")
		writeJSON(w, http.StatusOK, setupResponse{Secret: key.Secret(), OTPAuthURL: key.URL()})
	}
}

func (s *Server) Activate2FAHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r.Context())
		if !ok {
			writeUnauthorized(w, detailCouldNotVerify)
			return
		}
		switch {
		case account.Is2FAEnabled:
			writeDetail(w, http.StatusBadRequest, bserrors.ErrOTPAlreadyEnabled.Error())
			return
		case account.Secret2FA == "":
			writeDetail(w, http.StatusBadRequest, bserrors.ErrOTPSetupNotStarted.Error())
			return
		case !totp.Validate(r.URL.Query().Get(otpQueryParam), account.Secret2FA):
			writeDetail(w, http.StatusBadRequest, bserrors.ErrOTPInvalid.Error())
			return
		}

		if err := s.accounts.Set2FAEnabled(account.Email, true); err != nil {
			s.log.Err(err).Str("email", account.Email).Msg("failed to enable 2FA")
			writeDetail(w, http.StatusInternalServerError, "Could not enable 2FA")
			return
		}
		s.log.Info().Str("email", account.Email).Msg("2FA enabled")
		writeMessage(w, "2FA enabled successfully")
	}
}

// Disable2FAHandler needs a current code and forgets the secret.
func (s *Server) Disable2FAHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r.Context())
		if !ok {
			writeUnauthorized(w, detailCouldNotVerify)
			return
		}
		if !account.Is2FAEnabled {
			writeDetail(w, http.StatusBadRequest, bserrors.ErrOTPNotEnabled.Error())
			return
		}
		if !totp.Validate(r.URL.Query().Get(otpQueryParam), account.Secret2FA) {
			writeDetail(w, http.StatusBadRequest, bserrors.ErrOTPInvalid.Error())
			return
		}

		if err := s.accounts.Set2FAEnabled(account.Email, false); err != nil {
			s.log.Err(err).Str("email", account.Email).Msg("failed to disable 2FA")
			writeDetail(w, http.StatusInternalServerError, "Could not disable 2FA")
			return
		}
		s.log.Info().Str("email", account.Email).Msg("2FA disabled")
		writeMessage(w, "2FA disabled successfully")
	}
}
