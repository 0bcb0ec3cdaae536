package server

import (
	"net/http"
	"strings"

	bserrors "github.com/jrsteele09/go-backoffice-session/internal/errors"
	"github.com/jrsteele09/go-backoffice-session/users"
	"github.com/pquerna/otp/totp"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenHandler is the password grant. Accounts with 2FA enabled must also
// send a current TOTP code as the otp_code query parameter.
func (s *Server) TokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid form body")
			return
		}
		if gt := r.PostForm.Get("grant_type"); gt != "" && gt != "password" {
			writeDetail(w, http.StatusBadRequest, "Unsupported grant_type")
			return
		}

		email := strings.TrimSpace(r.PostForm.Get("username"))
		password := r.PostForm.Get("password")

		account, err := s.accounts.GetByEmail(email)
		if err != nil || !users.CheckPasswordHash(password, account.PasswordHash) {
			s.log.Info().Str("email", email).Msg("login rejected")
			writeUnauthorized(w, detailBadCredentials)
			return
		}

		if account.Is2FAEnabled {
			code := r.URL.Query().Get(otpQueryParam)
			if code == "" {
				writeUnauthorized(w, bserrors.ErrOTPRequired.Error())
				return
			}
			if !totp.Validate(code, account.Secret2FA) {
				s.log.Info().Str("email", email).Msg("invalid 2FA code")
				writeUnauthorized(w, bserrors.ErrOTPInvalid.Error())
				return
			}
		}

		accessToken, _, err := s.tokens.CreateAccessToken(account.Email)
		if err != nil {
			s.log.Err(err).Str("email", email).Msg("failed to sign access token")
			writeDetail(w, http.StatusInternalServerError, "Could not issue token")
			return
		}

		s.log.Info().Str("email", account.Email).Bool("two_factor", account.Is2FAEnabled).Msg("token issued")
		writeJSON(w, http.StatusOK, tokenResponse{AccessToken: accessToken, TokenType: "bearer"})
	}
}

// MeHandler returns the profile of the bearer.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r.Context())
		if !ok {
			writeUnauthorized(w, detailCouldNotVerify)
			return
		}
		writeJSON(w, http.StatusOK, account.Profile)
	}
}
