package server

import (
	"encoding/json"
	"errors"
	"net/http"

	bserrors "github.com/jrsteele09/go-backoffice-session/internal/errors"
	"github.com/jrsteele09/go-backoffice-session/users"
)

// RegisterHandler creates an account. Admin only.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reg users.Registration
		if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "Invalid JSON body")
			return
		}
		if err := reg.Normalize(); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		_, err := s.accounts.GetByEmail(reg.Email)
		switch {
		case err == nil:
			writeDetail(w, http.StatusBadRequest, detailEmailRegistered)
			return
		case !errors.Is(err, bserrors.ErrUserNotFound):
			s.log.Err(err).Msg("account lookup failed")
			writeDetail(w, http.StatusInternalServerError, "Could not register user")
			return
		}

		account, err := s.createAccount(reg)
		if err != nil {
			s.log.Err(err).Str("email", reg.Email).Msg("failed to create account")
			writeDetail(w, http.StatusInternalServerError, "Could not register user")
			return
		}

		admin, _ := accountFromContext(r.Context())
		s.log.Info().Str("email", account.Email).Str("role", string(account.Role)).Str("by", admin.Email).Msg("account registered")
		writeJSON(w, http.StatusOK, account.Profile)
	}
}

func (s *Server) createAccount(reg users.Registration) (*users.Account, error) {
	hash, err := users.HashPassword(reg.Password)
	if err != nil {
		return nil, err
	}
	account := &users.Account{
		Profile:      users.Profile{Email: reg.Email, Role: reg.Role},
		FullName:     reg.FullName,
		PasswordHash: hash,
	}
	if err := s.accounts.Upsert(account); err != nil {
		return nil, err
	}
	return account, nil
}
