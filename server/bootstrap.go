package server

import (
	"errors"
	"fmt"

	bserrors "github.com/jrsteele09/go-backoffice-session/internal/errors"
	"github.com/jrsteele09/go-backoffice-session/users"
)

// InitialiseSystem makes sure the configured admin account exists, so a
// fresh server can be logged into and used to register everyone else.
func (s *Server) InitialiseSystem() error {
	email := s.config.GetAdminEmail()

	_, err := s.accounts.GetByEmail(email)
	if err == nil {
		s.log.Debug().Str("email", email).Msg("bootstrap: admin account present")
		return nil
	}
	if !errors.Is(err, bserrors.ErrUserNotFound) {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	reg := users.Registration{
		Email:    email,
		Password: s.config.GetAdminPassword(),
		FullName: "Administrator",
		Role:     users.RoleAdmin,
	}
	if err := reg.Normalize(); err != nil {
		return fmt.Errorf("invalid admin account settings: %w", err)
	}
	if _, err := s.createAccount(reg); err != nil {
		return fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	s.log.Info().Str("email", email).Msg("bootstrap: admin account created")
	return nil
}
