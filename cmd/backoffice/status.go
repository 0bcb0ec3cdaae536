package main

import (
	"time"

	"github.com/jrsteele09/go-backoffice-session/sessions"
	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.prompt.printf("state: %s\n", a.manager.State())

			user, ok := a.manager.CurrentUser()
			if !ok {
				return nil
			}
			a.prompt.printf("user: %s\nrole: %s\n2fa: %t\n", user.Email, user.Role, user.Is2FAEnabled)
			if exp, ok := a.manager.TokenExpiry(); ok {
				a.prompt.printf("expires: %s (in %s)\n", exp.Format(time.RFC3339), time.Until(exp).Round(time.Second))
			}
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, ok := a.manager.CurrentUser()
			if !ok {
				return sessions.ErrNotAuthenticated
			}
			a.prompt.println(user.Email)
			return nil
		},
	}
}
