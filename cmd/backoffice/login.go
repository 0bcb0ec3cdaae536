package main

import (
	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-backoffice-session/auth"
	"github.com/jrsteele09/go-backoffice-session/sessions"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, code string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Long: `Sign in with email and password. The password is always prompted for.

When the account has two-factor authentication enabled the command asks for
the code from the authenticator app. Leave the code empty to cancel.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if user, ok := a.manager.CurrentUser(); ok {
				a.prompt.printf("already signed in as %s\n", user.Email)
				return nil
			}

			var err error
			if email == "" {
				if email, err = a.prompt.line("Email: "); err != nil {
					return err
				}
			}
			password, err := a.prompt.secret("Password: ")
			if err != nil {
				return err
			}

			err = a.manager.Login(ctx, email, password, code)
			for auth.IsOTPChallenge(err) && a.manager.AwaitingOTP() {
				if errors.Is(err, auth.ErrOTPInvalid) {
					a.prompt.println(sessions.UserMessage(err))
				}
				if code, err = a.prompt.line("Two-factor code (empty to cancel): "); err != nil {
					return err
				}
				if code == "" {
					a.manager.CancelOTPChallenge()
					a.prompt.println("login cancelled")
					return nil
				}
				err = a.manager.Login(ctx, email, password, code)
			}
			if err != nil {
				return err
			}

			user, _ := a.manager.CurrentUser()
			a.prompt.println(figure.NewFigure(a.cfg.GetAppName(), "cybermedium", true).String())
			a.prompt.printf("signed in as %s (%s)\n", user.Email, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when empty)")
	cmd.Flags().StringVar(&code, "otp", "", "two-factor code, skips the prompt")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.manager.Logout()
			a.prompt.println("signed out")
			return nil
		},
	}
}
