package main

import (
	"github.com/jrsteele09/go-backoffice-session/users"
	"github.com/spf13/cobra"
)

func newRegisterCmd(a *app) *cobra.Command {
	var reg users.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a back-office user (admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.manager.Require(users.RoleAdmin); err != nil {
				return err
			}

			var err error
			if reg.Email == "" {
				if reg.Email, err = a.prompt.line("Email: "); err != nil {
					return err
				}
			}
			if reg.Password, err = a.prompt.secret("Password for the new user: "); err != nil {
				return err
			}
			if err := reg.Normalize(); err != nil {
				return err
			}

			profile, err := a.client.RegisterUser(cmd.Context(), a.manager.TokenSource(), reg)
			if err != nil {
				return err
			}
			a.prompt.printf("registered %s (%s)\n", profile.Email, profile.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&reg.Email, "email", "", "email of the new user (prompted when empty)")
	cmd.Flags().StringVar(&reg.FullName, "name", "", "full name")
	cmd.Flags().Var((*roleFlag)(&reg.Role), "role", "ADMIN, ANALISTA or ADVOGADO (default ANALISTA)")
	return cmd
}

// roleFlag lets cobra validate --role as it is parsed.
type roleFlag users.RoleType

func (r *roleFlag) String() string { return string(*r) }

func (r *roleFlag) Set(s string) error {
	role, err := users.ParseRole(s)
	if err != nil {
		return err
	}
	*r = roleFlag(role)
	return nil
}

func (r *roleFlag) Type() string { return "role" }
