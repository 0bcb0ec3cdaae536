package main

import (
	"context"
	"io"
	"os"

	"github.com/jrsteele09/go-backoffice-session/auth"
	"github.com/jrsteele09/go-backoffice-session/internal/config"
	"github.com/jrsteele09/go-backoffice-session/internal/logging"
	"github.com/jrsteele09/go-backoffice-session/sessions"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app is what every subcommand works with, built once per invocation.
type app struct {
	cfg     config.Config
	client  *auth.HTTPClient
	manager *sessions.Manager
	prompt  *prompter
	close   func() error
}

// execute runs one CLI invocation and releases the token store afterwards,
// whether or not the command failed.
func execute(ctx context.Context, in io.Reader, out io.Writer, args []string) error {
	a := &app{prompt: newPrompter(in, out)}
	defer a.shutdown()

	cmd := newRootCmd(a)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "backoffice",
		Short: "Sign in to the back-office API",
		Long: `backoffice manages the session used to call the back-office API.

The bearer token is kept in the data folder between runs and checked
against the auth service every time a command starts.

Examples:
  backoffice login --email lawyer@example.com
  backoffice status
  backoffice 2fa setup --qr qr.png
  backoffice logout`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return a.setup(cmd, cfgFile)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "TOML config file (default $BACKOFFICE_CONFIG)")

	rootCmd.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newStatusCmd(a),
		newWhoamiCmd(a),
		newTwoFactorCmd(a),
		newRegisterCmd(a),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, cfgFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	logger := logging.Setup(cfg.GetLogLevel(), cfg.GetEnv(), os.Stderr)

	tokens, closer, err := openTokenStore(cfg)
	if err != nil {
		return err
	}
	a.close = closer

	a.client, err = auth.NewHTTPClient(cfg.GetAPIBaseURL(), auth.WithTimeout(cfg.GetRequestTimeout()), auth.WithLogger(logger))
	if err != nil {
		return err
	}
	a.manager, err = sessions.NewManager(a.client, tokens, sessions.WithLogger(logger))
	if err != nil {
		return err
	}

	// An unreadable store leaves the session anonymous; login still works.
	if err := a.manager.Start(cmd.Context()); err != nil {
		logger.Warn().Err(err).Msg("stored session could not be restored")
	}
	return nil
}

func (a *app) shutdown() {
	if a.close == nil {
		return
	}
	if err := a.close(); err != nil {
		log.Err(err).Msg("failed to close token store")
	}
}
