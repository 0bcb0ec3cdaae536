package main

import (
	"image/png"
	"os"

	"github.com/pkg/errors"
	"github.com/pquerna/otp"
	"github.com/spf13/cobra"
)

const qrSize = 256

func newTwoFactorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "2fa",
		Short: "Manage two-factor authentication",
	}
	cmd.AddCommand(newTwoFactorSetupCmd(a), newTwoFactorActivateCmd(a), newTwoFactorDisableCmd(a))
	return cmd
}

func newTwoFactorSetupCmd(a *app) *cobra.Command {
	var qrPath string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Start enrolment and print the authenticator secret",
		Long: `Start two-factor enrolment. Add the printed secret (or the QR code written
with --qr) to an authenticator app, then confirm with "2fa activate <code>".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			setup, err := a.manager.Setup2FA(cmd.Context())
			if err != nil {
				return err
			}
			a.prompt.printf("secret: %s\nurl: %s\n", setup.Secret, setup.OTPAuthURL)

			if qrPath == "" {
				return nil
			}
			if err := writeQR(qrPath, setup.OTPAuthURL); err != nil {
				return err
			}
			a.prompt.printf("qr code written to %s\n", qrPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&qrPath, "qr", "", "write the enrolment QR code to this PNG file")
	return cmd
}

func newTwoFactorActivateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <code>",
		Short: "Confirm enrolment with a code from the authenticator app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.manager.Activate2FA(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.prompt.println("2FA enabled")
			return nil
		},
	}
}

func newTwoFactorDisableCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disable <code>",
		Short: "Turn two-factor authentication off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.manager.Disable2FA(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.prompt.println("2FA disabled")
			return nil
		},
	}
}

func writeQR(path, otpURL string) error {
	key, err := otp.NewKeyFromURL(otpURL)
	if err != nil {
		return errors.Wrap(err, "parse otpauth url")
	}
	img, err := key.Image(qrSize, qrSize)
	if err != nil {
		return errors.Wrap(err, "render qr code")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return f.Close()
}
