package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/api"
)

// reset-password has two stages mirroring the email flow: request a mail with
// --email, then confirm with the mailed --token and a new password.
func newResetPasswordCmd() *cobra.Command {
	var email, token, password string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a forgotten password via email",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(configPath)
			if err != nil {
				return err
			}

			if token != "" {
				if password == "" {
					password, err = prompt("New password: ")
					if err != nil {
						return err
					}
				}
				if err := app.client.ResetPassword(cmd.Context(), api.PasswordResetConfirmation{
					Token:       token,
					NewPassword: password,
				}); err != nil {
					return err
				}
				fmt.Println("Password updated. Sign in with the login command.")
				return nil
			}

			if email == "" {
				email, err = prompt("Account email: ")
				if err != nil {
					return err
				}
			}
			if err := app.client.SendResetEmail(cmd.Context(), api.PasswordResetRequest{Email: email}); err != nil {
				return err
			}
			fmt.Println("Reset email sent. Rerun with --token once it arrives.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email to send the reset mail to")
	cmd.Flags().StringVar(&token, "token", "", "token from the reset mail")
	cmd.Flags().StringVarP(&password, "password", "p", "", "new password (with --token)")
	return cmd
}
