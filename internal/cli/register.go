package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/api"
)

func newRegisterCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(configPath)
			if err != nil {
				return err
			}

			if username == "" {
				username, err = prompt("Username: ")
				if err != nil {
					return err
				}
			}
			if email == "" {
				email, err = prompt("Email: ")
				if err != nil {
					return err
				}
			}
			if password == "" {
				password, err = prompt("Password: ")
				if err != nil {
					return err
				}
			}

			resp, err := app.client.Register(cmd.Context(), api.RegisterRequest{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}
			if resp.Error != "" {
				return fmt.Errorf("registration failed: %s", resp.Error)
			}
			if resp.Message != "" {
				fmt.Println(resp.Message)
			} else {
				fmt.Printf("Account %q created. Sign in with the login command.\n", username)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}
