package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/api"
	"github.com/razmataz100/maxs-music-quiz-frontend/internal/store"
)

func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
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
			if password == "" {
				password, err = prompt("Password: ")
				if err != nil {
					return err
				}
			}

			auth, err := app.client.Login(cmd.Context(), api.LoginRequest{
				Username: username,
				Password: password,
			})
			if err != nil {
				return err
			}

			saved := store.Auth{
				Token:      auth.Token,
				Expiration: auth.Expiration,
				UserID:     auth.UserID,
				Username:   auth.Username,
				UserRole:   auth.UserRole,
			}
			if saved.Expiration.IsZero() {
				if exp, ok := store.ExpiryFromToken(saved.Token); ok {
					saved.Expiration = exp
				}
			}
			if err := app.store.SaveAuth(cmd.Context(), saved); err != nil {
				return err
			}

			fmt.Printf("Signed in as %s\n", auth.Username)
			if app.cfg.Redis.Addr == "" {
				fmt.Println("Note: no redis configured; the session lives only for this process.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
