package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/api"
	"github.com/razmataz100/maxs-music-quiz-frontend/internal/bus"
)

func newProfileCmd() *cobra.Command {
	var username, email, picture string
	var removePicture, logout bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if logout {
				if err := app.store.Clear(ctx); err != nil {
					return err
				}
				app.bus.Publish(bus.TopicSessionCleared, nil)
				fmt.Println("Signed out.")
				return nil
			}

			if picture != "" {
				file, err := os.Open(picture)
				if err != nil {
					return err
				}
				defer file.Close()
				result, err := app.client.UploadProfilePicture(ctx, filepath.Base(picture), file)
				if err != nil {
					return err
				}
				app.bus.Publish(bus.TopicProfilePictureUpdated, result.ImageURL)
				fmt.Printf("Profile picture updated: %s\n", result.ImageURL)
				return nil
			}

			if removePicture {
				if err := app.client.DeleteProfilePicture(ctx); err != nil {
					return err
				}
				app.bus.Publish(bus.TopicProfilePictureUpdated, "")
				fmt.Println("Profile picture removed.")
				return nil
			}

			if username != "" || email != "" {
				current, err := app.client.Profile(ctx)
				if err != nil {
					return err
				}
				req := api.UpdateUserRequest{Username: current.Username, Email: current.Email}
				if username != "" {
					req.Username = username
				}
				if email != "" {
					req.Email = email
				}
				updated, err := app.client.UpdateProfile(ctx, req)
				if err != nil {
					return err
				}
				fmt.Printf("Profile updated: %s <%s>\n", updated.Username, updated.Email)
				return nil
			}

			user, err := app.client.Profile(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%s <%s>\n", user.Username, user.Email)
			fmt.Printf("Total score: %d over %d questions (avg %.1f)\n",
				user.TotalScore, user.TotalQuestionsAnswered, user.AverageScore)
			if user.ProfilePictureURL != nil {
				fmt.Printf("Picture: %s\n", *user.ProfilePictureURL)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "new username")
	cmd.Flags().StringVar(&email, "email", "", "new email")
	cmd.Flags().StringVar(&picture, "picture", "", "upload this image as profile picture")
	cmd.Flags().BoolVar(&removePicture, "remove-picture", false, "remove the profile picture")
	cmd.Flags().BoolVar(&logout, "logout", false, "clear the stored session")
	return cmd
}
