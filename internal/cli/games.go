package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/domain"
)

func newGamesCmd() *cobra.Command {
	var theme, playlist string
	var deleteID, historyID, historyLimit int

	cmd := &cobra.Command{
		Use:   "games",
		Short: "Browse, create, or delete quizzes",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if theme != "" || playlist != "" {
				if theme == "" || playlist == "" {
					return fmt.Errorf("creating a game needs both --theme and --playlist")
				}
				if err := app.client.CreateGame(ctx, domain.CreateGameRequest{
					Theme:       theme,
					PlaylistURL: playlist,
				}); err != nil {
					return err
				}
				fmt.Printf("Created game %q\n", theme)
				return nil
			}

			if deleteID > 0 {
				if err := app.client.DeleteGame(ctx, deleteID); err != nil {
					return err
				}
				fmt.Printf("Deleted game %d\n", deleteID)
				return nil
			}

			auth, err := app.store.Auth(ctx)
			if err != nil {
				return err
			}

			if historyID > 0 {
				history, err := app.client.GameHistory(ctx, historyID, auth.UserID, historyLimit)
				if err != nil {
					return err
				}
				if len(history) == 0 {
					fmt.Println("Nobody has played this game yet.")
					return nil
				}
				for _, run := range history {
					who := run.Username
					if run.IsCurrentUser {
						who = "You"
					}
					fmt.Printf("%-16s  %d/%d  %s\n",
						who, run.Score, run.TotalQuestions, run.PlayedAt.Format("2006-01-02 15:04"))
				}
				return nil
			}

			games, err := app.catalog.Games(ctx, auth.UserID)
			if err != nil {
				return err
			}
			if len(games) == 0 {
				fmt.Println("No games yet. Create one with --theme and --playlist.")
				return nil
			}
			for _, game := range games {
				line := fmt.Sprintf("%4d  %s", game.GameID, game.Theme)
				if game.HighScore != nil && game.HighScoreUsername != nil {
					line += fmt.Sprintf("  (top: %s with %d)", *game.HighScoreUsername, *game.HighScore)
				}
				if game.UserHighScore != nil {
					line += fmt.Sprintf("  [your best: %d]", *game.UserHighScore)
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "theme for a new game")
	cmd.Flags().StringVar(&playlist, "playlist", "", "playlist URL for a new game")
	cmd.Flags().IntVar(&deleteID, "delete", 0, "delete the game with this id")
	cmd.Flags().IntVar(&historyID, "history", 0, "show recent plays of the game with this id")
	cmd.Flags().IntVar(&historyLimit, "limit", 3, "how many history rows to show")
	return cmd
}
