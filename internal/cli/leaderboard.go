package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/api"
	"github.com/razmataz100/maxs-music-quiz-frontend/internal/domain"
)

func newLeaderboardCmd() *cobra.Command {
	var limit, offset, gameID int
	var ranking bool

	cmd := &cobra.Command{
		Use:       "leaderboard [board]",
		Short:     "Show a leaderboard (total, average, games, weekly, monthly)",
		ValidArgs: []string{api.BoardTotal, api.BoardAverage, api.BoardGames, api.BoardWeekly, api.BoardMonthly},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if ranking {
				r, err := app.client.UserRanking(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Global rank: #%d\n", r.GlobalRank)
				fmt.Printf("Total score: %d   Average: %.1f   Games completed: %d\n",
					r.TotalScore, r.AverageScore, r.GamesCompleted)
				for _, g := range r.GameRankings {
					fmt.Printf("  %s: #%d (%.0f)\n", g.GameTheme, g.Rank, g.Score)
				}
				return nil
			}

			if gameID > 0 {
				entries, err := app.client.GameLeaderboard(ctx, gameID, limit, offset)
				if err != nil {
					return err
				}
				printBoard(entries)
				return nil
			}

			board := api.BoardTotal
			if len(args) == 1 {
				board = args[0]
			}
			entries, err := app.catalog.Leaderboard(ctx, board, limit, offset)
			if err != nil {
				return err
			}
			printBoard(entries)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "rows to fetch")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	cmd.Flags().IntVar(&gameID, "game", 0, "show the board for one game instead")
	cmd.Flags().BoolVar(&ranking, "me", false, "show your own standings")
	return cmd
}

func printBoard(entries []domain.LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Println("Nothing on this board yet.")
		return
	}
	for _, e := range entries {
		fmt.Printf("%3d. %-20s %8.0f\n", e.Rank, e.Username, e.Score)
	}
}
