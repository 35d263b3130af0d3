package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/domain"
)

// Board names accepted by Leaderboard.
const (
	BoardTotal   = "total"
	BoardAverage = "average"
	BoardGames   = "games"
	BoardWeekly  = "weekly"
	BoardMonthly = "monthly"
)

var boardPaths = map[string]string{
	BoardTotal:   "/leaderboard/global/total-score",
	BoardAverage: "/leaderboard/global/average-score",
	BoardGames:   "/leaderboard/global/games-completed",
	BoardWeekly:  "/leaderboard/weekly",
	BoardMonthly: "/leaderboard/monthly",
}

// Leaderboard fetches one of the global boards. The weekly and monthly boards
// ignore offset server-side; it is still sent for uniformity.
func (c *Client) Leaderboard(ctx context.Context, board string, limit, offset int) ([]domain.LeaderboardEntry, error) {
	base, ok := boardPaths[board]
	if !ok {
		return nil, fmt.Errorf("unknown leaderboard %q", board)
	}
	path := fmt.Sprintf("%s?limit=%d&offset=%d", base, limit, offset)
	var entries []domain.LeaderboardEntry
	if err := c.do(ctx, http.MethodGet, path, nil, &entries, true); err != nil {
		return nil, err
	}
	return entries, nil
}

// GameLeaderboard fetches the per-game board.
func (c *Client) GameLeaderboard(ctx context.Context, gameID, limit, offset int) ([]domain.LeaderboardEntry, error) {
	path := fmt.Sprintf("/leaderboard/game/%d?limit=%d&offset=%d", gameID, limit, offset)
	var entries []domain.LeaderboardEntry
	if err := c.do(ctx, http.MethodGet, path, nil, &entries, true); err != nil {
		return nil, err
	}
	return entries, nil
}

// UserRanking fetches the signed-in user's standings across all boards.
func (c *Client) UserRanking(ctx context.Context) (domain.UserRanking, error) {
	var ranking domain.UserRanking
	if err := c.do(ctx, http.MethodGet, "/leaderboard/user/ranking", nil, &ranking, true); err != nil {
		return domain.UserRanking{}, err
	}
	return ranking, nil
}
