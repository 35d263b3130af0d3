package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/domain"
)

func TestCatalogCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	source := &countingSource{}
	cache := NewCatalogCache(newClient(mr), source, time.Minute)

	games, err := cache.Games(context.Background(), 1)
	if err != nil {
		t.Fatalf("games: %v", err)
	}
	if len(games) != 1 || games[0].Theme != "80s Pop" {
		t.Fatalf("unexpected games %+v", games)
	}
	if source.gameCalls != 1 {
		t.Fatalf("expected one upstream call, got %d", source.gameCalls)
	}

	// Second read comes from redis, not upstream.
	if _, err := cache.Games(context.Background(), 1); err != nil {
		t.Fatalf("games: %v", err)
	}
	if source.gameCalls != 1 {
		t.Fatalf("expected cache hit, upstream calls=%d", source.gameCalls)
	}
	if !mr.Exists("mmq:catalog:games:1") {
		t.Fatal("expected cached key in redis")
	}
}

func TestCatalogCacheLeaderboardExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	source := &countingSource{}
	cache := NewCatalogCache(newClient(mr), source, time.Minute)

	if _, err := cache.Leaderboard(context.Background(), "weekly", 10, 0); err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := cache.Leaderboard(context.Background(), "weekly", 10, 0); err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if source.boardCalls != 2 {
		t.Fatalf("expected reload after TTL, got %d calls", source.boardCalls)
	}
}

type countingSource struct {
	gameCalls  int
	boardCalls int
}

func (s *countingSource) Games(_ context.Context, userID int) ([]domain.Game, error) {
	s.gameCalls++
	return []domain.Game{{GameID: 1, Theme: "80s Pop"}}, nil
}

func (s *countingSource) Leaderboard(_ context.Context, board string, limit, offset int) ([]domain.LeaderboardEntry, error) {
	s.boardCalls++
	return []domain.LeaderboardEntry{{Rank: 1, UserID: 1, Username: "max", Score: 10}}, nil
}
