package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/domain"
)

// FetchQuestions starts a game and returns its ordered question list,
// validated against the question contract. Satisfies session.QuestionSource.
func (c *Client) FetchQuestions(ctx context.Context, gameID int) ([]domain.Question, error) {
	var questions []domain.Question
	path := fmt.Sprintf("/game/%d/start", gameID)
	if err := c.do(ctx, http.MethodPost, path, nil, &questions, true); err != nil {
		return nil, err
	}
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", q.ID, err)
		}
	}
	return questions, nil
}

// ReportResult submits a finished session's tally. Satisfies
// session.ResultReporter.
func (c *Client) ReportResult(ctx context.Context, gameID, correctAnswers, questionsAnswered int) error {
	auth, err := c.tokens.Auth(ctx)
	if err != nil {
		return err
	}
	result := domain.GameResult{
		UserID:            auth.UserID,
		CorrectAnswers:    correctAnswers,
		QuestionsAnswered: questionsAnswered,
	}
	path := fmt.Sprintf("/game/%d/end", gameID)
	return c.do(ctx, http.MethodPost, path, result, nil, true)
}

// Games lists every playable game with high-score annotations for userID.
func (c *Client) Games(ctx context.Context, userID int) ([]domain.Game, error) {
	var games []domain.Game
	path := fmt.Sprintf("/game/all/%d", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &games, true); err != nil {
		return nil, err
	}
	return games, nil
}

// GameHistory lists the most recent playthroughs of one game.
func (c *Client) GameHistory(ctx context.Context, gameID, userID, limit int) ([]domain.GameHistory, error) {
	var history []domain.GameHistory
	path := fmt.Sprintf("/game/%d/history/%d?limit=%d", gameID, userID, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &history, true); err != nil {
		return nil, err
	}
	return history, nil
}

// CreateGame builds a new quiz from a playlist.
func (c *Client) CreateGame(ctx context.Context, req domain.CreateGameRequest) error {
	return c.do(ctx, http.MethodPost, "/game/create", req, nil, true)
}

// DeleteGame removes a quiz.
func (c *Client) DeleteGame(ctx context.Context, gameID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/game/%d", gameID), nil, nil, true)
}
