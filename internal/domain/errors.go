package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoQuestions is returned when a started game has no questions to play.
	ErrNoQuestions = errors.New("no questions found for this game")
	// ErrGameNotFound indicates the requested game does not exist.
	ErrGameNotFound = errors.New("game not found")
	// ErrUnauthorized indicates a missing or rejected auth token.
	ErrUnauthorized = errors.New("authentication required")
	// ErrInvalidQuestion indicates question data that violates the backend's
	// contract (wrong choice count, or correct answer not among the choices).
	ErrInvalidQuestion = errors.New("invalid question data")
	// ErrSessionOver indicates an action arriving after the session ended.
	ErrSessionOver = errors.New("session already over")
	// ErrNotConnected indicates a hub invocation before Connect succeeded.
	ErrNotConnected = errors.New("not connected to game hub")
)

// FetchError wraps a failure to retrieve the question set. It blocks the
// session from ever becoming playable.
type FetchError struct {
	GameID int
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch questions for game %d: %v", e.GameID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ReportError wraps a failure to submit a finished session's result. It is
// observable for logging only; the player's score stands regardless.
type ReportError struct {
	GameID int
	Err    error
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("report result for game %d: %v", e.GameID, e.Err)
}

func (e *ReportError) Unwrap() error { return e.Err }
