package domain

import "time"

// AnswerChoiceCount is how many choices every question carries. The backend
// always generates four; Validate treats anything else as corrupt data.
const AnswerChoiceCount = 4

// Question is one playable question within a game. Questions are supplied by
// the backend when a game starts and are immutable for the session's lifetime.
type Question struct {
	ID             int      `json:"id"`
	QuestionText   string   `json:"questionText"`
	SongName       string   `json:"songName"`
	ArtistName     string   `json:"artistName"`
	SpotifyTrackID string   `json:"spotifyTrackId"`
	AnswerChoices  []string `json:"answerChoices"`
	CorrectAnswer  string   `json:"correctAnswer"`
	QuizGameID     int      `json:"quizGameId"`
}

// Validate rejects questions that violate the backend's contract: exactly
// AnswerChoiceCount choices, with the correct answer among them. Comparison is
// exact string equality; choices are selected by value from this list, so a
// case mismatch can only mean the data itself is corrupt.
func (q Question) Validate() error {
	if len(q.AnswerChoices) != AnswerChoiceCount {
		return ErrInvalidQuestion
	}
	for _, choice := range q.AnswerChoices {
		if choice == q.CorrectAnswer {
			return nil
		}
	}
	return ErrInvalidQuestion
}

// Game is a quiz the user can play, annotated with high-score info for the
// browsing user.
type Game struct {
	GameID                     int     `json:"gameId"`
	Theme                      string  `json:"theme"`
	HighScore                  *int    `json:"highScore,omitempty"`
	HighScoreUsername          *string `json:"highScoreUsername,omitempty"`
	HighScoreProfilePictureURL *string `json:"highScoreProfilePictureUrl,omitempty"`
	UserHighScore              *int    `json:"userHighScore,omitempty"`
	QuestionsAnswered          *int    `json:"questionsAnswered,omitempty"`
	CorrectAnswers             *int    `json:"correctAnswers,omitempty"`
}

// CreateGameRequest asks the backend to build a quiz from a playlist.
type CreateGameRequest struct {
	Theme       string `json:"theme"`
	PlaylistURL string `json:"playlistUrl"`
}

// GameHistory is one past playthrough of a game. The backend marks rows that
// belong to the requesting user via IsCurrentUser.
type GameHistory struct {
	Username          string    `json:"username"`
	ProfilePictureURL *string   `json:"profilePictureUrl,omitempty"`
	Score             int       `json:"score"`
	TotalQuestions    int       `json:"totalQuestions"`
	PlayedAt          time.Time `json:"playedAt"`
	IsCurrentUser     bool      `json:"isCurrentUser"`
}

// GameResult is the terminal report of one finished session.
type GameResult struct {
	UserID            int `json:"userId"`
	CorrectAnswers    int `json:"correctAnswers"`
	QuestionsAnswered int `json:"questionsAnswered"`
}

// AuthData is the session state handed out at login.
type AuthData struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
	UserID     int       `json:"userId"`
	Username   string    `json:"username"`
	UserRole   string    `json:"userRole"`
}

// User is a player profile with aggregate stats.
type User struct {
	ID                     int     `json:"id"`
	Username               string  `json:"username"`
	Email                  string  `json:"email"`
	Role                   string  `json:"role"`
	ProfilePictureURL      *string `json:"profilePictureUrl"`
	TotalScore             int     `json:"totalScore"`
	TotalQuestionsAnswered int     `json:"totalQuestionsAnswered"`
	AverageScore           float64 `json:"averageScore"`
}

// LeaderboardEntry is one row of a ranked board.
type LeaderboardEntry struct {
	Rank              int     `json:"rank"`
	UserID            int     `json:"userId"`
	Username          string  `json:"username"`
	ProfilePictureURL *string `json:"profilePictureUrl"`
	Score             float64 `json:"score"`
}

// GameRanking is the user's standing within one game.
type GameRanking struct {
	GameID    int     `json:"gameId"`
	GameTheme string  `json:"gameTheme"`
	Rank      int     `json:"rank"`
	Score     float64 `json:"score"`
}

// UserRanking aggregates the user's standings across boards.
type UserRanking struct {
	GlobalRank     int           `json:"globalRank"`
	TotalScore     int           `json:"totalScore"`
	AverageScore   float64       `json:"averageScore"`
	GamesCompleted int           `json:"gamesCompleted"`
	GameRankings   []GameRanking `json:"gameRankings"`
}

// LobbyPlayer is a member of a multiplayer lobby.
type LobbyPlayer struct {
	UserID            int     `json:"userId"`
	Username          string  `json:"username"`
	ProfilePictureURL *string `json:"profilePictureUrl,omitempty"`
}

// LobbyMessage is a chat line broadcast within a lobby.
type LobbyMessage struct {
	UserID    int       `json:"userId"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
