package store

import (
	"strings"

	"go.uber.org/zap"
)

// GameRepository is the persistence contract every backend implements
// identically. Callers never see backend-specific behavior beyond the
// storage file format.
type GameRepository interface {
	// GetPlayer returns the player by ID, or ErrPlayerNotFound.
	GetPlayer(playerID string) (*Player, error)
	// GetOrCreatePlayer returns the existing player with the given
	// handle, creating one on first use. Idempotent per handle.
	GetOrCreatePlayer(handle string) (*Player, error)

	// CreateGame starts a new playthrough in StatusInProgress.
	CreateGame(playerID, mazeID, mazeVersion string, initial GameState) (*Game, error)
	// GetGame returns the game by ID, or ErrGameNotFound.
	GetGame(gameID string) (*Game, error)
	// SaveGame replaces the game's state and status and bumps updated_at.
	SaveGame(gameID string, state GameState, status string) (*Game, error)
	// ListGames returns a player's games, most recently updated first.
	ListGames(playerID string) ([]*Game, error)

	// RecordScore appends a score entry for a completed game.
	RecordScore(playerID, gameID, mazeID, mazeVersion string, metrics Metrics) (*Score, error)
	// TopScores returns up to limit scores ordered by elapsed seconds,
	// then moves, both ascending. Empty mazeID matches all mazes.
	TopScores(mazeID string, limit int) ([]*Score, error)

	Close() error
}

// QuestionBank manages the quiz question pool. Only the SQLite backend
// provides it.
type QuestionBank interface {
	// SeedQuestions inserts or replaces bank entries.
	SeedQuestions(questions []Question) error
	// RandomQuestion returns a random question that has not been asked
	// yet, or nil when the bank is exhausted.
	RandomQuestion() (*Question, error)
	// MarkQuestionAsked excludes the question from future draws.
	MarkQuestionAsked(questionID string) error
	// ResetQuestions makes every question available again.
	ResetQuestions() error
}

// OpenRepo opens the repository at path. A .json suffix selects the JSON
// document backend; anything else opens SQLite.
func OpenRepo(path string, logger *zap.Logger) (GameRepository, error) {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return NewJSONRepository(path, logger)
	}
	return NewSQLiteRepository(path, logger)
}
