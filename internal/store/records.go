// Package store persists players, games, scores, and the quiz question
// bank. Two backends implement the same GameRepository contract: a single
// JSON document and an SQLite database. OpenRepo picks the backend from
// the file suffix, SQLite being the default.
package store

import (
	"errors"
	"time"
)

// Sentinel errors shared by both backends.
var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrGameNotFound   = errors.New("game not found")
)

// Game status values.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Pos mirrors a maze position in saved state. Kept local so the store
// stays independent of the topology package.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// GameState is the engine state snapshot saved with each game.
type GameState struct {
	Pos         Pos      `json:"pos"`
	MoveCount   int      `json:"move_count"`
	SolvedGates []string `json:"solved_gates"`
	Visited     []Pos    `json:"visited,omitempty"`
	StartedAt   string   `json:"started_at,omitempty"`
	EndedAt     string   `json:"ended_at,omitempty"`
}

// Metrics summarizes a finished run. Lower elapsed time ranks first,
// moves break ties.
type Metrics struct {
	ElapsedSeconds int `json:"elapsed_seconds"`
	Moves          int `json:"moves"`
	PuzzlesSolved  int `json:"puzzles_solved,omitempty"`
}

// Player is a registered handle.
type Player struct {
	ID        string `json:"id"`
	Handle    string `json:"handle"`
	CreatedAt string `json:"created_at"`
}

// Game is one playthrough, in progress or completed.
type Game struct {
	ID          string    `json:"id"`
	PlayerID    string    `json:"player_id"`
	MazeID      string    `json:"maze_id"`
	MazeVersion string    `json:"maze_version"`
	State       GameState `json:"state"`
	Status      string    `json:"status"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// Score is recorded once per completed game.
type Score struct {
	ID          string  `json:"id"`
	PlayerID    string  `json:"player_id"`
	GameID      string  `json:"game_id"`
	MazeID      string  `json:"maze_id"`
	MazeVersion string  `json:"maze_version"`
	Metrics     Metrics `json:"metrics"`
	CreatedAt   string  `json:"created_at"`
}

// Question is one quiz bank entry. Asked questions are excluded from
// RandomQuestion until the bank is reset.
type Question struct {
	ID       string `json:"id" yaml:"id"`
	Text     string `json:"question_text" yaml:"question_text"`
	Answer   string `json:"correct_answer" yaml:"correct_answer"`
	Category string `json:"category" yaml:"category"`
	Hint     string `json:"hint,omitempty" yaml:"hint,omitempty"`
	Asked    bool   `json:"asked,omitempty" yaml:"-"`
}

// utcNow returns the second-precision RFC3339 UTC timestamp used for all
// record fields.
func utcNow() string {
	return time.Now().UTC().Truncate(time.Second).Format(time.RFC3339)
}
