package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteRepository is the default backend. It also carries the quiz
// question bank, which the JSON backend does not implement.
type SQLiteRepository struct {
	mu     sync.Mutex
	db     *sql.DB
	path   string
	logger *zap.Logger
}

var _ GameRepository = (*SQLiteRepository)(nil)
var _ QuestionBank = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens the database at path and bootstraps the
// schema. Use ":memory:" for an ephemeral store in tests.
func NewSQLiteRepository(path string, logger *zap.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create store directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Single connection avoids SQLITE_BUSY between goroutines; the game
	// is a single-process CLI and does not need a pool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logger.Debug("set busy_timeout failed", zap.Error(err))
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logger.Debug("set journal_mode=WAL failed", zap.Error(err))
	}

	r := &SQLiteRepository{db: db, path: path, logger: logger}
	if err := r.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	logger.Debug("sqlite store ready", zap.String("path", path))
	return r, nil
}

func (r *SQLiteRepository) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		handle TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		player_id TEXT NOT NULL,
		maze_id TEXT NOT NULL,
		maze_version TEXT NOT NULL,
		state TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'in_progress',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (player_id) REFERENCES players(id)
	);
	CREATE INDEX IF NOT EXISTS idx_games_player ON games(player_id);
	CREATE TABLE IF NOT EXISTS scores (
		id TEXT PRIMARY KEY,
		player_id TEXT NOT NULL,
		game_id TEXT NOT NULL,
		maze_id TEXT NOT NULL,
		maze_version TEXT NOT NULL,
		elapsed_seconds INTEGER NOT NULL,
		moves INTEGER NOT NULL,
		metrics TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_scores_maze ON scores(maze_id);
	CREATE TABLE IF NOT EXISTS questions (
		id TEXT PRIMARY KEY,
		question_text TEXT NOT NULL,
		correct_answer TEXT NOT NULL,
		category TEXT,
		hint TEXT,
		asked INTEGER NOT NULL DEFAULT 0
	);
	`
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetPlayer(playerID string) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := &Player{}
	err := r.db.QueryRow(
		"SELECT id, handle, created_at FROM players WHERE id = ?", playerID,
	).Scan(&p.ID, &p.Handle, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) GetOrCreatePlayer(handle string) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := &Player{}
	err := r.db.QueryRow(
		"SELECT id, handle, created_at FROM players WHERE handle = ?", handle,
	).Scan(&p.ID, &p.Handle, &p.CreatedAt)
	if err == nil {
		return p, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("lookup player: %w", err)
	}

	p = &Player{ID: uuid.NewString(), Handle: handle, CreatedAt: utcNow()}
	if _, err := r.db.Exec(
		"INSERT INTO players (id, handle, created_at) VALUES (?, ?, ?)",
		p.ID, p.Handle, p.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}
	r.logger.Debug("created player", zap.String("handle", handle), zap.String("id", p.ID))
	return p, nil
}

func (r *SQLiteRepository) CreateGame(playerID, mazeID, mazeVersion string, initial GameState) (*Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stateJSON, err := json.Marshal(initial)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	now := utcNow()
	g := &Game{
		ID:          uuid.NewString(),
		PlayerID:    playerID,
		MazeID:      mazeID,
		MazeVersion: mazeVersion,
		State:       initial,
		Status:      StatusInProgress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.db.Exec(
		`INSERT INTO games (id, player_id, maze_id, maze_version, state, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.PlayerID, g.MazeID, g.MazeVersion, string(stateJSON), g.Status, g.CreatedAt, g.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) scanGame(row *sql.Row) (*Game, error) {
	g := &Game{}
	var stateJSON string
	err := row.Scan(&g.ID, &g.PlayerID, &g.MazeID, &g.MazeVersion, &stateJSON, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan game: %w", err)
	}
	if err := json.Unmarshal([]byte(stateJSON), &g.State); err != nil {
		return nil, fmt.Errorf("decode state for game %s: %w", g.ID, err)
	}
	return g, nil
}

func (r *SQLiteRepository) GetGame(gameID string) (*Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.scanGame(r.db.QueryRow(
		`SELECT id, player_id, maze_id, maze_version, state, status, created_at, updated_at
		 FROM games WHERE id = ?`, gameID,
	))
}

func (r *SQLiteRepository) SaveGame(gameID string, state GameState, status string) (*Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	now := utcNow()
	res, err := r.db.Exec(
		"UPDATE games SET state = ?, status = ?, updated_at = ? WHERE id = ?",
		string(stateJSON), status, now, gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("save game: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("save game %s: %w", gameID, ErrGameNotFound)
	}
	return r.scanGame(r.db.QueryRow(
		`SELECT id, player_id, maze_id, maze_version, state, status, created_at, updated_at
		 FROM games WHERE id = ?`, gameID,
	))
}

func (r *SQLiteRepository) ListGames(playerID string) ([]*Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(
		`SELECT id, player_id, maze_id, maze_version, state, status, created_at, updated_at
		 FROM games WHERE player_id = ? ORDER BY updated_at DESC, id`, playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []*Game
	for rows.Next() {
		g := &Game{}
		var stateJSON string
		if err := rows.Scan(&g.ID, &g.PlayerID, &g.MazeID, &g.MazeVersion, &stateJSON, &g.Status, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		if err := json.Unmarshal([]byte(stateJSON), &g.State); err != nil {
			return nil, fmt.Errorf("decode state for game %s: %w", g.ID, err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (r *SQLiteRepository) RecordScore(playerID, gameID, mazeID, mazeVersion string, metrics Metrics) (*Score, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		return nil, fmt.Errorf("encode metrics: %w", err)
	}
	s := &Score{
		ID:          uuid.NewString(),
		PlayerID:    playerID,
		GameID:      gameID,
		MazeID:      mazeID,
		MazeVersion: mazeVersion,
		Metrics:     metrics,
		CreatedAt:   utcNow(),
	}
	if _, err := r.db.Exec(
		`INSERT INTO scores (id, player_id, game_id, maze_id, maze_version, elapsed_seconds, moves, metrics, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.PlayerID, s.GameID, s.MazeID, s.MazeVersion,
		metrics.ElapsedSeconds, metrics.Moves, string(metricsJSON), s.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("record score: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) TopScores(mazeID string, limit int) ([]*Score, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}
	query := `SELECT id, player_id, game_id, maze_id, maze_version, metrics, created_at
		 FROM scores`
	args := []any{}
	if mazeID != "" {
		query += " WHERE maze_id = ?"
		args = append(args, mazeID)
	}
	query += " ORDER BY elapsed_seconds, moves, id LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	defer rows.Close()

	var scores []*Score
	for rows.Next() {
		s := &Score{}
		var metricsJSON string
		if err := rows.Scan(&s.ID, &s.PlayerID, &s.GameID, &s.MazeID, &s.MazeVersion, &metricsJSON, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		if err := json.Unmarshal([]byte(metricsJSON), &s.Metrics); err != nil {
			return nil, fmt.Errorf("decode metrics for score %s: %w", s.ID, err)
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

func (r *SQLiteRepository) SeedQuestions(questions []Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	for _, q := range questions {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO questions (id, question_text, correct_answer, category, hint, asked)
			 VALUES (?, ?, ?, ?, ?, 0)`,
			q.ID, q.Text, q.Answer, q.Category, q.Hint,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("seed question %s: %w", q.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	r.logger.Debug("seeded questions", zap.Int("count", len(questions)))
	return nil
}

func (r *SQLiteRepository) RandomQuestion() (*Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := &Question{}
	var hint sql.NullString
	var category sql.NullString
	err := r.db.QueryRow(
		`SELECT id, question_text, correct_answer, category, hint
		 FROM questions WHERE asked = 0 ORDER BY RANDOM() LIMIT 1`,
	).Scan(&q.ID, &q.Text, &q.Answer, &category, &hint)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("random question: %w", err)
	}
	q.Category = category.String
	q.Hint = hint.String
	return q, nil
}

func (r *SQLiteRepository) MarkQuestionAsked(questionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.Exec("UPDATE questions SET asked = 1 WHERE id = ?", questionID); err != nil {
		return fmt.Errorf("mark question asked: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ResetQuestions() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.Exec("UPDATE questions SET asked = 0"); err != nil {
		return fmt.Errorf("reset questions: %w", err)
	}
	return nil
}

// DB exposes the underlying connection for maintenance commands.
func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
