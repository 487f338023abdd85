package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const schemaVersion = 1

// document is the JSON file layout. Maps keep lookups by ID trivial and
// marshal with sorted keys, so writes stay diff-friendly.
type document struct {
	SchemaVersion int                `json:"schema_version"`
	Players       map[string]*Player `json:"players"`
	Games         map[string]*Game   `json:"games"`
	Scores        map[string]*Score  `json:"scores"`
}

func emptyDocument() *document {
	return &document{
		SchemaVersion: schemaVersion,
		Players:       make(map[string]*Player),
		Games:         make(map[string]*Game),
		Scores:        make(map[string]*Score),
	}
}

// JSONRepository stores everything in one pretty-printed JSON document.
// Every write rewrites the file through a temp-file rename, so a crash
// mid-write never leaves a truncated store behind.
type JSONRepository struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

// NewJSONRepository opens (and if needed creates) the document at path.
func NewJSONRepository(path string, logger *zap.Logger) (*JSONRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &JSONRepository{path: path, logger: logger}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := r.writeDoc(emptyDocument()); err != nil {
			return nil, err
		}
		logger.Debug("created json store", zap.String("path", path))
	}
	return r, nil
}

func (r *JSONRepository) readDoc() (*document, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return emptyDocument(), nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}
	if len(raw) == 0 {
		return emptyDocument(), nil
	}

	doc := &document{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("parse store %s: %w", r.path, err)
	}
	// Backfill keys missing from older or hand-edited files.
	if doc.SchemaVersion == 0 {
		doc.SchemaVersion = schemaVersion
	}
	if doc.Players == nil {
		doc.Players = make(map[string]*Player)
	}
	if doc.Games == nil {
		doc.Games = make(map[string]*Game)
	}
	if doc.Scores == nil {
		doc.Scores = make(map[string]*Score)
	}
	return doc, nil
}

func (r *JSONRepository) writeDoc(doc *document) error {
	doc.SchemaVersion = schemaVersion

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create store directory: %w", err)
		}
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

func (r *JSONRepository) GetPlayer(playerID string) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.readDoc()
	if err != nil {
		return nil, err
	}
	p, ok := doc.Players[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}

func (r *JSONRepository) GetOrCreatePlayer(handle string) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.readDoc()
	if err != nil {
		return nil, err
	}
	for _, p := range doc.Players {
		if p.Handle == handle {
			return p, nil
		}
	}

	p := &Player{
		ID:        uuid.NewString(),
		Handle:    handle,
		CreatedAt: utcNow(),
	}
	doc.Players[p.ID] = p
	if err := r.writeDoc(doc); err != nil {
		return nil, err
	}
	r.logger.Debug("created player", zap.String("handle", handle), zap.String("id", p.ID))
	return p, nil
}

func (r *JSONRepository) CreateGame(playerID, mazeID, mazeVersion string, initial GameState) (*Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.readDoc()
	if err != nil {
		return nil, err
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
	doc.Games[g.ID] = g
	if err := r.writeDoc(doc); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *JSONRepository) GetGame(gameID string) (*Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.readDoc()
	if err != nil {
		return nil, err
	}
	g, ok := doc.Games[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

func (r *JSONRepository) SaveGame(gameID string, state GameState, status string) (*Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.readDoc()
	if err != nil {
		return nil, err
	}
	g, ok := doc.Games[gameID]
	if !ok {
		return nil, fmt.Errorf("save game %s: %w", gameID, ErrGameNotFound)
	}
	g.State = state
	g.Status = status
	g.UpdatedAt = utcNow()
	if err := r.writeDoc(doc); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *JSONRepository) ListGames(playerID string) ([]*Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.readDoc()
	if err != nil {
		return nil, err
	}
	var games []*Game
	for _, g := range doc.Games {
		if g.PlayerID == playerID {
			games = append(games, g)
		}
	}
	sort.Slice(games, func(i, j int) bool {
		if games[i].UpdatedAt != games[j].UpdatedAt {
			return games[i].UpdatedAt > games[j].UpdatedAt
		}
		return games[i].ID < games[j].ID
	})
	return games, nil
}

func (r *JSONRepository) RecordScore(playerID, gameID, mazeID, mazeVersion string, metrics Metrics) (*Score, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.readDoc()
	if err != nil {
		return nil, err
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
	doc.Scores[s.ID] = s
	if err := r.writeDoc(doc); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *JSONRepository) TopScores(mazeID string, limit int) ([]*Score, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.readDoc()
	if err != nil {
		return nil, err
	}
	var scores []*Score
	for _, s := range doc.Scores {
		if mazeID == "" || s.MazeID == mazeID {
			scores = append(scores, s)
		}
	}
	sort.Slice(scores, func(i, j int) bool {
		a, b := scores[i].Metrics, scores[j].Metrics
		if a.ElapsedSeconds != b.ElapsedSeconds {
			return a.ElapsedSeconds < b.ElapsedSeconds
		}
		if a.Moves != b.Moves {
			return a.Moves < b.Moves
		}
		return scores[i].ID < scores[j].ID
	})
	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}
	return scores, nil
}

// Close is a no-op; the document is rewritten on every mutation.
func (r *JSONRepository) Close() error { return nil }
