// Package engine drives a single quiz maze playthrough: it interprets
// player commands, enforces puzzle gates, and persists progress through
// the game repository. The engine is UI-agnostic; callers render the
// GameView however they like.
package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lhhunghimself/504-week7/internal/maze"
	"github.com/lhhunghimself/504-week7/internal/puzzle"
	"github.com/lhhunghimself/504-week7/internal/store"
)

// Command is the normalized input consumed by Handle.
type Command struct {
	Verb string
	Args []string
}

// PendingPuzzle is the challenge currently blocking movement.
type PendingPuzzle struct {
	PuzzleID string `json:"puzzle_id"`
	Title    string `json:"title"`
	Prompt   string `json:"prompt"`
}

// GameView is the UI-agnostic projection of the current game state.
type GameView struct {
	Pos             maze.Position  `json:"pos"`
	CellTitle       string         `json:"cell_title"`
	CellDescription string         `json:"cell_description"`
	AvailableMoves  []string       `json:"available_moves"`
	PendingPuzzle   *PendingPuzzle `json:"pending_puzzle,omitempty"`
	IsComplete      bool           `json:"is_complete"`
	MoveCount       int            `json:"move_count"`
}

// Output wraps the post-command view with user-facing messages.
type Output struct {
	View       GameView
	Messages   []string
	DidPersist bool
}

// Config wires an Engine to its collaborators.
type Config struct {
	Maze     *maze.Maze
	Repo     store.GameRepository
	Puzzles  puzzle.Registry
	PlayerID string
	GameID   string
	Logger   *zap.Logger
}

// Engine holds the live state of one playthrough. Not safe for
// concurrent use; the CLI drives it from a single goroutine.
type Engine struct {
	maze    *maze.Maze
	repo    store.GameRepository
	puzzles puzzle.Registry
	logger  *zap.Logger

	playerID string
	gameID   string

	pos           maze.Position
	moveCount     int
	solvedGates   map[string]bool
	visited       map[maze.Position]bool
	startedAt     string
	pendingGateID string
	isComplete    bool
	scoreRecorded bool

	now func() time.Time
}

// New loads the engine state for cfg.GameID from the repository.
func New(cfg Config) (*Engine, error) {
	if cfg.Maze == nil {
		return nil, fmt.Errorf("engine requires a maze")
	}
	if cfg.Repo == nil {
		return nil, fmt.Errorf("engine requires a repository")
	}
	if cfg.Puzzles == nil {
		return nil, fmt.Errorf("engine requires a puzzle registry")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	game, err := cfg.Repo.GetGame(cfg.GameID)
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", cfg.GameID, err)
	}

	e := &Engine{
		maze:     cfg.Maze,
		repo:     cfg.Repo,
		puzzles:  cfg.Puzzles,
		logger:   logger,
		playerID: cfg.PlayerID,
		gameID:   cfg.GameID,
		now:      time.Now,
	}
	e.loadState(game)
	return e, nil
}

func (e *Engine) loadState(game *store.Game) {
	st := game.State
	e.pos = maze.Position{Row: st.Pos.Row, Col: st.Pos.Col}
	if !e.maze.InBounds(e.pos) {
		e.pos = e.maze.Start
	}
	e.moveCount = st.MoveCount
	e.solvedGates = make(map[string]bool, len(st.SolvedGates))
	for _, id := range st.SolvedGates {
		e.solvedGates[id] = true
	}
	e.visited = make(map[maze.Position]bool, len(st.Visited)+1)
	for _, p := range st.Visited {
		e.visited[maze.Position{Row: p.Row, Col: p.Col}] = true
	}
	e.visited[e.pos] = true
	e.startedAt = st.StartedAt
	e.isComplete = game.Status == store.StatusCompleted
	e.scoreRecorded = e.isComplete
}

func (e *Engine) serializeState() store.GameState {
	gates := make([]string, 0, len(e.solvedGates))
	for id := range e.solvedGates {
		gates = append(gates, id)
	}
	sort.Strings(gates)

	visited := make([]store.Pos, 0, len(e.visited))
	for p := range e.visited {
		visited = append(visited, store.Pos{Row: p.Row, Col: p.Col})
	}
	sort.Slice(visited, func(i, j int) bool {
		if visited[i].Row != visited[j].Row {
			return visited[i].Row < visited[j].Row
		}
		return visited[i].Col < visited[j].Col
	})

	st := store.GameState{
		Pos:         store.Pos{Row: e.pos.Row, Col: e.pos.Col},
		MoveCount:   e.moveCount,
		SolvedGates: gates,
		Visited:     visited,
		StartedAt:   e.startedAt,
	}
	if e.isComplete {
		st.EndedAt = e.now().UTC().Truncate(time.Second).Format(time.RFC3339)
	}
	return st
}

func (e *Engine) persist(status string) error {
	if _, err := e.repo.SaveGame(e.gameID, e.serializeState(), status); err != nil {
		return fmt.Errorf("persist game %s: %w", e.gameID, err)
	}
	return nil
}

func (e *Engine) pendingPayload() (*PendingPuzzle, error) {
	if e.pendingGateID == "" {
		return nil, nil
	}
	p, err := e.puzzles.Get(e.pendingGateID)
	if err != nil {
		return nil, fmt.Errorf("resolve puzzle for gate %s: %w", e.pendingGateID, err)
	}
	return &PendingPuzzle{PuzzleID: p.ID, Title: p.Title, Prompt: p.Prompt}, nil
}

func (e *Engine) moveTokens() []string {
	moves := e.maze.AvailableMoves(e.pos)
	tokens := make([]string, 0, len(moves))
	for _, d := range moves {
		tokens = append(tokens, d.String())
	}
	sort.Strings(tokens)
	return tokens
}

func (e *Engine) makeView() GameView {
	cell, err := e.maze.Cell(e.pos)
	if err != nil {
		// Position is validated on load and on every move.
		e.logger.Error("view at invalid position", zap.String("pos", e.pos.String()), zap.Error(err))
		return GameView{Pos: e.pos, IsComplete: e.isComplete, MoveCount: e.moveCount}
	}
	pending, err := e.pendingPayload()
	if err != nil {
		e.logger.Error("pending puzzle lookup failed", zap.Error(err))
	}
	return GameView{
		Pos:             e.pos,
		CellTitle:       cell.Title,
		CellDescription: cell.Description,
		AvailableMoves:  e.moveTokens(),
		PendingPuzzle:   pending,
		IsComplete:      e.isComplete,
		MoveCount:       e.moveCount,
	}
}

// View returns the current projection without side effects.
func (e *Engine) View() GameView {
	return e.makeView()
}

// ElapsedSeconds returns whole seconds since the run started.
func (e *Engine) ElapsedSeconds() int {
	if e.startedAt == "" {
		return 0
	}
	started, err := time.Parse(time.RFC3339, e.startedAt)
	if err != nil {
		return 0
	}
	secs := int(e.now().UTC().Sub(started).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}

func (e *Engine) output(messages []string, persisted bool) *Output {
	return &Output{View: e.makeView(), Messages: messages, DidPersist: persisted}
}

// Handle executes one command. Player mistakes (unknown verbs, blocked
// moves, wrong answers) surface as messages; the error return is for
// persistence and lookup failures only.
func (e *Engine) Handle(cmd Command) (*Output, error) {
	verb := strings.ToLower(strings.TrimSpace(cmd.Verb))

	switch verb {
	case "look":
		return e.output(nil, false), nil
	case "map":
		return e.output([]string{e.RenderMap(false)}, false), nil
	case "status":
		return e.output(e.statusLines(), false), nil
	case "save":
		status := store.StatusInProgress
		if e.isComplete {
			status = store.StatusCompleted
		}
		if err := e.persist(status); err != nil {
			return nil, err
		}
		return e.output([]string{"Progress saved."}, true), nil
	case "answer":
		return e.handleAnswer(cmd.Args)
	case "hint":
		return e.handleHint()
	case "scores":
		return e.handleScores()
	}

	var dir maze.Direction
	var ok bool
	switch verb {
	case "n", "s", "e", "w":
		dir, ok = maze.ParseDirection(verb)
	case "go":
		if len(cmd.Args) > 0 {
			dir, ok = maze.ParseDirection(cmd.Args[0])
		}
		if !ok {
			return e.output([]string{"Invalid direction."}, false), nil
		}
	default:
		return e.output([]string{"Unknown command."}, false), nil
	}
	if !ok {
		return e.output([]string{"Invalid direction."}, false), nil
	}
	return e.handleMove(dir)
}

func (e *Engine) handleMove(dir maze.Direction) (*Output, error) {
	if e.pendingGateID != "" {
		return e.output([]string{"Solve the pending puzzle first."}, false), nil
	}

	if gateID := e.maze.GateIDFor(e.pos, dir); gateID != "" && !e.solvedGates[gateID] {
		e.pendingGateID = gateID
		e.logger.Debug("gate blocks movement",
			zap.String("gate", gateID), zap.String("dir", dir.String()))
		return e.output([]string{"Puzzle required."}, false), nil
	}

	nxt, ok := e.maze.NextPos(e.pos, dir)
	if !ok {
		return e.output([]string{"Blocked path."}, false), nil
	}

	e.pos = nxt
	e.moveCount++
	e.visited[nxt] = true

	completed, err := e.maybeFinish()
	if err != nil {
		return nil, err
	}
	if !completed {
		if err := e.persist(store.StatusInProgress); err != nil {
			return nil, err
		}
	}

	var messages []string
	if completed {
		messages = append(messages, "You reached the exit. Run complete!")
	}
	return e.output(messages, true), nil
}

func (e *Engine) handleAnswer(args []string) (*Output, error) {
	if e.pendingGateID == "" {
		return e.output([]string{"No pending puzzle."}, false), nil
	}

	answer := strings.TrimSpace(strings.Join(args, " "))
	p, err := e.puzzles.Get(e.pendingGateID)
	if err != nil {
		return nil, fmt.Errorf("resolve puzzle for gate %s: %w", e.pendingGateID, err)
	}
	if !p.Check(answer) {
		return e.output([]string{"Incorrect answer."}, false), nil
	}

	e.solvedGates[e.pendingGateID] = true
	e.pendingGateID = ""
	if err := e.persist(store.StatusInProgress); err != nil {
		return nil, err
	}
	return e.output([]string{"Correct."}, true), nil
}

// handleHint reveals the pending puzzle's hint at the price of one move.
func (e *Engine) handleHint() (*Output, error) {
	if e.pendingGateID == "" {
		return e.output([]string{"No pending puzzle."}, false), nil
	}

	p, err := e.puzzles.Get(e.pendingGateID)
	if err != nil {
		return nil, fmt.Errorf("resolve puzzle for gate %s: %w", e.pendingGateID, err)
	}
	if p.Hint == "" {
		return e.output([]string{"No hint available for this puzzle."}, false), nil
	}

	e.moveCount++
	if err := e.persist(store.StatusInProgress); err != nil {
		return nil, err
	}
	return e.output([]string{"Hint (+1 move): " + p.Hint}, true), nil
}

func (e *Engine) handleScores() (*Output, error) {
	scores, err := e.repo.TopScores(e.maze.ID, 10)
	if err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}
	if len(scores) == 0 {
		return e.output([]string{"No scores recorded yet."}, false), nil
	}
	lines := make([]string, 0, len(scores)+1)
	lines = append(lines, fmt.Sprintf("Top scores for %s:", e.maze.ID))
	for i, s := range scores {
		lines = append(lines, fmt.Sprintf("%2d. %4ds  %3d moves  (%s)",
			i+1, s.Metrics.ElapsedSeconds, s.Metrics.Moves, s.CreatedAt))
	}
	return e.output(lines, false), nil
}

func (e *Engine) statusLines() []string {
	status := "in progress"
	if e.isComplete {
		status = "completed"
	}
	return []string{
		fmt.Sprintf("Maze: %s (v%s)  Status: %s", e.maze.ID, e.maze.Version, status),
		fmt.Sprintf("Moves: %d  Gates solved: %d  Elapsed: %ds",
			e.moveCount, len(e.solvedGates), e.ElapsedSeconds()),
	}
}

// maybeFinish completes the run when the player stands on the exit and
// records the score exactly once.
func (e *Engine) maybeFinish() (bool, error) {
	if e.pos != e.maze.Exit {
		return false, nil
	}
	e.isComplete = true
	if err := e.persist(store.StatusCompleted); err != nil {
		return false, err
	}

	if !e.scoreRecorded {
		metrics := store.Metrics{
			ElapsedSeconds: e.ElapsedSeconds(),
			Moves:          e.moveCount,
			PuzzlesSolved:  len(e.solvedGates),
		}
		if _, err := e.repo.RecordScore(e.playerID, e.gameID, e.maze.ID, e.maze.Version, metrics); err != nil {
			return false, fmt.Errorf("record score: %w", err)
		}
		e.scoreRecorded = true
		e.logger.Info("run completed",
			zap.String("game", e.gameID),
			zap.Int("moves", metrics.Moves),
			zap.Int("elapsed_seconds", metrics.ElapsedSeconds))
	}
	return true, nil
}
