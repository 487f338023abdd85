package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lhhunghimself/504-week7/internal/engine"
	"github.com/lhhunghimself/504-week7/internal/maze"
	"github.com/lhhunghimself/504-week7/internal/puzzle"
	"github.com/lhhunghimself/504-week7/internal/store"
)

var (
	playerFlag   string
	dbFlag       string
	mazeSizeFlag int
	seedFlag     int64
	gatesFlag    int
	minimalFlag  bool
	resumeFlag   string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start or resume a maze run",
	Long: `Starts a new quiz maze run, or resumes a saved one with --resume.

New runs use the configured maze recipe unless overridden by flags:
  quizmaze play --maze-size 9 --seed 7 --gates 3
  quizmaze play --minimal            # the fixed 3x3 starter maze
  quizmaze play --resume <game-id>`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playerFlag, "player", "", "player handle (defaults to config)")
	playCmd.Flags().StringVar(&dbFlag, "db", "", "database path (defaults to config)")
	playCmd.Flags().IntVar(&mazeSizeFlag, "maze-size", 0, "generated maze size")
	playCmd.Flags().Int64Var(&seedFlag, "seed", 0, "maze generation seed")
	playCmd.Flags().IntVar(&gatesFlag, "gates", 0, "number of quiz gates")
	playCmd.Flags().BoolVar(&minimalFlag, "minimal", false, "play the fixed 3x3 walking-skeleton maze")
	playCmd.Flags().StringVar(&resumeFlag, "resume", "", "game ID of a saved run to resume")
}

func openRepo() (store.GameRepository, error) {
	path := cfg.DatabasePath
	if dbFlag != "" {
		path = dbFlag
	}
	return store.OpenRepo(path, logger)
}

// registryFor draws puzzles from the SQLite question bank when the
// backend provides one; the JSON backend falls back to the builtins.
func registryFor(repo store.GameRepository) puzzle.Registry {
	if bank, ok := repo.(store.QuestionBank); ok {
		return puzzle.NewBankRegistry(bank, logger)
	}
	return puzzle.NewStaticRegistry()
}

func buildMaze() *maze.Maze {
	mc := cfg.Maze
	if mazeSizeFlag > 0 {
		mc.Size = mazeSizeFlag
		mc.Minimal = false
	}
	if seedFlag != 0 {
		mc.Seed = seedFlag
	}
	if gatesFlag > 0 {
		mc.Gates = gatesFlag
	}
	if minimalFlag || mc.Minimal {
		return maze.BuildMinimal3x3()
	}
	return maze.BuildSquareMaze(mc.Size, mc.Seed, mc.Gates)
}

func runPlay(cmd *cobra.Command, args []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer repo.Close()

	handle := cfg.Player
	if playerFlag != "" {
		handle = playerFlag
	}
	player, err := repo.GetOrCreatePlayer(handle)
	if err != nil {
		return err
	}

	var m *maze.Maze
	var game *store.Game
	if resumeFlag != "" {
		game, err = repo.GetGame(resumeFlag)
		if err != nil {
			return fmt.Errorf("resume %s: %w", resumeFlag, err)
		}
		if game.PlayerID != player.ID {
			return fmt.Errorf("game %s belongs to a different player", resumeFlag)
		}
		m, err = maze.FromID(game.MazeID)
		if err != nil {
			return err
		}
		logger.Info("resuming game",
			zap.String("game", game.ID), zap.String("maze", m.ID))
	} else {
		m = buildMaze()
		initial := store.GameState{
			Pos:         store.Pos{Row: m.Start.Row, Col: m.Start.Col},
			SolvedGates: []string{},
			StartedAt:   time.Now().UTC().Truncate(time.Second).Format(time.RFC3339),
		}
		game, err = repo.CreateGame(player.ID, m.ID, m.Version, initial)
		if err != nil {
			return err
		}
		logger.Info("starting game",
			zap.String("game", game.ID),
			zap.String("maze", m.ID),
			zap.String("player", handle))
	}

	eng, err := engine.New(engine.Config{
		Maze:     m,
		Repo:     repo,
		Puzzles:  registryFor(repo),
		PlayerID: player.ID,
		GameID:   game.ID,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	model := newSessionModel(eng, handle, game.ID)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
