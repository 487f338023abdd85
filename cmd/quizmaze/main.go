// Package main provides the quizmaze CLI: a puzzle-gated maze crawler
// where quiz questions unlock passages.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lhhunghimself/504-week7/internal/config"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "quizmaze",
	Short: "quizmaze - a quiz-gated maze crawler",
	Long: `quizmaze drops you into a procedurally generated maze where locked
passages are guarded by quiz questions. Answer correctly to pass,
find the exit, and climb the leaderboard.

Run without arguments to start playing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real env vars win either way.
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		level := zapcore.InfoLevel
		if verbose || cfg.Logging.Level == "debug" {
			level = zapcore.DebugLevel
		} else if parsed, perr := zapcore.ParseLevel(cfg.Logging.Level); perr == nil {
			level = parsed
		}
		zapCfg := zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(level)
		// Keep log noise off the interactive transcript.
		zapCfg.OutputPaths = []string{"stderr"}
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to quizmaze.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
