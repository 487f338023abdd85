package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	scoresMazeFlag  string
	scoresLimitFlag int
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Prints the top scores, fastest first with fewest moves as the
tie-breaker. Filter to one maze with --maze.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepo()
		if err != nil {
			return err
		}
		defer repo.Close()

		scores, err := repo.TopScores(scoresMazeFlag, scoresLimitFlag)
		if err != nil {
			return err
		}
		if len(scores) == 0 {
			fmt.Println("No scores recorded yet.")
			return nil
		}

		fmt.Printf("%-4s %-22s %8s %7s %9s  %s\n", "#", "maze", "time", "moves", "puzzles", "when")
		for i, s := range scores {
			fmt.Printf("%-4d %-22s %7ds %7d %9d  %s\n",
				i+1, s.MazeID, s.Metrics.ElapsedSeconds, s.Metrics.Moves,
				s.Metrics.PuzzlesSolved, s.CreatedAt)
		}
		return nil
	},
}

func init() {
	scoresCmd.Flags().StringVar(&scoresMazeFlag, "maze", "", "only scores for this maze ID")
	scoresCmd.Flags().IntVar(&scoresLimitFlag, "limit", 10, "max entries to show")
	scoresCmd.Flags().StringVar(&dbFlag, "db", "", "database path (defaults to config)")
}
