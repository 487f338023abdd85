package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List saved runs for a player",
	Long: `Lists a player's games, most recently played first. Resume one with
  quizmaze play --resume <game-id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		games, err := repo.ListGames(player.ID)
		if err != nil {
			return err
		}
		if len(games) == 0 {
			fmt.Printf("No saved games for %s.\n", handle)
			return nil
		}

		fmt.Printf("%-38s %-22s %-12s %6s  %s\n", "game", "maze", "status", "moves", "updated")
		for _, g := range games {
			fmt.Printf("%-38s %-22s %-12s %6d  %s\n",
				g.ID, g.MazeID, g.Status, g.State.MoveCount, g.UpdatedAt)
		}
		return nil
	},
}

func init() {
	gamesCmd.Flags().StringVar(&playerFlag, "player", "", "player handle (defaults to config)")
	gamesCmd.Flags().StringVar(&dbFlag, "db", "", "database path (defaults to config)")
}
