package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The contract tests run identically against both backends; the storage
// format is the only thing allowed to differ.
func withEachBackend(t *testing.T, fn func(t *testing.T, repo GameRepository)) {
	t.Helper()

	backends := []struct {
		name string
		open func(t *testing.T) GameRepository
	}{
		{
			name: "json",
			open: func(t *testing.T) GameRepository {
				repo, err := NewJSONRepository(filepath.Join(t.TempDir(), "state.json"), nil)
				require.NoError(t, err)
				return repo
			},
		},
		{
			name: "sqlite",
			open: func(t *testing.T) GameRepository {
				repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "state.db"), nil)
				require.NoError(t, err)
				return repo
			},
		},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			repo := b.open(t)
			defer repo.Close()
			fn(t, repo)
		})
	}
}

func initialState() GameState {
	return GameState{
		Pos:         Pos{Row: 0, Col: 0},
		MoveCount:   0,
		SolvedGates: []string{},
		StartedAt:   "2026-02-13T00:00:00Z",
	}
}

func TestGetOrCreatePlayerIsIdempotent(t *testing.T) {
	withEachBackend(t, func(t *testing.T, repo GameRepository) {
		p1, err := repo.GetOrCreatePlayer("neo")
		require.NoError(t, err)
		p2, err := repo.GetOrCreatePlayer("neo")
		require.NoError(t, err)

		assert.Equal(t, p1.ID, p2.ID)
		assert.Equal(t, "neo", p1.Handle)
		assert.NotEmpty(t, p1.CreatedAt)

		loaded, err := repo.GetPlayer(p1.ID)
		require.NoError(t, err)
		assert.Equal(t, p1.Handle, loaded.Handle)
	})
}

func TestGetPlayerNotFound(t *testing.T) {
	withEachBackend(t, func(t *testing.T, repo GameRepository) {
		_, err := repo.GetPlayer("no-such-id")
		assert.ErrorIs(t, err, ErrPlayerNotFound)
	})
}

func TestCreateAndGetGameRoundTrip(t *testing.T) {
	withEachBackend(t, func(t *testing.T, repo GameRepository) {
		player, err := repo.GetOrCreatePlayer("neo")
		require.NoError(t, err)

		game, err := repo.CreateGame(player.ID, "maze-3x3-v1", "1.0", initialState())
		require.NoError(t, err)

		loaded, err := repo.GetGame(game.ID)
		require.NoError(t, err)
		assert.Equal(t, player.ID, loaded.PlayerID)
		assert.Equal(t, "maze-3x3-v1", loaded.MazeID)
		assert.Equal(t, "1.0", loaded.MazeVersion)
		assert.Equal(t, initialState(), loaded.State)
		assert.Equal(t, StatusInProgress, loaded.Status)
	})
}

func TestGetGameNotFound(t *testing.T) {
	withEachBackend(t, func(t *testing.T, repo GameRepository) {
		_, err := repo.GetGame("no-such-game")
		assert.ErrorIs(t, err, ErrGameNotFound)

		_, err = repo.SaveGame("no-such-game", initialState(), StatusInProgress)
		assert.ErrorIs(t, err, ErrGameNotFound)
	})
}

func TestSaveGameUpdatesStateAndStatus(t *testing.T) {
	withEachBackend(t, func(t *testing.T, repo GameRepository) {
		player, err := repo.GetOrCreatePlayer("neo")
		require.NoError(t, err)
		game, err := repo.CreateGame(player.ID, "maze-3x3-v1", "1.0", initialState())
		require.NoError(t, err)

		next := initialState()
		next.Pos = Pos{Row: 1, Col: 1}
		next.MoveCount = 3

		updated, err := repo.SaveGame(game.ID, next, StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, next, updated.State)
		assert.Equal(t, StatusCompleted, updated.Status)
		assert.GreaterOrEqual(t, updated.UpdatedAt, updated.CreatedAt)
	})
}

func TestListGamesOrderedByRecency(t *testing.T) {
	withEachBackend(t, func(t *testing.T, repo GameRepository) {
		player, err := repo.GetOrCreatePlayer("neo")
		require.NoError(t, err)
		other, err := repo.GetOrCreatePlayer("trinity")
		require.NoError(t, err)

		g1, err := repo.CreateGame(player.ID, "maze-3x3-v1", "1.0", initialState())
		require.NoError(t, err)
		g2, err := repo.CreateGame(player.ID, "maze-5x5-s42", "1.0", initialState())
		require.NoError(t, err)
		_, err = repo.CreateGame(other.ID, "maze-3x3-v1", "1.0", initialState())
		require.NoError(t, err)

		games, err := repo.ListGames(player.ID)
		require.NoError(t, err)
		require.Len(t, games, 2)
		ids := []string{games[0].ID, games[1].ID}
		assert.ElementsMatch(t, []string{g1.ID, g2.ID}, ids)
	})
}

func TestRecordScoreAndTopScoresOrdering(t *testing.T) {
	withEachBackend(t, func(t *testing.T, repo GameRepository) {
		player, err := repo.GetOrCreatePlayer("neo")
		require.NoError(t, err)
		game, err := repo.CreateGame(player.ID, "maze-3x3-v1", "1.0", initialState())
		require.NoError(t, err)

		for _, m := range []Metrics{
			{ElapsedSeconds: 12, Moves: 20},
			{ElapsedSeconds: 9, Moves: 40},
			{ElapsedSeconds: 9, Moves: 10},
		} {
			_, err := repo.RecordScore(player.ID, game.ID, "maze-3x3-v1", "1.0", m)
			require.NoError(t, err)
		}

		top2, err := repo.TopScores("maze-3x3-v1", 2)
		require.NoError(t, err)
		require.Len(t, top2, 2)

		// Lowest elapsed time first, moves break ties.
		assert.Equal(t, Metrics{ElapsedSeconds: 9, Moves: 10}, top2[0].Metrics)
		assert.Equal(t, Metrics{ElapsedSeconds: 9, Moves: 40}, top2[1].Metrics)

		all, err := repo.TopScores("", 10)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		none, err := repo.TopScores("other-maze", 10)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestOpenRepoSelectsBackendBySuffix(t *testing.T) {
	dir := t.TempDir()

	jsonRepo, err := OpenRepo(filepath.Join(dir, "state.json"), nil)
	require.NoError(t, err)
	defer jsonRepo.Close()
	_, ok := jsonRepo.(*JSONRepository)
	assert.True(t, ok, "expected a JSON repository for .json path")

	sqliteRepo, err := OpenRepo(filepath.Join(dir, "state.db"), nil)
	require.NoError(t, err)
	defer sqliteRepo.Close()
	_, ok = sqliteRepo.(*SQLiteRepository)
	assert.True(t, ok, "expected an SQLite repository by default")
}

func TestJSONSchemaRootKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	repo, err := NewJSONRepository(path, nil)
	require.NoError(t, err)
	defer repo.Close()

	_, err = repo.GetOrCreatePlayer("neo")
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, key := range []string{"schema_version", "players", "games", "scores"} {
		assert.Contains(t, doc, key)
	}

	var version int
	require.NoError(t, json.Unmarshal(doc["schema_version"], &version))
	assert.Equal(t, 1, version)
}

func TestJSONRepositoryBackfillsMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"players": {}}`), 0644))

	repo, err := NewJSONRepository(path, nil)
	require.NoError(t, err)
	defer repo.Close()

	scores, err := repo.TopScores("", 5)
	require.NoError(t, err)
	assert.Empty(t, scores)
}
