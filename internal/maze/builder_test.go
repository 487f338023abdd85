package maze

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSquareMazeSizeAndBounds(t *testing.T) {
	m := BuildSquareMaze(7, 11, 1)

	assert.Equal(t, 7, m.Width)
	assert.Equal(t, 7, m.Height)
	assert.True(t, m.InBounds(m.Start))
	assert.True(t, m.InBounds(m.Exit))
	assert.Equal(t, Position{Row: 0, Col: 0}, m.Start)
	assert.Equal(t, Position{Row: 6, Col: 6}, m.Exit)
}

func TestBuildSquareMazeExitIsReachable(t *testing.T) {
	for _, seed := range []int64{3, 42, 1234} {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			assert.True(t, exitReachable(BuildSquareMaze(9, seed, 2)))
		})
	}
}

func TestBuildSquareMazePlacesRequestedGates(t *testing.T) {
	m := BuildSquareMaze(8, 2, 3)

	gates := m.GateIDs()
	require.NotEmpty(t, gates)
	assert.Len(t, gates, 3)

	// Every gate's guarded edge hosts the matching puzzle on the far side.
	for _, pos := range allPositions(m) {
		for _, d := range Directions {
			gateID := m.GateIDFor(pos, d)
			if gateID == "" {
				continue
			}
			nxt := pos.Move(d)
			require.True(t, m.InBounds(nxt))
			assert.Equal(t, gateID, m.PuzzleIDAt(nxt))
		}
	}
}

func TestBuildSquareMazeIsDeterministic(t *testing.T) {
	a := BuildSquareMaze(6, 99, 2)
	b := BuildSquareMaze(6, 99, 2)

	assert.Equal(t, a.ID, b.ID)
	for _, pos := range allPositions(a) {
		assert.ElementsMatch(t, a.AvailableMoves(pos), b.AvailableMoves(pos), "moves differ at %s", pos)
		for _, d := range Directions {
			assert.Equal(t, a.GateIDFor(pos, d), b.GateIDFor(pos, d))
		}
	}
}

func TestFromIDRebuildsSavedMazes(t *testing.T) {
	minimal, err := FromID(MinimalMazeID)
	require.NoError(t, err)
	assert.Equal(t, 3, minimal.Width)

	built := BuildSquareMaze(5, 42, 2)
	rebuilt, err := FromID(built.ID)
	require.NoError(t, err)
	assert.Equal(t, built.ID, rebuilt.ID)
	for _, pos := range allPositions(built) {
		assert.ElementsMatch(t, built.AvailableMoves(pos), rebuilt.AvailableMoves(pos))
	}

	for _, bad := range []string{"", "maze", "maze-5x7-s1-g1", "maze-axb-s1-g1"} {
		_, err := FromID(bad)
		assert.Error(t, err, "id %q", bad)
	}
}

func TestBuildSquareMazeClampsDegenerateArgs(t *testing.T) {
	m := BuildSquareMaze(0, 1, 0)

	assert.Equal(t, 2, m.Width)
	assert.Equal(t, 2, m.Height)
	assert.NotEmpty(t, m.GateIDs())
	assert.True(t, exitReachable(m))
}
