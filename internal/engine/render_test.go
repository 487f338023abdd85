package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhhunghimself/504-week7/internal/maze"
)

func TestExitHiddenUntilDiscovered(t *testing.T) {
	m := maze.BuildMinimal3x3()

	fog := renderMap(m, m.Start, map[maze.Position]bool{m.Start: true}, false)
	assert.NotContains(t, fog, markExit)

	revealed := renderMap(m, m.Start, map[maze.Position]bool{m.Start: true, m.Exit: true}, false)
	assert.Contains(t, revealed, markExit)
}

func TestUnvisitedCellsAreMasked(t *testing.T) {
	m := maze.BuildMinimal3x3()

	fog := renderMap(m, m.Start, map[maze.Position]bool{m.Start: true}, false)
	assert.Contains(t, fog, markMasked)

	// The player marker overrides everything else on the current cell.
	assert.Contains(t, fog, markPlayer)
	lines := strings.Split(fog, "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], markPlayer))
}

func TestRevealAllBypassesFog(t *testing.T) {
	m := maze.BuildMinimal3x3()

	full := renderMap(m, m.Start, map[maze.Position]bool{}, true)
	assert.NotContains(t, full, markMasked)
	assert.Contains(t, full, markExit)
}

func TestMapCommandRendersFog(t *testing.T) {
	e, _, _ := newTestEngine(t)

	out, err := e.Handle(Command{Verb: "map"})
	require.NoError(t, err)
	require.Len(t, out.Messages, 1)
	assert.Contains(t, out.Messages[0], markMasked)
	assert.Contains(t, out.Messages[0], markPlayer)
	assert.False(t, out.DidPersist)
}

func TestVisitedTrailPersistsAcrossResume(t *testing.T) {
	e, m, repo := newTestEngine(t)

	d := firstUngatedDirection(t, m)
	_, err := e.Handle(Command{Verb: "go", Args: []string{d.String()}})
	require.NoError(t, err)

	resumed, err := New(Config{
		Maze: m, Repo: repo, Puzzles: testRegistry{},
		PlayerID: e.playerID, GameID: e.gameID,
	})
	require.NoError(t, err)

	// Both the start and the new cell stay revealed after a reload.
	rendered := resumed.RenderMap(false)
	assert.Contains(t, rendered, markStart)
	assert.Contains(t, rendered, markPlayer)
}
