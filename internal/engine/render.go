package engine

import (
	"strings"

	"github.com/lhhunghimself/504-week7/internal/maze"
)

// Map cell markers. Unvisited cells stay masked until the player has
// stood on them (fog of war), so the exit location is a discovery.
const (
	markMasked  = "###"
	markPlayer  = " @ "
	markStart   = " S "
	markExit    = " X "
	markVisited = " . "
)

// RenderMap draws the grid with fog of war. revealAll bypasses the fog
// (used by the post-game map and debugging).
func (e *Engine) RenderMap(revealAll bool) string {
	return renderMap(e.maze, e.pos, e.visited, revealAll)
}

func renderMap(m *maze.Maze, pos maze.Position, visited map[maze.Position]bool, revealAll bool) string {
	var b strings.Builder
	for r := 0; r < m.Height; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < m.Width; c++ {
			cell := maze.Position{Row: r, Col: c}
			switch {
			case cell == pos:
				b.WriteString(markPlayer)
			case !revealAll && !visited[cell]:
				b.WriteString(markMasked)
			case cell == m.Start:
				b.WriteString(markStart)
			case cell == m.Exit:
				b.WriteString(markExit)
			default:
				b.WriteString(markVisited)
			}
		}
	}
	return b.String()
}
