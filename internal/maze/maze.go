// Package maze provides the grid topology for the quiz maze: cells, walls,
// and puzzle-gated edges. A Maze is immutable once built; game state
// (position, solved gates) lives in the engine and store layers.
package maze

import (
	"fmt"
)

// Direction is one of the four cardinal moves on the grid.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

var directionNames = [...]string{"N", "S", "E", "W"}

// Directions lists all four directions in a stable order.
var Directions = [...]Direction{North, South, East, West}

// String returns the single-letter token used by the CLI and saved state.
func (d Direction) String() string {
	if d < North || d > West {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Delta returns the row/col offset for a move in this direction.
func (d Direction) Delta() (dr, dc int) {
	switch d {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case East:
		return 0, 1
	case West:
		return 0, -1
	}
	return 0, 0
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

// ParseDirection accepts the single-letter tokens and full names,
// case-insensitively. ok is false for anything else.
func ParseDirection(token string) (Direction, bool) {
	switch normalizeToken(token) {
	case "N", "NORTH":
		return North, true
	case "S", "SOUTH":
		return South, true
	case "E", "EAST":
		return East, true
	case "W", "WEST":
		return West, true
	}
	return 0, false
}

func normalizeToken(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' {
			continue
		}
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

// Position identifies a cell by grid coordinates. Row 0 is the top row.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Move returns the position one step away in the given direction.
func (p Position) Move(d Direction) Position {
	dr, dc := d.Delta()
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// CellKind marks the special roles a cell can have.
type CellKind string

const (
	KindStart  CellKind = "start"
	KindExit   CellKind = "exit"
	KindNormal CellKind = "normal"
)

// Cell describes one grid cell: its flavor text, which of its edges are
// walled off, an optional puzzle hosted in the cell, and gates keyed by
// outgoing direction.
type Cell struct {
	Pos         Position
	Kind        CellKind
	Title       string
	Description string
	Blocked     map[Direction]bool
	PuzzleID    string
	EdgeGates   map[Direction]string
}

// Maze is an immutable rectangular grid. Walls are stored symmetrically:
// a wall between two cells appears in the Blocked set of both.
type Maze struct {
	ID      string
	Version string
	Width   int
	Height  int
	Start   Position
	Exit    Position

	cells map[Position]*Cell
}

// InBounds reports whether pos lies on the grid.
func (m *Maze) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < m.Height && pos.Col >= 0 && pos.Col < m.Width
}

// Cell returns the cell at pos.
func (m *Maze) Cell(pos Position) (*Cell, error) {
	if !m.InBounds(pos) {
		return nil, fmt.Errorf("out of bounds position: %s", pos)
	}
	return m.cells[pos], nil
}

// AvailableMoves returns the directions that are passable from pos: in
// bounds and not walled off on either side of the shared edge.
func (m *Maze) AvailableMoves(pos Position) []Direction {
	if !m.InBounds(pos) {
		return nil
	}
	here := m.cells[pos]
	var moves []Direction
	for _, d := range Directions {
		if here.Blocked[d] {
			continue
		}
		if _, ok := m.NextPos(pos, d); !ok {
			continue
		}
		moves = append(moves, d)
	}
	return moves
}

// NextPos returns the destination of a move from pos in direction d, or
// ok=false if the move leaves the grid or crosses a wall. Gates do not
// affect passability here; they are enforced by the engine.
func (m *Maze) NextPos(pos Position, d Direction) (Position, bool) {
	if !m.InBounds(pos) {
		return Position{}, false
	}
	if m.cells[pos].Blocked[d] {
		return Position{}, false
	}
	nxt := pos.Move(d)
	if !m.InBounds(nxt) {
		return Position{}, false
	}
	if m.cells[nxt].Blocked[d.Opposite()] {
		return Position{}, false
	}
	return nxt, true
}

// PuzzleIDAt returns the puzzle hosted at pos, or "" when there is none.
func (m *Maze) PuzzleIDAt(pos Position) string {
	if !m.InBounds(pos) {
		return ""
	}
	return m.cells[pos].PuzzleID
}

// GateIDFor returns the gate on the edge leaving pos in direction d,
// or "" when the edge is ungated.
func (m *Maze) GateIDFor(pos Position, d Direction) string {
	if !m.InBounds(pos) {
		return ""
	}
	return m.cells[pos].EdgeGates[d]
}

// GateIDs returns every gate ID present in the maze, deduplicated.
func (m *Maze) GateIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for r := 0; r < m.Height; r++ {
		for c := 0; c < m.Width; c++ {
			cell := m.cells[Position{Row: r, Col: c}]
			for _, id := range cell.EdgeGates {
				if !seen[id] {
					seen[id] = true
					ids = append(ids, id)
				}
			}
		}
	}
	return ids
}
