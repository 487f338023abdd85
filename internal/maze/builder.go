package maze

import (
	"fmt"
	"math/rand"
)

// gridBuilder accumulates mutable cell data before freezing it into a Maze.
type gridBuilder struct {
	width  int
	height int
	cells  map[Position]*Cell
}

func newGridBuilder(width, height int) *gridBuilder {
	b := &gridBuilder{
		width:  width,
		height: height,
		cells:  make(map[Position]*Cell, width*height),
	}
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			pos := Position{Row: r, Col: c}
			b.cells[pos] = &Cell{
				Pos:         pos,
				Kind:        KindNormal,
				Title:       fmt.Sprintf("Node %d,%d", r, c),
				Description: "Neon-lit system corridor.",
				Blocked:     make(map[Direction]bool),
				EdgeGates:   make(map[Direction]string),
			}
		}
	}
	return b
}

func (b *gridBuilder) inBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < b.height && pos.Col >= 0 && pos.Col < b.width
}

// addWall blocks the edge on both sides so the maze stays symmetric.
func (b *gridBuilder) addWall(pos Position, d Direction) {
	b.cells[pos].Blocked[d] = true
	other := pos.Move(d)
	if b.inBounds(other) {
		b.cells[other].Blocked[d.Opposite()] = true
	}
}

// removeWall opens the edge on both sides.
func (b *gridBuilder) removeWall(pos Position, d Direction) {
	delete(b.cells[pos].Blocked, d)
	other := pos.Move(d)
	if b.inBounds(other) {
		delete(b.cells[other].Blocked, d.Opposite())
	}
}

// addGate gates the edge leaving pos in direction d and hosts the matching
// puzzle in the destination cell.
func (b *gridBuilder) addGate(pos Position, d Direction, gateID string) {
	b.cells[pos].EdgeGates[d] = gateID
	other := pos.Move(d)
	if b.inBounds(other) {
		b.cells[other].PuzzleID = gateID
	}
}

func (b *gridBuilder) freeze(id, version string, start, exit Position) *Maze {
	return &Maze{
		ID:      id,
		Version: version,
		Width:   b.width,
		Height:  b.height,
		Start:   start,
		Exit:    exit,
		cells:   b.cells,
	}
}

// BuildMinimal3x3 returns the fixed walking-skeleton maze: a 3x3 grid with
// three interior walls and a single gated edge east of the start.
func BuildMinimal3x3() *Maze {
	start := Position{Row: 0, Col: 0}
	exit := Position{Row: 2, Col: 2}

	b := newGridBuilder(3, 3)

	b.cells[start].Kind = KindStart
	b.cells[start].Title = "Ingress Port"
	b.cells[start].Description = "You jack into the internal network."

	b.cells[exit].Kind = KindExit
	b.cells[exit].Title = "Root Access Gateway"
	b.cells[exit].Description = "One final jump grants root shell."

	b.addWall(Position{Row: 0, Col: 1}, South)
	b.addWall(Position{Row: 1, Col: 0}, South)
	b.addWall(Position{Row: 1, Col: 1}, East)

	gateID := "gate-basics-1"
	b.addGate(start, East, gateID)
	guard := b.cells[Position{Row: 0, Col: 1}]
	guard.Title = "Firewall Lattice"
	guard.Description = "A quiz challenge guards this route."

	return b.freeze("maze-3x3-v1", "1.0", start, exit)
}

// BuildSquareMaze generates a seeded size x size maze with numGates
// puzzle-gated edges. The same (size, seed, numGates) triple always
// produces the same maze, and the exit is reachable from the start.
// Sizes below 2 are clamped to 2; numGates below 1 is clamped to 1.
func BuildSquareMaze(size int, seed int64, numGates int) *Maze {
	if size < 2 {
		size = 2
	}
	if numGates < 1 {
		numGates = 1
	}

	start := Position{Row: 0, Col: 0}
	exit := Position{Row: size - 1, Col: size - 1}

	b := newGridBuilder(size, size)
	rng := rand.New(rand.NewSource(seed))

	// Wall every interior edge, then carve a perfect maze with an
	// iterative backtracker. A perfect maze keeps every cell reachable.
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			pos := Position{Row: r, Col: c}
			for _, d := range []Direction{South, East} {
				if b.inBounds(pos.Move(d)) {
					b.addWall(pos, d)
				}
			}
		}
	}

	visited := make(map[Position]bool, size*size)
	stack := []Position{start}
	visited[start] = true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		var options []Direction
		for _, d := range Directions {
			nxt := cur.Move(d)
			if b.inBounds(nxt) && !visited[nxt] {
				options = append(options, d)
			}
		}
		if len(options) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		d := options[rng.Intn(len(options))]
		nxt := cur.Move(d)
		b.removeWall(cur, d)
		visited[nxt] = true
		stack = append(stack, nxt)
	}

	b.cells[start].Kind = KindStart
	b.cells[start].Title = "Ingress Port"
	b.cells[start].Description = "You jack into the internal network."

	b.cells[exit].Kind = KindExit
	b.cells[exit].Title = "Root Access Gateway"
	b.cells[exit].Description = "One final jump grants root shell."

	placeGates(b, rng, start, exit, numGates)

	// The ID encodes the full recipe so FromID can rebuild the exact
	// same maze when a saved game is resumed.
	id := fmt.Sprintf("maze-%dx%d-s%d-g%d", size, size, seed, numGates)
	return b.freeze(id, "1.0", start, exit)
}

// MinimalMazeID identifies the fixed walking-skeleton maze.
const MinimalMazeID = "maze-3x3-v1"

// FromID rebuilds the maze a saved game was created on.
func FromID(id string) (*Maze, error) {
	if id == MinimalMazeID {
		return BuildMinimal3x3(), nil
	}
	var width, height, gates int
	var seed int64
	if n, err := fmt.Sscanf(id, "maze-%dx%d-s%d-g%d", &width, &height, &seed, &gates); err != nil || n != 4 {
		return nil, fmt.Errorf("unrecognized maze id %q", id)
	}
	if width != height {
		return nil, fmt.Errorf("unrecognized maze id %q: not square", id)
	}
	return BuildSquareMaze(width, seed, gates), nil
}

// placeGates gates edges along the start-to-exit solution path so every
// run encounters its quizzes. Extra gates beyond the path length land on
// other open edges.
func placeGates(b *gridBuilder, rng *rand.Rand, start, exit Position, numGates int) {
	type edge struct {
		pos Position
		dir Direction
	}

	path := solutionPath(b, start, exit)
	candidates := make([]edge, 0, len(path))
	for _, step := range path {
		candidates = append(candidates, edge{pos: step.pos, dir: step.dir})
	}

	if numGates > len(candidates) {
		onPath := make(map[edge]bool, len(candidates))
		for _, e := range candidates {
			onPath[e] = true
		}
		var extra []edge
		for r := 0; r < b.height; r++ {
			for c := 0; c < b.width; c++ {
				pos := Position{Row: r, Col: c}
				for _, d := range []Direction{South, East} {
					if b.cells[pos].Blocked[d] || !b.inBounds(pos.Move(d)) {
						continue
					}
					e := edge{pos: pos, dir: d}
					if !onPath[e] {
						extra = append(extra, e)
					}
				}
			}
		}
		rng.Shuffle(len(extra), func(i, j int) { extra[i], extra[j] = extra[j], extra[i] })
		candidates = append(candidates, extra...)
	} else {
		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
	}

	placed := 0
	for _, e := range candidates {
		if placed == numGates {
			break
		}
		dest := b.cells[e.pos.Move(e.dir)]
		// One puzzle per cell keeps the gate-to-puzzle mapping unambiguous.
		if dest.PuzzleID != "" {
			continue
		}
		gateID := fmt.Sprintf("gate-quiz-%d", placed+1)
		b.addGate(e.pos, e.dir, gateID)
		if dest.Kind == KindNormal {
			dest.Title = "Firewall Lattice"
			dest.Description = "A quiz challenge guards this route."
		}
		placed++
	}
}

type pathStep struct {
	pos Position
	dir Direction
}

// solutionPath returns the BFS path from start to exit as (position,
// outgoing direction) steps. The carve phase guarantees one exists.
func solutionPath(b *gridBuilder, start, exit Position) []pathStep {
	type preEntry struct {
		pos Position
		dir Direction
	}
	prev := map[Position]preEntry{start: {}}
	queue := []Position{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == exit {
			break
		}
		for _, d := range Directions {
			if b.cells[cur].Blocked[d] {
				continue
			}
			nxt := cur.Move(d)
			if !b.inBounds(nxt) {
				continue
			}
			if _, seen := prev[nxt]; seen {
				continue
			}
			prev[nxt] = preEntry{pos: cur, dir: d}
			queue = append(queue, nxt)
		}
	}

	if _, ok := prev[exit]; !ok {
		return nil
	}
	var steps []pathStep
	for cur := exit; cur != start; {
		entry := prev[cur]
		steps = append(steps, pathStep{pos: entry.pos, dir: entry.dir})
		cur = entry.pos
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}
