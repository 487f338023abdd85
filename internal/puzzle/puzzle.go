// Package puzzle resolves gate IDs to quiz challenges and checks answers.
package puzzle

import (
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
)

// Puzzle is one challenge bound to a maze gate.
type Puzzle struct {
	ID     string
	Title  string
	Prompt string
	Answer string
	Hint   string
}

// Check reports whether the answer matches, ignoring case and
// surrounding whitespace.
func (p *Puzzle) Check(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(p.Answer))
}

// Registry resolves puzzles for gate IDs. Implementations must return
// the same puzzle for the same gate within a run, so a wrong answer can
// be retried against an unchanged prompt.
type Registry interface {
	Get(gateID string) (*Puzzle, error)
}

// builtins back the shipped mazes; they also serve as the fallback when
// the question bank runs dry.
var builtins = []Puzzle{
	{
		Title:  "Checksum Gate",
		Prompt: "A packet of 7 bytes plus a packet of 5 bytes passes the gate. How many bytes total?",
		Answer: "12",
		Hint:   "Plain addition, no parity bits.",
	},
	{
		Title:  "Port Knock",
		Prompt: "HTTPS listens on which well-known port?",
		Answer: "443",
		Hint:   "One more than 442.",
	},
	{
		Title:  "Binary Lock",
		Prompt: "What is binary 1010 in decimal?",
		Answer: "10",
		Hint:   "8 + 2.",
	},
	{
		Title:  "Cipher Shift",
		Prompt: "ROT13 of the word 'tngr' spells what?",
		Answer: "gate",
		Hint:   "Apply ROT13 once more.",
	},
	{
		Title:  "Kernel Trivia",
		Prompt: "Which signal number is SIGKILL?",
		Answer: "9",
		Hint:   "kill -9.",
	},
}

// StaticRegistry deals builtin puzzles to gates. Assignment is by a
// stable hash of the gate ID, so the same maze always asks the same
// questions.
type StaticRegistry struct {
	mu       sync.Mutex
	assigned map[string]*Puzzle
}

// NewStaticRegistry returns a registry over the builtin puzzle set.
func NewStaticRegistry() *StaticRegistry {
	return &StaticRegistry{assigned: make(map[string]*Puzzle)}
}

func (r *StaticRegistry) Get(gateID string) (*Puzzle, error) {
	if gateID == "" {
		return nil, fmt.Errorf("empty gate id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.assigned[gateID]; ok {
		return p, nil
	}
	h := fnv.New32a()
	h.Write([]byte(gateID))
	src := builtins[int(h.Sum32())%len(builtins)]
	p := &Puzzle{
		ID:     gateID,
		Title:  src.Title,
		Prompt: src.Prompt,
		Answer: src.Answer,
		Hint:   src.Hint,
	}
	r.assigned[gateID] = p
	return p, nil
}
