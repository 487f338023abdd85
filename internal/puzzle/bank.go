package puzzle

import (
	"fmt"
	"sync"

	"github.com/lhhunghimself/504-week7/internal/store"
	"go.uber.org/zap"
)

// BankRegistry draws gate puzzles from the stored question bank. A gate
// keeps the question it drew for the rest of the run; a drawn question
// is marked asked so later gates never repeat it. When the bank is
// exhausted the registry falls back to the builtin puzzles.
type BankRegistry struct {
	mu       sync.Mutex
	bank     store.QuestionBank
	fallback *StaticRegistry
	assigned map[string]*Puzzle
	logger   *zap.Logger
}

// NewBankRegistry wraps a question bank. logger may be nil.
func NewBankRegistry(bank store.QuestionBank, logger *zap.Logger) *BankRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BankRegistry{
		bank:     bank,
		fallback: NewStaticRegistry(),
		assigned: make(map[string]*Puzzle),
		logger:   logger,
	}
}

func (r *BankRegistry) Get(gateID string) (*Puzzle, error) {
	if gateID == "" {
		return nil, fmt.Errorf("empty gate id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.assigned[gateID]; ok {
		return p, nil
	}

	q, err := r.bank.RandomQuestion()
	if err != nil {
		return nil, fmt.Errorf("draw question for gate %s: %w", gateID, err)
	}
	if q == nil {
		r.logger.Debug("question bank exhausted, using builtin puzzle", zap.String("gate", gateID))
		p, err := r.fallback.Get(gateID)
		if err != nil {
			return nil, err
		}
		r.assigned[gateID] = p
		return p, nil
	}
	if err := r.bank.MarkQuestionAsked(q.ID); err != nil {
		return nil, fmt.Errorf("mark question %s asked: %w", q.ID, err)
	}

	title := "Quiz Gate"
	if q.Category != "" {
		title = fmt.Sprintf("Quiz Gate (%s)", q.Category)
	}
	p := &Puzzle{
		ID:     gateID,
		Title:  title,
		Prompt: q.Text,
		Answer: q.Answer,
		Hint:   q.Hint,
	}
	r.assigned[gateID] = p
	return p, nil
}
