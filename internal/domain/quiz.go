package domain

import (
	"fmt"
	"time"
)

// PrizeLevel is one rung of a quiz's prize ladder. A safe-haven rung raises
// the session's guaranteed amount once passed with a correct answer.
type PrizeLevel struct {
	Level       int    `json:"level"`
	Amount      int64  `json:"amount"`
	DisplayName string `json:"displayName"`
	SafeHaven   bool   `json:"safeHaven,omitempty"`
}

// Quiz is an ordered playable unit: questions indexed by level (index+1) and
// a prize ladder of equal length. Immutable; edits produce a new value.
type Quiz struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Questions   []Question   `json:"questions"`
	PrizeLadder []PrizeLevel `json:"prizeLadder"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	CreatedBy   string       `json:"createdBy"`
	Active      bool         `json:"active"`
}

// NewQuiz validates and builds a Quiz.
func NewQuiz(id, title, description string, questions []Question, ladder []PrizeLevel, createdAt, updatedAt time.Time, createdBy string, active bool) (Quiz, error) {
	q := Quiz{
		ID:          id,
		Title:       title,
		Description: description,
		Questions:   questions,
		PrizeLadder: ladder,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
		CreatedBy:   createdBy,
		Active:      active,
	}
	if err := q.validate(); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

func (q Quiz) validate() error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: quiz must have at least one question", ErrInvalidEntity)
	}
	if len(q.PrizeLadder) != len(q.Questions) {
		return fmt.Errorf("%w: prize ladder length %d does not match question count %d", ErrInvalidEntity, len(q.PrizeLadder), len(q.Questions))
	}
	for i := 1; i < len(q.PrizeLadder); i++ {
		if q.PrizeLadder[i].Amount <= q.PrizeLadder[i-1].Amount {
			return fmt.Errorf("%w: prize amounts must be strictly ascending (level %d)", ErrInvalidEntity, i+1)
		}
	}
	return nil
}

// QuestionAtLevel returns the question the player attempts at the given
// 1-based level. There is no level 0 question.
func (q Quiz) QuestionAtLevel(level int) (Question, bool) {
	if level < 1 || level > len(q.Questions) {
		return Question{}, false
	}
	return q.Questions[level-1], true
}

// PrizeAtLevel returns the prize ladder rung with a matching level field.
func (q Quiz) PrizeAtLevel(level int) (PrizeLevel, bool) {
	for _, p := range q.PrizeLadder {
		if p.Level == level {
			return p, true
		}
	}
	return PrizeLevel{}, false
}

// MaxPrize returns the top rung of the ladder.
func (q Quiz) MaxPrize() PrizeLevel {
	return q.PrizeLadder[len(q.PrizeLadder)-1]
}

// SafeHavens returns the safe-haven rungs in ascending level order.
func (q Quiz) SafeHavens() []PrizeLevel {
	havens := make([]PrizeLevel, 0, len(q.PrizeLadder))
	for _, p := range q.PrizeLadder {
		if p.SafeHaven {
			havens = append(havens, p)
		}
	}
	return havens
}

// WithPrizeLadder returns a copy of the quiz with a replaced ladder and a
// fresh modification timestamp. The new ladder is re-validated.
func (q Quiz) WithPrizeLadder(ladder []PrizeLevel, now time.Time) (Quiz, error) {
	return NewQuiz(q.ID, q.Title, q.Description, q.Questions, ladder, q.CreatedAt, now, q.CreatedBy, q.Active)
}

// Deactivate returns a soft-deleted copy of the quiz.
func (q Quiz) Deactivate(now time.Time) Quiz {
	out := q
	out.Active = false
	out.UpdatedAt = now
	return out
}
