package domain

import (
	"fmt"
	"time"
)

// GameStatus is the lifecycle state of a game session. The two terminal
// states are absorbing.
type GameStatus string

const (
	StatusInProgress GameStatus = "in_progress"
	StatusCompleted  GameStatus = "completed"
	StatusAbandoned  GameStatus = "abandoned"
)

// GameSession is the aggregate root of one player's play-through of a quiz.
// It is mutated only by replacement: every transition returns a new value
// whose invariants were checked at construction.
type GameSession struct {
	ID                 string          `json:"id"`
	QuizID             string          `json:"quizId"`
	PlayerID           string          `json:"playerId"`
	CurrentLevel       int             `json:"currentLevel"`
	Status             GameStatus      `json:"status"`
	Answers            []SessionAnswer `json:"answers"`
	StartedAt          time.Time       `json:"startedAt"`
	CompletedAt        *time.Time      `json:"completedAt,omitempty"`
	CurrentPrizeAmount int64           `json:"currentPrizeAmount"`
	GuaranteedAmount   int64           `json:"guaranteedAmount"`
	TimeRemaining      *int            `json:"timeRemaining,omitempty"`
}

// NewGameSession creates a fresh session at level 1 with zero prize and
// guarantee.
func NewGameSession(id, quizID, playerID string, startedAt time.Time) (GameSession, error) {
	s := GameSession{
		ID:           id,
		QuizID:       quizID,
		PlayerID:     playerID,
		CurrentLevel: 1,
		Status:       StatusInProgress,
		Answers:      nil,
		StartedAt:    startedAt,
	}
	if err := s.validate(); err != nil {
		return GameSession{}, err
	}
	return s, nil
}

func (s GameSession) validate() error {
	if s.CurrentLevel < 0 {
		return fmt.Errorf("%w: current level cannot be negative", ErrInvalidEntity)
	}
	if s.CurrentPrizeAmount < 0 {
		return fmt.Errorf("%w: prize amount cannot be negative", ErrInvalidEntity)
	}
	if s.GuaranteedAmount < 0 {
		return fmt.Errorf("%w: guaranteed amount cannot be negative", ErrInvalidEntity)
	}
	if s.GuaranteedAmount > s.CurrentPrizeAmount {
		return fmt.Errorf("%w: guaranteed amount cannot exceed current prize amount", ErrInvalidEntity)
	}
	return nil
}

// IsActive reports whether the session can still accept transitions.
func (s GameSession) IsActive() bool {
	return s.Status == StatusInProgress
}

// CanResume reports whether the session may be picked up again.
func (s GameSession) CanResume() bool {
	return s.Status == StatusInProgress
}

// LastAnswer returns the most recent response record.
func (s GameSession) LastAnswer() (SessionAnswer, bool) {
	if len(s.Answers) == 0 {
		return SessionAnswer{}, false
	}
	return s.Answers[len(s.Answers)-1], true
}

// CorrectAnswerCount counts responses scored correct.
func (s GameSession) CorrectAnswerCount() int {
	n := 0
	for _, a := range s.Answers {
		if a.IsCorrect() {
			n++
		}
	}
	return n
}

// TotalTimeUsed sums the seconds spent across all recorded responses.
func (s GameSession) TotalTimeUsed() int {
	total := 0
	for _, a := range s.Answers {
		total += a.TimeUsed
	}
	return total
}

// WithTimeRemaining returns a copy carrying a countdown marker for the
// current question.
func (s GameSession) WithTimeRemaining(seconds int) GameSession {
	out := s
	out.TimeRemaining = &seconds
	return out
}

// TransitionOutcome describes the caller-facing effect of one transition.
type TransitionOutcome struct {
	IsCorrect           bool
	CorrectAnswerID     string
	NewPrizeAmount      int64
	NewGuaranteedAmount int64
	GameCompleted       bool
	FinalPrize          int64
}

// Answer scores a submitted answer against the question at the current level
// and returns the replacement session plus the outcome.
//
// A correct answer banks the current level's prize, ratchets the guarantee on
// a safe-haven rung, and either advances the level or completes the quiz when
// the current level was the last. An incorrect answer completes the session
// with the prize folded down to the guaranteed amount.
func (s GameSession) Answer(quiz Quiz, questionID, answerID string, timeUsed int, now time.Time) (GameSession, TransitionOutcome, error) {
	if !s.IsActive() {
		return GameSession{}, TransitionOutcome{}, ErrSessionNotActive
	}
	question, ok := quiz.QuestionAtLevel(s.CurrentLevel)
	if !ok || question.ID != questionID {
		return GameSession{}, TransitionOutcome{}, ErrQuestionNotFound
	}

	isCorrect := question.IsAnswerCorrect(answerID)
	tag := ResultIncorrect
	if isCorrect {
		tag = ResultCorrect
	}
	record, err := NewSessionAnswer(questionID, answerID, tag, timeUsed, now)
	if err != nil {
		return GameSession{}, TransitionOutcome{}, err
	}

	outcome := TransitionOutcome{
		IsCorrect:           isCorrect,
		CorrectAnswerID:     question.CorrectAnswerID,
		NewPrizeAmount:      s.CurrentPrizeAmount,
		NewGuaranteedAmount: s.GuaranteedAmount,
	}

	next := s
	next.Answers = appendAnswer(s.Answers, record)
	next.TimeRemaining = nil

	if isCorrect {
		// A malformed ladder with no rung for this level leaves the prize
		// unchanged rather than failing mid-game.
		if prize, ok := quiz.PrizeAtLevel(s.CurrentLevel); ok {
			outcome.NewPrizeAmount = prize.Amount
			if prize.SafeHaven && prize.Amount > outcome.NewGuaranteedAmount {
				outcome.NewGuaranteedAmount = prize.Amount
			}
		}
		if s.CurrentLevel >= len(quiz.Questions) {
			outcome.GameCompleted = true
			outcome.FinalPrize = outcome.NewPrizeAmount
			next.Status = StatusCompleted
			completed := now
			next.CompletedAt = &completed
		} else {
			next.CurrentLevel = s.CurrentLevel + 1
		}
	} else {
		outcome.NewPrizeAmount = s.GuaranteedAmount
		outcome.GameCompleted = true
		outcome.FinalPrize = s.GuaranteedAmount
		next.Status = StatusCompleted
		completed := now
		next.CompletedAt = &completed
	}

	next.CurrentPrizeAmount = outcome.NewPrizeAmount
	next.GuaranteedAmount = outcome.NewGuaranteedAmount

	if err := next.validate(); err != nil {
		return GameSession{}, TransitionOutcome{}, err
	}
	return next, outcome, nil
}

// TimeOut ends the session after the countdown for the current question
// expired. Financially identical to an incorrect answer; the response record
// is tagged timeout with the question's full time limit as time used.
func (s GameSession) TimeOut(quiz Quiz, now time.Time) (GameSession, TransitionOutcome, error) {
	if !s.IsActive() {
		return GameSession{}, TransitionOutcome{}, ErrSessionNotActive
	}
	question, ok := quiz.QuestionAtLevel(s.CurrentLevel)
	if !ok {
		return GameSession{}, TransitionOutcome{}, ErrQuestionNotFound
	}

	record, err := NewSessionAnswer(question.ID, "", ResultTimeout, question.TimeLimit, now)
	if err != nil {
		return GameSession{}, TransitionOutcome{}, err
	}

	next := s
	next.Answers = appendAnswer(s.Answers, record)
	next.Status = StatusCompleted
	completed := now
	next.CompletedAt = &completed
	next.CurrentPrizeAmount = s.GuaranteedAmount
	next.TimeRemaining = nil

	outcome := TransitionOutcome{
		CorrectAnswerID:     question.CorrectAnswerID,
		NewPrizeAmount:      s.GuaranteedAmount,
		NewGuaranteedAmount: s.GuaranteedAmount,
		GameCompleted:       true,
		FinalPrize:          s.GuaranteedAmount,
	}

	if err := next.validate(); err != nil {
		return GameSession{}, TransitionOutcome{}, err
	}
	return next, outcome, nil
}

// Abandon ends the session voluntarily. Walking away banks the current prize
// amount, not just the guarantee.
func (s GameSession) Abandon(now time.Time) (GameSession, int64, error) {
	if !s.IsActive() {
		return GameSession{}, 0, ErrSessionNotActive
	}
	next := s
	next.Status = StatusAbandoned
	completed := now
	next.CompletedAt = &completed
	next.TimeRemaining = nil
	return next, s.CurrentPrizeAmount, nil
}

func appendAnswer(answers []SessionAnswer, record SessionAnswer) []SessionAnswer {
	out := make([]SessionAnswer, len(answers), len(answers)+1)
	copy(out, answers)
	return append(out, record)
}
