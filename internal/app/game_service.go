package app

import (
	"context"
	"errors"
	"time"

	"trivia-ladder-service/internal/domain"

	"github.com/google/uuid"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// SessionRepository abstracts how game sessions are stored (in-memory,
// Redis, etc). Implementations return domain.ErrSessionNotFound for missing
// sessions and for players with no active session.
type SessionRepository interface {
	GetSession(ctx context.Context, sessionID string) (domain.GameSession, error)
	FindActiveByPlayer(ctx context.Context, playerID string) (domain.GameSession, error)
	SaveSession(ctx context.Context, session domain.GameSession) error
	UpdateSession(ctx context.Context, session domain.GameSession) error
}

// StartResult is the caller-facing outcome of StartSession.
type StartResult struct {
	SessionID string `json:"sessionId"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// ResumeResult carries everything a client needs to pick a session back up.
type ResumeResult struct {
	Success         bool               `json:"success"`
	Session         domain.GameSession `json:"session,omitempty"`
	Quiz            domain.Quiz        `json:"quiz,omitempty"`
	CurrentQuestion domain.Question    `json:"currentQuestion,omitempty"`
	Error           string             `json:"error,omitempty"`
}

// AnswerOutcome is the caller-facing outcome of AnswerQuestion and TimeOut.
// Failure paths always report GameCompleted=true: callers must treat an
// unresolved error as session-terminal.
type AnswerOutcome struct {
	Success             bool   `json:"success"`
	IsCorrect           bool   `json:"isCorrect"`
	CorrectAnswerID     string `json:"correctAnswerId"`
	NewPrizeAmount      int64  `json:"newPrizeAmount"`
	NewGuaranteedAmount int64  `json:"newGuaranteedAmount"`
	GameCompleted       bool   `json:"gameCompleted"`
	FinalPrize          int64  `json:"finalPrize,omitempty"`
	Error               string `json:"error,omitempty"`
}

// AbandonResult is the caller-facing outcome of Abandon.
type AbandonResult struct {
	Success    bool   `json:"success"`
	FinalPrize int64  `json:"finalPrize"`
	Error      string `json:"error,omitempty"`
}

// GameService orchestrates the session state machine against the catalog and
// session stores. It is the error boundary: lower-layer failures surface as
// result structs with Success=false, never as raw errors.
//
// Transitions on the same session are serialized through a per-session lock;
// each one reads the prior state and writes a full replacement, so two
// in-flight transitions would otherwise race into a lost update.
type GameService struct {
	sessions SessionRepository
	quizzes  QuizRepository
	locks    keyedMutex
	now      func() time.Time
	newID    func() string
}

func NewGameService(sessions SessionRepository, quizzes QuizRepository) *GameService {
	return &GameService{
		sessions: sessions,
		quizzes:  quizzes,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// NewGameServiceWithClock is test-only for deterministic timestamps and IDs.
func NewGameServiceWithClock(sessions SessionRepository, quizzes QuizRepository, now func() time.Time, newID func() string) *GameService {
	return &GameService{sessions: sessions, quizzes: quizzes, now: now, newID: newID}
}

// StartSession creates a session at level 1 for the player, or returns the
// player's existing in-progress session (idempotent restart).
func (s *GameService) StartSession(ctx context.Context, quizID, playerID string) StartResult {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil || !quiz.Active {
		return StartResult{Success: false, Error: "quiz not found or inactive"}
	}

	if existing, err := s.sessions.FindActiveByPlayer(ctx, playerID); err == nil {
		return StartResult{SessionID: existing.ID, Success: true}
	}

	session, err := domain.NewGameSession(s.newID(), quizID, playerID, s.now())
	if err != nil {
		return StartResult{Success: false, Error: err.Error()}
	}
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return StartResult{Success: false, Error: err.Error()}
	}
	return StartResult{SessionID: session.ID, Success: true}
}

// ResumeSession loads an in-progress session together with its quiz and the
// question at the current level. Read-only.
func (s *GameService) ResumeSession(ctx context.Context, sessionID string) ResumeResult {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return ResumeResult{Success: false, Error: "session not found"}
	}
	if !session.CanResume() {
		return ResumeResult{Success: false, Error: "session cannot be resumed - it may be completed or abandoned"}
	}
	quiz, err := s.quizzes.GetQuiz(ctx, session.QuizID)
	if err != nil {
		return ResumeResult{Success: false, Error: "quiz not found"}
	}
	question, ok := quiz.QuestionAtLevel(session.CurrentLevel)
	if !ok {
		return ResumeResult{Success: false, Error: "current question not found"}
	}
	return ResumeResult{Success: true, Session: session, Quiz: quiz, CurrentQuestion: question}
}

// AnswerQuestion scores a submitted answer and persists the replacement
// session. The correct answer ID is always revealed, win or lose.
func (s *GameService) AnswerQuestion(ctx context.Context, sessionID, questionID, answerID string, timeUsed int) AnswerOutcome {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return AnswerOutcome{GameCompleted: true, Error: "session not found"}
	}
	if !session.IsActive() {
		return failedOutcome(session, "session is not active")
	}
	quiz, err := s.quizzes.GetQuiz(ctx, session.QuizID)
	if err != nil {
		return AnswerOutcome{GameCompleted: true, Error: "quiz not found"}
	}

	next, outcome, err := session.Answer(quiz, questionID, answerID, timeUsed, s.now())
	if err != nil {
		return failedOutcome(session, transitionErrorMessage(err))
	}
	if err := s.sessions.UpdateSession(ctx, next); err != nil {
		return failedOutcome(session, err.Error())
	}
	return successOutcome(outcome)
}

// TimeOut ends the session after the current question's countdown expired.
// Same payout consequence as an incorrect answer, distinct result tag.
func (s *GameService) TimeOut(ctx context.Context, sessionID string) AnswerOutcome {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return AnswerOutcome{GameCompleted: true, Error: "session not found"}
	}
	if !session.IsActive() {
		return failedOutcome(session, "session is not active")
	}
	quiz, err := s.quizzes.GetQuiz(ctx, session.QuizID)
	if err != nil {
		return AnswerOutcome{GameCompleted: true, Error: "quiz not found"}
	}

	next, outcome, err := session.TimeOut(quiz, s.now())
	if err != nil {
		return failedOutcome(session, transitionErrorMessage(err))
	}
	if err := s.sessions.UpdateSession(ctx, next); err != nil {
		return failedOutcome(session, err.Error())
	}
	return successOutcome(outcome)
}

// Abandon ends the session voluntarily, banking the current prize amount.
func (s *GameService) Abandon(ctx context.Context, sessionID string) AbandonResult {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return AbandonResult{Success: false, Error: "session not found"}
	}
	next, finalPrize, err := session.Abandon(s.now())
	if err != nil {
		return AbandonResult{Success: false, Error: "session is not active"}
	}
	if err := s.sessions.UpdateSession(ctx, next); err != nil {
		return AbandonResult{Success: false, Error: err.Error()}
	}
	return AbandonResult{Success: true, FinalPrize: finalPrize}
}

// failedOutcome reports the best known prize values for a session that was
// found but could not transition.
func failedOutcome(session domain.GameSession, msg string) AnswerOutcome {
	return AnswerOutcome{
		NewPrizeAmount:      session.CurrentPrizeAmount,
		NewGuaranteedAmount: session.GuaranteedAmount,
		GameCompleted:       true,
		Error:               msg,
	}
}

func successOutcome(outcome domain.TransitionOutcome) AnswerOutcome {
	return AnswerOutcome{
		Success:             true,
		IsCorrect:           outcome.IsCorrect,
		CorrectAnswerID:     outcome.CorrectAnswerID,
		NewPrizeAmount:      outcome.NewPrizeAmount,
		NewGuaranteedAmount: outcome.NewGuaranteedAmount,
		GameCompleted:       outcome.GameCompleted,
		FinalPrize:          outcome.FinalPrize,
	}
}

func transitionErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrQuestionNotFound):
		return "question not found"
	case errors.Is(err, domain.ErrSessionNotActive):
		return "session is not active"
	default:
		return err.Error()
	}
}
