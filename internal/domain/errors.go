package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrSessionNotFound is returned when a game session does not exist.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrSessionNotActive is returned when a transition is attempted on a
	// completed or abandoned session.
	ErrSessionNotActive = errors.New("game session is not active")
	// ErrQuestionNotFound indicates the level or question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAnswerNotFound indicates a submitted answer ID is invalid.
	ErrAnswerNotFound = errors.New("answer not found")
	// ErrInvalidEntity wraps all constructor validation failures.
	ErrInvalidEntity = errors.New("invalid entity")
)
