package domain

import (
	"fmt"
	"time"
)

// AnswerOutcomeTag classifies one submitted response.
type AnswerOutcomeTag string

const (
	ResultCorrect   AnswerOutcomeTag = "correct"
	ResultIncorrect AnswerOutcomeTag = "incorrect"
	ResultTimeout   AnswerOutcomeTag = "timeout"
)

// SessionAnswer is an immutable record of one submitted response. A timeout
// carries an empty answer ID; any other result must carry a non-empty one.
type SessionAnswer struct {
	QuestionID string           `json:"questionId"`
	AnswerID   string           `json:"answerId"`
	Result     AnswerOutcomeTag `json:"result"`
	TimeUsed   int              `json:"timeUsed"`
	AnsweredAt time.Time        `json:"answeredAt"`
}

// NewSessionAnswer validates and builds a SessionAnswer.
func NewSessionAnswer(questionID, answerID string, result AnswerOutcomeTag, timeUsed int, answeredAt time.Time) (SessionAnswer, error) {
	if timeUsed < 0 {
		return SessionAnswer{}, fmt.Errorf("%w: time used cannot be negative", ErrInvalidEntity)
	}
	if timeUsed > MaxTimeLimit {
		return SessionAnswer{}, fmt.Errorf("%w: time used cannot exceed %d seconds", ErrInvalidEntity, MaxTimeLimit)
	}
	if result == ResultTimeout && answerID != "" {
		return SessionAnswer{}, fmt.Errorf("%w: timeout answers must not carry an answer ID", ErrInvalidEntity)
	}
	if result != ResultTimeout && answerID == "" {
		return SessionAnswer{}, fmt.Errorf("%w: non-timeout answers must carry an answer ID", ErrInvalidEntity)
	}
	return SessionAnswer{
		QuestionID: questionID,
		AnswerID:   answerID,
		Result:     result,
		TimeUsed:   timeUsed,
		AnsweredAt: answeredAt,
	}, nil
}

// IsCorrect reports whether this answer was scored correct.
func (a SessionAnswer) IsCorrect() bool {
	return a.Result == ResultCorrect
}

// IsTimeout reports whether this record was produced by a countdown expiry.
func (a SessionAnswer) IsTimeout() bool {
	return a.Result == ResultTimeout
}
