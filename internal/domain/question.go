package domain

import "fmt"

// QuestionType distinguishes plain text questions from media-backed ones.
type QuestionType string

const (
	QuestionText  QuestionType = "text"
	QuestionImage QuestionType = "image"
	QuestionAudio QuestionType = "audio"
)

const (
	// AnswersPerQuestion is the fixed size of a question's answer set.
	AnswersPerQuestion = 4
	// DefaultTimeLimit applies when a question does not set its own limit.
	DefaultTimeLimit = 30
	// MinTimeLimit is the shortest allowed per-question countdown, in seconds.
	MinTimeLimit = 10
	// MaxTimeLimit caps the countdown so recorded time-used stays in range.
	MaxTimeLimit = 60
)

// MediaContent accompanies image and audio questions.
type MediaContent struct {
	URL  string `json:"url"`
	Type string `json:"type"`
	Alt  string `json:"alt,omitempty"`
}

// Question is one unit of play: a prompt with exactly four answers, one of
// which is correct. Immutable once created; edits produce a new value.
type Question struct {
	ID              string        `json:"id"`
	Text            string        `json:"text"`
	Type            QuestionType  `json:"type"`
	Answers         []Answer      `json:"answers"`
	CorrectAnswerID string        `json:"correctAnswerId"`
	Level           int           `json:"level"`
	TimeLimit       int           `json:"timeLimit"`
	Media           *MediaContent `json:"media,omitempty"`
}

// NewQuestion validates and builds a Question. A zero timeLimit defaults to
// DefaultTimeLimit.
func NewQuestion(id, text string, qtype QuestionType, answers []Answer, correctAnswerID string, level, timeLimit int, media *MediaContent) (Question, error) {
	if timeLimit == 0 {
		timeLimit = DefaultTimeLimit
	}
	q := Question{
		ID:              id,
		Text:            text,
		Type:            qtype,
		Answers:         answers,
		CorrectAnswerID: correctAnswerID,
		Level:           level,
		TimeLimit:       timeLimit,
		Media:           media,
	}
	if err := q.validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

func (q Question) validate() error {
	if len(q.Answers) != AnswersPerQuestion {
		return fmt.Errorf("%w: question must have exactly %d answers, got %d", ErrInvalidEntity, AnswersPerQuestion, len(q.Answers))
	}
	if _, ok := q.AnswerByID(q.CorrectAnswerID); !ok {
		return fmt.Errorf("%w: correct answer ID %q does not match any answer", ErrInvalidEntity, q.CorrectAnswerID)
	}
	if q.Level < 1 {
		return fmt.Errorf("%w: question level must be at least 1", ErrInvalidEntity)
	}
	if q.TimeLimit < MinTimeLimit || q.TimeLimit > MaxTimeLimit {
		return fmt.Errorf("%w: time limit must be between %d and %d seconds", ErrInvalidEntity, MinTimeLimit, MaxTimeLimit)
	}
	switch q.Type {
	case QuestionText:
	case QuestionImage, QuestionAudio:
		if q.Media == nil {
			return fmt.Errorf("%w: %s question must have media content", ErrInvalidEntity, q.Type)
		}
		if q.Media.Type != string(q.Type) {
			return fmt.Errorf("%w: media type %q does not match question type %q", ErrInvalidEntity, q.Media.Type, q.Type)
		}
	default:
		return fmt.Errorf("%w: unknown question type %q", ErrInvalidEntity, q.Type)
	}
	return nil
}

// AnswerByID returns the answer with the given ID.
func (q Question) AnswerByID(id string) (Answer, bool) {
	for _, a := range q.Answers {
		if a.ID == id {
			return a, true
		}
	}
	return Answer{}, false
}

// CorrectAnswer returns the designated correct answer.
func (q Question) CorrectAnswer() Answer {
	a, _ := q.AnswerByID(q.CorrectAnswerID)
	return a
}

// IsAnswerCorrect reports whether the submitted answer ID is the correct one.
func (q Question) IsAnswerCorrect(answerID string) bool {
	return answerID != "" && answerID == q.CorrectAnswerID
}

// HasMedia reports whether the question carries media content.
func (q Question) HasMedia() bool {
	return q.Media != nil
}
