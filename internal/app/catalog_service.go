package app

import (
	"context"
	"fmt"
	"time"

	"trivia-ladder-service/internal/domain"

	"github.com/google/uuid"
)

// QuizStore is the authoring-side persistence contract for the quiz catalog.
type QuizStore interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	ListActiveQuizzes(ctx context.Context) ([]domain.Quiz, error)
	InsertQuiz(ctx context.Context, quiz domain.Quiz) error
	UpdateQuiz(ctx context.Context, quiz domain.Quiz) error
}

// AnswerInput is one authored answer option. Position determines the label
// (A..D) and, when no stable ID is supplied, the synthesized answer ID.
type AnswerInput struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// QuestionInput is one authored question.
type QuestionInput struct {
	Text         string               `json:"text"`
	Type         domain.QuestionType  `json:"type"`
	Answers      []AnswerInput        `json:"answers"`
	CorrectIndex int                  `json:"correctIndex"`
	TimeLimit    int                  `json:"timeLimit,omitempty"`
	Media        *domain.MediaContent `json:"media,omitempty"`
}

// CreateQuizInput describes a quiz to author. Question order defines levels.
type CreateQuizInput struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	CreatedBy   string              `json:"createdBy"`
	Questions   []QuestionInput     `json:"questions"`
	PrizeLadder []domain.PrizeLevel `json:"prizeLadder"`
}

// CatalogService covers the administrator role: authoring, listing, prize
// ladder replacement and soft deletion of quizzes. All validation runs
// through the domain constructors before anything is persisted.
type CatalogService struct {
	store QuizStore
	now   func() time.Time
	newID func() string
}

func NewCatalogService(store QuizStore) *CatalogService {
	return &CatalogService{store: store, now: time.Now, newID: uuid.NewString}
}

// NewCatalogServiceWithClock is test-only for deterministic timestamps and IDs.
func NewCatalogServiceWithClock(store QuizStore, now func() time.Time, newID func() string) *CatalogService {
	return &CatalogService{store: store, now: now, newID: newID}
}

// CreateQuiz validates and persists a new quiz. Answer IDs missing from the
// input are synthesized from position so the engine always sees stable
// identifiers.
func (s *CatalogService) CreateQuiz(ctx context.Context, input CreateQuizInput) (domain.Quiz, error) {
	questions := make([]domain.Question, 0, len(input.Questions))
	for i, qi := range input.Questions {
		question, err := s.buildQuestion(qi, i+1)
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions = append(questions, question)
	}

	now := s.now()
	quiz, err := domain.NewQuiz(s.newID(), input.Title, input.Description, questions, input.PrizeLadder, now, now, input.CreatedBy, true)
	if err != nil {
		return domain.Quiz{}, err
	}
	if err := s.store.InsertQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

func (s *CatalogService) buildQuestion(input QuestionInput, level int) (domain.Question, error) {
	if len(input.Answers) != domain.AnswersPerQuestion {
		return domain.Question{}, fmt.Errorf("%w: question must have exactly %d answers", domain.ErrInvalidEntity, domain.AnswersPerQuestion)
	}
	if input.CorrectIndex < 0 || input.CorrectIndex >= len(input.Answers) {
		return domain.Question{}, fmt.Errorf("%w: correct answer index out of range", domain.ErrInvalidEntity)
	}

	questionID := s.newID()
	answers := make([]domain.Answer, 0, len(input.Answers))
	for i, ai := range input.Answers {
		label := domain.AnswerLabels[i]
		id := ai.ID
		if id == "" {
			id = questionID + "-" + label
		}
		answer, err := domain.NewAnswer(id, ai.Text, label)
		if err != nil {
			return domain.Question{}, err
		}
		answers = append(answers, answer)
	}

	qtype := input.Type
	if qtype == "" {
		qtype = domain.QuestionText
	}
	return domain.NewQuestion(questionID, input.Text, qtype, answers, answers[input.CorrectIndex].ID, level, input.TimeLimit, input.Media)
}

// ReplacePrizeLadder swaps a quiz's ladder for a new one, producing a new
// quiz value with a fresh modification timestamp.
func (s *CatalogService) ReplacePrizeLadder(ctx context.Context, quizID string, ladder []domain.PrizeLevel) (domain.Quiz, error) {
	quiz, err := s.store.LoadQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	updated, err := quiz.WithPrizeLadder(ladder, s.now())
	if err != nil {
		return domain.Quiz{}, err
	}
	if err := s.store.UpdateQuiz(ctx, updated); err != nil {
		return domain.Quiz{}, err
	}
	return updated, nil
}

// DeactivateQuiz soft-deletes a quiz. Sessions already referencing it keep
// playing; new sessions can no longer start against it.
func (s *CatalogService) DeactivateQuiz(ctx context.Context, quizID string) error {
	quiz, err := s.store.LoadQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	return s.store.UpdateQuiz(ctx, quiz.Deactivate(s.now()))
}

// ListActiveQuizzes returns the playable catalog.
func (s *CatalogService) ListActiveQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	return s.store.ListActiveQuizzes(ctx)
}
