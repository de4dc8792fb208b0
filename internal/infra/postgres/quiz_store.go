package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trivia-ladder-service/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuizStore loads and persists quiz JSONB documents in Postgres. It serves
// both roles: QuizLoader behind the caches for gameplay reads, and
// app.QuizStore for catalog authoring.
type QuizStore struct {
	pool *pgxpool.Pool
}

func NewQuizStore(pool *pgxpool.Pool) *QuizStore {
	return &QuizStore{pool: pool}
}

func (s *QuizStore) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE id=$1 AND active`, quizID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	return decodeQuiz(raw)
}

func (s *QuizStore) ListActiveQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM quizzes WHERE active ORDER BY data->>'createdAt' DESC`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []domain.Quiz
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quiz, err := decodeQuiz(raw)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, rows.Err()
}

func (s *QuizStore) InsertQuiz(ctx context.Context, quiz domain.Quiz) error {
	raw, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO quizzes (id, data, active) VALUES ($1, $2, $3)`, quiz.ID, raw, quiz.Active)
	if err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}
	return nil
}

func (s *QuizStore) UpdateQuiz(ctx context.Context, quiz domain.Quiz) error {
	raw, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `UPDATE quizzes SET data=$2, active=$3 WHERE id=$1`, quiz.ID, raw, quiz.Active)
	if err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

// quizDoc mirrors the stored document shape. Decoding funnels through the
// domain constructors so malformed rows are rejected before they reach a
// session, and legacy rows lacking stable answer IDs get positional ones.
type quizDoc struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Questions   []questionDoc       `json:"questions"`
	PrizeLadder []domain.PrizeLevel `json:"prizeLadder"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	CreatedBy   string              `json:"createdBy"`
	Active      bool                `json:"active"`
}

type questionDoc struct {
	ID              string               `json:"id"`
	Text            string               `json:"text"`
	Type            domain.QuestionType  `json:"type"`
	Answers         []answerDoc          `json:"answers"`
	CorrectAnswerID string               `json:"correctAnswerId"`
	Level           int                  `json:"level"`
	TimeLimit       int                  `json:"timeLimit"`
	Media           *domain.MediaContent `json:"media,omitempty"`
}

type answerDoc struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Label string `json:"label"`
}

func decodeQuiz(raw []byte) (domain.Quiz, error) {
	var doc quizDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}

	questions := make([]domain.Question, 0, len(doc.Questions))
	for i, qd := range doc.Questions {
		question, err := decodeQuestion(qd, i+1)
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("quiz %s question %d: %w", doc.ID, i+1, err)
		}
		questions = append(questions, question)
	}
	return domain.NewQuiz(doc.ID, doc.Title, doc.Description, questions, doc.PrizeLadder, doc.CreatedAt, doc.UpdatedAt, doc.CreatedBy, doc.Active)
}

func decodeQuestion(doc questionDoc, level int) (domain.Question, error) {
	answers := make([]domain.Answer, 0, len(doc.Answers))
	correctID := doc.CorrectAnswerID
	for i, ad := range doc.Answers {
		label := ad.Label
		if label == "" && i < len(domain.AnswerLabels) {
			label = domain.AnswerLabels[i]
		}
		id := ad.ID
		if id == "" {
			// Legacy rows keyed answers by position only.
			id = doc.ID + "-" + label
			if correctID == fmt.Sprintf("%d", i) {
				correctID = id
			}
		}
		answer, err := domain.NewAnswer(id, ad.Text, label)
		if err != nil {
			return domain.Question{}, err
		}
		answers = append(answers, answer)
	}

	qtype := doc.Type
	if qtype == "" {
		qtype = domain.QuestionText
	}
	if doc.Level != 0 {
		level = doc.Level
	}
	return domain.NewQuestion(doc.ID, doc.Text, qtype, answers, correctID, level, doc.TimeLimit, doc.Media)
}
