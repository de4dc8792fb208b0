package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"trivia-ladder-service/internal/config"
	"trivia-ladder-service/internal/domain"

	"github.com/spf13/cobra"
)

// NewSeedCmd loads the built-in demo quiz into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the demo quiz into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runSeed(cmd.Context(), cfg)
		},
	}
}

func runSeed(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	quiz, err := demoQuiz()
	if err != nil {
		return err
	}
	data, err := json.Marshal(quiz)
	if err != nil {
		return err
	}

	db := openBunDB(cfg.Postgres.URL)
	defer db.Close()

	if _, err := db.ExecContext(ctx,
		`INSERT INTO quizzes (id, data, active) VALUES (?, ?::jsonb, TRUE) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data, active=TRUE`,
		quiz.ID, string(data)); err != nil {
		return fmt.Errorf("seed quiz: %w", err)
	}
	log.Printf("seeded quiz %s (%d questions)", quiz.ID, len(quiz.Questions))
	return nil
}

// demoQuiz builds the bundled five-level ladder with its safe haven on the
// top rung.
func demoQuiz() (domain.Quiz, error) {
	type qdef struct {
		id      string
		text    string
		answers [4]string
		correct int
	}
	defs := []qdef{
		{"q1", "What is the capital of France?", [4]string{"London", "Berlin", "Paris", "Madrid"}, 2},
		{"q2", "Which planet is known as the Red Planet?", [4]string{"Venus", "Mars", "Jupiter", "Saturn"}, 1},
		{"q3", "What is 2 + 2?", [4]string{"3", "4", "5", "6"}, 1},
		{"q4", "Who wrote \"Romeo and Juliet\"?", [4]string{"Charles Dickens", "William Shakespeare", "Jane Austen", "Mark Twain"}, 1},
		{"q5", "What is the largest ocean on Earth?", [4]string{"Atlantic Ocean", "Pacific Ocean", "Indian Ocean", "Arctic Ocean"}, 1},
	}

	questions := make([]domain.Question, 0, len(defs))
	for i, def := range defs {
		answers := make([]domain.Answer, 0, 4)
		for j, text := range def.answers {
			label := domain.AnswerLabels[j]
			answer, err := domain.NewAnswer(def.id+"-"+label, text, label)
			if err != nil {
				return domain.Quiz{}, err
			}
			answers = append(answers, answer)
		}
		question, err := domain.NewQuestion(def.id, def.text, domain.QuestionText, answers, answers[def.correct].ID, i+1, 0, nil)
		if err != nil {
			return domain.Quiz{}, err
		}
		questions = append(questions, question)
	}

	ladder := []domain.PrizeLevel{
		{Level: 1, Amount: 100, DisplayName: "$100"},
		{Level: 2, Amount: 200, DisplayName: "$200"},
		{Level: 3, Amount: 300, DisplayName: "$300"},
		{Level: 4, Amount: 500, DisplayName: "$500"},
		{Level: 5, Amount: 1000, DisplayName: "$1,000", SafeHaven: true},
	}

	now := time.Now()
	return domain.NewQuiz("demo-quiz", "Trivia Ladder - Demo", "Built-in demo quiz", questions, ladder, now, now, "system", true)
}
