package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewAnswerValidation(t *testing.T) {
	if _, err := NewAnswer("a1", "  ", "A"); !errors.Is(err, ErrInvalidEntity) {
		t.Fatalf("expected empty text error, got %v", err)
	}
	if _, err := NewAnswer("a1", "Paris", "E"); !errors.Is(err, ErrInvalidEntity) {
		t.Fatalf("expected label error, got %v", err)
	}
	a, err := NewAnswer("a1", "Paris", "C")
	if err != nil {
		t.Fatalf("new answer: %v", err)
	}
	if a.Label != "C" {
		t.Fatalf("expected label C, got %s", a.Label)
	}
}

func TestNewQuestionValidation(t *testing.T) {
	answers := testAnswers(t, "q1")

	if _, err := NewQuestion("q1", "prompt", QuestionText, answers[:3], answers[0].ID, 1, 0, nil); !errors.Is(err, ErrInvalidEntity) {
		t.Fatalf("expected answer count error, got %v", err)
	}
	if _, err := NewQuestion("q1", "prompt", QuestionText, answers, "nope", 1, 0, nil); !errors.Is(err, ErrInvalidEntity) {
		t.Fatalf("expected correct-answer reference error, got %v", err)
	}
	if _, err := NewQuestion("q1", "prompt", QuestionText, answers, answers[0].ID, 0, 0, nil); !errors.Is(err, ErrInvalidEntity) {
		t.Fatalf("expected level error, got %v", err)
	}
	if _, err := NewQuestion("q1", "prompt", QuestionText, answers, answers[0].ID, 1, 5, nil); !errors.Is(err, ErrInvalidEntity) {
		t.Fatalf("expected time limit error, got %v", err)
	}
}

func TestNewQuestionDefaultsTimeLimit(t *testing.T) {
	answers := testAnswers(t, "q1")
	q, err := NewQuestion("q1", "prompt", QuestionText, answers, answers[0].ID, 1, 0, nil)
	if err != nil {
		t.Fatalf("new question: %v", err)
	}
	if q.TimeLimit != DefaultTimeLimit {
		t.Fatalf("expected default time limit %d, got %d", DefaultTimeLimit, q.TimeLimit)
	}
}

func TestMediaQuestions(t *testing.T) {
	answers := testAnswers(t, "q1")

	if _, err := NewQuestion("q1", "prompt", QuestionImage, answers, answers[0].ID, 1, 0, nil); !errors.Is(err, ErrInvalidEntity) {
		t.Fatalf("expected missing media error, got %v", err)
	}
	wrong := &MediaContent{URL: "https://example.com/x.mp3", Type: "audio"}
	if _, err := NewQuestion("q1", "prompt", QuestionImage, answers, answers[0].ID, 1, 0, wrong); !errors.Is(err, ErrInvalidEntity) {
		t.Fatalf("expected media type mismatch error, got %v", err)
	}
	media := &MediaContent{URL: "https://example.com/x.png", Type: "image", Alt: "a picture"}
	q, err := NewQuestion("q1", "prompt", QuestionImage, answers, answers[0].ID, 1, 0, media)
	if err != nil {
		t.Fatalf("new image question: %v", err)
	}
	if !q.HasMedia() {
		t.Fatalf("expected media present")
	}
}

func TestIsAnswerCorrect(t *testing.T) {
	q := testQuestion(t, "q1", 1)

	if !q.IsAnswerCorrect(q.CorrectAnswerID) {
		t.Fatalf("expected correct answer to match")
	}
	if q.IsAnswerCorrect(q.Answers[0].ID) {
		t.Fatalf("expected wrong answer to mismatch")
	}
	if q.IsAnswerCorrect("") {
		t.Fatalf("empty answer ID must never be correct")
	}
	if got := q.CorrectAnswer(); got.ID != q.CorrectAnswerID {
		t.Fatalf("CorrectAnswer returned %s", got.ID)
	}
}

func TestNewSessionAnswerValidation(t *testing.T) {
	now := time.Now()

	if _, err := NewSessionAnswer("q1", "a1", ResultCorrect, -1, now); !errors.Is(err, ErrInvalidEntity) {
		t.Fatalf("expected negative time error, got %v", err)
	}
	if _, err := NewSessionAnswer("q1", "a1", ResultCorrect, MaxTimeLimit+1, now); !errors.Is(err, ErrInvalidEntity) {
		t.Fatalf("expected max time error, got %v", err)
	}
	if _, err := NewSessionAnswer("q1", "a1", ResultTimeout, 30, now); !errors.Is(err, ErrInvalidEntity) {
		t.Fatalf("expected timeout-with-answer error, got %v", err)
	}
	if _, err := NewSessionAnswer("q1", "", ResultIncorrect, 30, now); !errors.Is(err, ErrInvalidEntity) {
		t.Fatalf("expected missing-answer error, got %v", err)
	}
	a, err := NewSessionAnswer("q1", "", ResultTimeout, 30, now)
	if err != nil {
		t.Fatalf("new timeout answer: %v", err)
	}
	if !a.IsTimeout() || a.IsCorrect() {
		t.Fatalf("unexpected result flags: %+v", a)
	}
}
