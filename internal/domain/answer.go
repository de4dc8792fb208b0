package domain

import (
	"fmt"
	"strings"
)

// AnswerLabels is the fixed set of labels a selectable answer may carry.
var AnswerLabels = []string{"A", "B", "C", "D"}

// Answer is one selectable option for a question. Immutable once created.
type Answer struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Label string `json:"label"`
}

// NewAnswer validates and builds an Answer.
func NewAnswer(id, text, label string) (Answer, error) {
	if strings.TrimSpace(text) == "" {
		return Answer{}, fmt.Errorf("%w: answer text cannot be empty", ErrInvalidEntity)
	}
	if !validLabel(label) {
		return Answer{}, fmt.Errorf("%w: answer label must be one of %v", ErrInvalidEntity, AnswerLabels)
	}
	return Answer{ID: id, Text: text, Label: label}, nil
}

func validLabel(label string) bool {
	for _, l := range AnswerLabels {
		if l == label {
			return true
		}
	}
	return false
}
