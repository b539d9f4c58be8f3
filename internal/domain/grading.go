package domain

import (
	"fmt"
	"strings"
)

// Graded is the outcome of grading one submission, before it is persisted.
type Graded struct {
	Answers        []AnswerRecord
	Score          int
	TotalQuestions int
}

// Grade compares submitted[i] with questions[i].Answer after trimming and
// lowercasing both. There is no partial credit.
func Grade(questions []Question, submitted []string) (Graded, error) {
	if len(questions) != len(submitted) {
		return Graded{}, fmt.Errorf("%w: expected %d answers, got %d", ErrInvalidInput, len(questions), len(submitted))
	}

	graded := Graded{
		Answers:        make([]AnswerRecord, 0, len(questions)),
		TotalQuestions: len(questions),
	}
	for i, question := range questions {
		expected := strings.TrimSpace(question.Answer)
		given := strings.TrimSpace(submitted[i])
		correct := strings.ToLower(given) == strings.ToLower(expected)
		if correct {
			graded.Score++
		}
		graded.Answers = append(graded.Answers, AnswerRecord{
			Question:      question.Prompt,
			CorrectAnswer: expected,
			UserAnswer:    given,
			Correct:       correct,
		})
	}
	return graded, nil
}

// PresentedOrder returns questions rearranged to match order, a list of
// question IDs. An empty order keeps the authoring order.
func PresentedOrder(questions []Question, order []string) ([]Question, error) {
	if len(order) == 0 {
		return questions, nil
	}
	if len(order) != len(questions) {
		return nil, fmt.Errorf("%w: question order lists %d ids for %d questions", ErrInvalidInput, len(order), len(questions))
	}

	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	presented := make([]Question, 0, len(order))
	seen := make(map[string]struct{}, len(order))
	for _, id := range order {
		q, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown question id %q in order", ErrInvalidInput, id)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: question id %q repeated in order", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
		presented = append(presented, q)
	}
	return presented, nil
}
