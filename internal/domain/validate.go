package domain

import (
	"fmt"
	"strings"
)

// ValidateQuiz checks the invariants every stored quiz must satisfy.
func ValidateQuiz(q Quiz) error {
	if strings.TrimSpace(q.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: at least one question is required", ErrInvalidInput)
	}
	for i, question := range q.Questions {
		if err := validateQuestion(question); err != nil {
			return fmt.Errorf("%w (question %d)", err, i+1)
		}
	}
	if q.Kind == KindRetake && q.SourceResultID == "" {
		return fmt.Errorf("%w: retake quiz without source result", ErrInvalidInput)
	}
	return nil
}

func validateQuestion(q Question) error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w: question text is required", ErrInvalidInput)
	}
	if strings.TrimSpace(q.Answer) == "" {
		return fmt.Errorf("%w: answer text is required", ErrInvalidInput)
	}
	return nil
}

// ApplyPatch merges p into q. New questions get IDs from newID.
// Omitted questions are kept; unknown IDs are ignored.
func (q *Quiz) ApplyPatch(p QuizPatch, newID func() string) error {
	if title := strings.TrimSpace(p.Title); title != "" {
		q.Title = title
	}

	index := make(map[string]int, len(q.Questions))
	for i, existing := range q.Questions {
		index[existing.ID] = i
	}

	for _, incoming := range p.Questions {
		if incoming.ID != "" {
			i, ok := index[incoming.ID]
			if !ok {
				continue
			}
			if prompt := strings.TrimSpace(incoming.Prompt); prompt != "" {
				q.Questions[i].Prompt = prompt
			}
			if answer := strings.TrimSpace(incoming.Answer); answer != "" {
				q.Questions[i].Answer = answer
			}
			continue
		}
		if err := validateQuestion(incoming); err != nil {
			return err
		}
		q.Questions = append(q.Questions, Question{
			ID:     newID(),
			Prompt: strings.TrimSpace(incoming.Prompt),
			Answer: strings.TrimSpace(incoming.Answer),
		})
	}
	return nil
}
