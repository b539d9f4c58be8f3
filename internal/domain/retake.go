package domain

import (
	"fmt"
	"time"
)

// RetakeTitle labels a derived quiz with the day it was created.
func RetakeTitle(now time.Time) string {
	return fmt.Sprintf("Missed questions (%s)", now.Format("2006-01-02"))
}

// DeriveRetake builds an unsaved quiz holding only the questions the result
// got wrong, in their original order. Calling it twice yields two
// independent drafts; nothing deduplicates them.
func DeriveRetake(result QuizResult, now time.Time) (Quiz, error) {
	var questions []Question
	for _, record := range result.Answers {
		if record.Correct {
			continue
		}
		questions = append(questions, Question{
			Prompt: record.Question,
			Answer: record.CorrectAnswer,
		})
	}
	if len(questions) == 0 {
		return Quiz{}, ErrNoIncorrectAnswers
	}

	return Quiz{
		Title:          RetakeTitle(now),
		OwnerID:        result.OwnerID,
		Questions:      questions,
		Kind:           KindRetake,
		SourceResultID: result.ID,
	}, nil
}
