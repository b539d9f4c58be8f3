package domain

import (
	"errors"
	"strings"
	"testing"
)

func geoQuestions() []Question {
	return []Question{{ID: "q1", Prompt: "Capital of France?", Answer: "Paris"}}
}

func TestGradeTrimsAndIgnoresCase(t *testing.T) {
	graded, err := Grade(geoQuestions(), []string{" paris "})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if graded.Score != 1 || graded.TotalQuestions != 1 {
		t.Fatalf("expected 1/1, got %d/%d", graded.Score, graded.TotalQuestions)
	}
	rec := graded.Answers[0]
	if !rec.Correct || rec.UserAnswer != "paris" || rec.CorrectAnswer != "Paris" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestGradeWrongAnswer(t *testing.T) {
	graded, err := Grade(geoQuestions(), []string{"Lyon"})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if graded.Score != 0 || graded.Answers[0].Correct {
		t.Fatalf("expected incorrect, got %+v", graded)
	}
}

func TestGradeEmptyAnswerIsIncorrectAndKeptVerbatim(t *testing.T) {
	graded, err := Grade(geoQuestions(), []string{"   "})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	rec := graded.Answers[0]
	if rec.Correct || rec.UserAnswer != "" {
		t.Fatalf("expected empty incorrect answer, got %+v", rec)
	}
}

func TestGradeScoreMatchesNormalizedComparison(t *testing.T) {
	questions := []Question{
		{Prompt: "a", Answer: "One"},
		{Prompt: "b", Answer: " two"},
		{Prompt: "c", Answer: "Three"},
		{Prompt: "d", Answer: "FOUR"},
	}
	cases := [][]string{
		{"one", "TWO ", "three", "four"},
		{"", "", "", ""},
		{"uno", "two", "tres", "Four"},
		{"One", "two", "3", "for"},
	}
	for _, submitted := range cases {
		graded, err := Grade(questions, submitted)
		if err != nil {
			t.Fatalf("grade %v: %v", submitted, err)
		}
		want := 0
		for i := range questions {
			if strings.ToLower(strings.TrimSpace(submitted[i])) == strings.ToLower(strings.TrimSpace(questions[i].Answer)) {
				want++
			}
		}
		if graded.Score != want {
			t.Fatalf("answers %v: score %d, want %d", submitted, graded.Score, want)
		}
		if graded.Score < 0 || graded.Score > graded.TotalQuestions || graded.TotalQuestions != len(graded.Answers) {
			t.Fatalf("score bounds violated: %+v", graded)
		}
	}
}

func TestGradeRejectsLengthMismatch(t *testing.T) {
	_, err := Grade(geoQuestions(), []string{"Paris", "extra"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestPresentedOrder(t *testing.T) {
	questions := []Question{
		{ID: "a", Prompt: "A?", Answer: "a"},
		{ID: "b", Prompt: "B?", Answer: "b"},
	}

	got, err := PresentedOrder(questions, []string{"b", "a"})
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("unexpected order %+v", got)
	}

	graded, err := Grade(got, []string{"b", "a"})
	if err != nil || graded.Score != 2 {
		t.Fatalf("expected both correct in shuffled order, got %+v (%v)", graded, err)
	}

	for _, order := range [][]string{{"a"}, {"a", "a"}, {"a", "zzz"}} {
		if _, err := PresentedOrder(questions, order); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("order %v: expected invalid input, got %v", order, err)
		}
	}
}
