package app

import (
	"context"
	"errors"
	"fmt"

	"quiz-retake-service/internal/domain"
)

// ResultService exposes a user's graded results and the retake workflow.
type ResultService struct {
	results ResultStore
	quizzes QuizStore
	quiz    *QuizService
}

// NewResultService persists retake quizzes through quizSvc so they follow
// the same rules as authored ones.
func NewResultService(results ResultStore, quizzes QuizStore, quizSvc *QuizService) *ResultService {
	return &ResultService{results: results, quizzes: quizzes, quiz: quizSvc}
}

// ListMine returns the caller's results, newest first, with quiz titles resolved.
func (s *ResultService) ListMine(ctx context.Context, caller Caller) ([]domain.ResultSummary, error) {
	results, err := s.results.ListResultsByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	titles := make(map[string]*domain.Quiz)
	summaries := make([]domain.ResultSummary, 0, len(results))
	for _, result := range results {
		quiz, ok := titles[result.QuizID]
		if !ok {
			quiz, err = s.lookupQuiz(ctx, result.QuizID)
			if err != nil {
				return nil, err
			}
			titles[result.QuizID] = quiz
		}
		summaries = append(summaries, domain.NewResultSummary(result, quiz))
	}
	return summaries, nil
}

// Get returns one of the caller's results.
func (s *ResultService) Get(ctx context.Context, caller Caller, resultID string) (domain.ResultSummary, error) {
	result, err := s.owned(ctx, caller, resultID)
	if err != nil {
		return domain.ResultSummary{}, err
	}
	quiz, err := s.lookupQuiz(ctx, result.QuizID)
	if err != nil {
		return domain.ResultSummary{}, err
	}
	return domain.NewResultSummary(result, quiz), nil
}

// Delete removes one of the caller's results.
func (s *ResultService) Delete(ctx context.Context, caller Caller, resultID string) error {
	if _, err := s.owned(ctx, caller, resultID); err != nil {
		return err
	}
	return s.results.DeleteResult(ctx, resultID)
}

// CreateRetake derives a quiz from the result's missed questions and stores it.
// Each call creates a new quiz.
func (s *ResultService) CreateRetake(ctx context.Context, caller Caller, resultID string) (domain.Quiz, error) {
	result, err := s.owned(ctx, caller, resultID)
	if err != nil {
		return domain.Quiz{}, err
	}
	draft, err := domain.DeriveRetake(result, s.quiz.now())
	if err != nil {
		return domain.Quiz{}, err
	}
	return s.quiz.insert(ctx, draft)
}

func (s *ResultService) owned(ctx context.Context, caller Caller, resultID string) (domain.QuizResult, error) {
	if !domain.ValidID(resultID) {
		return domain.QuizResult{}, fmt.Errorf("%w: malformed result id", domain.ErrInvalidInput)
	}
	result, err := s.results.GetResult(ctx, resultID)
	if err != nil {
		return domain.QuizResult{}, err
	}
	if result.OwnerID != caller.UserID {
		return domain.QuizResult{}, domain.ErrForbidden
	}
	return result, nil
}

// lookupQuiz returns nil when the referenced quiz has been deleted.
func (s *ResultService) lookupQuiz(ctx context.Context, quizID string) (*domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if errors.Is(err, domain.ErrQuizNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve quiz %s: %w", quizID, err)
	}
	return &quiz, nil
}
