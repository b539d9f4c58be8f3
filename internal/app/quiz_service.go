package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"

	"quiz-retake-service/internal/domain"
)

// QuizService contains the quiz authoring and submission use cases.
type QuizService struct {
	quizzes QuizStore
	results ResultStore
	now     func() time.Time
	newID   func() string
}

func NewQuizService(quizzes QuizStore, results ResultStore) *QuizService {
	return NewQuizServiceWithClock(quizzes, results, time.Now)
}

// NewQuizServiceWithClock is used by tests for deterministic timestamps.
func NewQuizServiceWithClock(quizzes QuizStore, results ResultStore, now func() time.Time) *QuizService {
	return &QuizService{
		quizzes: quizzes,
		results: results,
		now:     now,
		newID:   domain.NewID,
	}
}

// Create stores a new authored quiz owned by the caller.
func (s *QuizService) Create(ctx context.Context, caller Caller, title string, questions []domain.Question) (domain.Quiz, error) {
	quiz := domain.Quiz{
		Title:     strings.TrimSpace(title),
		OwnerID:   caller.UserID,
		Questions: make([]domain.Question, 0, len(questions)),
		Kind:      domain.KindAuthored,
	}
	for _, q := range questions {
		quiz.Questions = append(quiz.Questions, domain.Question{
			Prompt: strings.TrimSpace(q.Prompt),
			Answer: strings.TrimSpace(q.Answer),
		})
	}
	return s.insert(ctx, quiz)
}

// insert assigns identity and timestamps, validates and persists a quiz draft.
func (s *QuizService) insert(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	if err := domain.ValidateQuiz(quiz); err != nil {
		return domain.Quiz{}, err
	}
	quiz.ID = s.newID()
	quiz.CreatedAt = s.now().UTC()
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == "" {
			quiz.Questions[i].ID = s.newID()
		}
	}
	if err := s.quizzes.CreateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("create quiz: %w", err)
	}
	glog.V(2).Infof("quiz %s created by %s (%s, %d questions)", quiz.ID, quiz.OwnerID, quiz.Kind, len(quiz.Questions))
	return quiz, nil
}

// Get loads any quiz by ID. Taking a quiz does not require owning it.
func (s *QuizService) Get(ctx context.Context, quizID string) (domain.Quiz, error) {
	if !domain.ValidID(quizID) {
		return domain.Quiz{}, fmt.Errorf("%w: malformed quiz id", domain.ErrInvalidInput)
	}
	return s.quizzes.GetQuiz(ctx, quizID)
}

// ListMine returns the quizzes the caller authored or derived.
func (s *QuizService) ListMine(ctx context.Context, caller Caller) ([]domain.Quiz, error) {
	return s.quizzes.ListQuizzesByOwner(ctx, caller.UserID)
}

// Update merges patch into the caller's quiz. Concurrent edits are last-writer-wins.
func (s *QuizService) Update(ctx context.Context, caller Caller, quizID string, patch domain.QuizPatch) (domain.Quiz, error) {
	quiz, err := s.owned(ctx, caller, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if err := quiz.ApplyPatch(patch, s.newID); err != nil {
		return domain.Quiz{}, err
	}
	if err := domain.ValidateQuiz(quiz); err != nil {
		return domain.Quiz{}, err
	}
	if err := s.quizzes.ReplaceQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("replace quiz: %w", err)
	}
	return quiz, nil
}

// Delete removes the caller's quiz. Results that reference it are kept.
func (s *QuizService) Delete(ctx context.Context, caller Caller, quizID string) error {
	if _, err := s.owned(ctx, caller, quizID); err != nil {
		return err
	}
	return s.quizzes.DeleteQuiz(ctx, quizID)
}

// Submit grades the caller's answers against the quiz in the order the
// questions were presented and stores the result.
func (s *QuizService) Submit(ctx context.Context, caller Caller, quizID string, submission domain.Submission) (domain.QuizResult, error) {
	quiz, err := s.Get(ctx, quizID)
	if err != nil {
		return domain.QuizResult{}, err
	}

	presented, err := domain.PresentedOrder(quiz.Questions, submission.Order)
	if err != nil {
		return domain.QuizResult{}, err
	}
	graded, err := domain.Grade(presented, submission.Answers)
	if err != nil {
		return domain.QuizResult{}, err
	}

	result := domain.QuizResult{
		ID:             s.newID(),
		QuizID:         quiz.ID,
		OwnerID:        caller.UserID,
		Score:          graded.Score,
		TotalQuestions: graded.TotalQuestions,
		Answers:        graded.Answers,
		SubmittedAt:    s.now().UTC(),
	}
	if err := s.results.CreateResult(ctx, result); err != nil {
		return domain.QuizResult{}, fmt.Errorf("create result: %w", err)
	}
	return result, nil
}

func (s *QuizService) owned(ctx context.Context, caller Caller, quizID string) (domain.Quiz, error) {
	quiz, err := s.Get(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if quiz.OwnerID != caller.UserID {
		return domain.Quiz{}, domain.ErrForbidden
	}
	return quiz, nil
}
