package app

import (
	"context"

	"quiz-retake-service/internal/domain"
)

// QuizStore persists quizzes. GetQuiz, ReplaceQuiz and DeleteQuiz return
// domain.ErrQuizNotFound for unknown IDs.
type QuizStore interface {
	CreateQuiz(ctx context.Context, quiz domain.Quiz) error
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	ReplaceQuiz(ctx context.Context, quiz domain.Quiz) error
	DeleteQuiz(ctx context.Context, quizID string) error
	ListQuizzesByOwner(ctx context.Context, ownerID string) ([]domain.Quiz, error)
}

// ResultStore persists quiz results. Results are never updated in place.
type ResultStore interface {
	CreateResult(ctx context.Context, result domain.QuizResult) error
	GetResult(ctx context.Context, resultID string) (domain.QuizResult, error)
	DeleteResult(ctx context.Context, resultID string) error
	// ListResultsByOwner returns the owner's results, newest submission first.
	ListResultsByOwner(ctx context.Context, ownerID string) ([]domain.QuizResult, error)
}

// ProfileStore keeps the denormalized user profile refreshed at sign-in.
type ProfileStore interface {
	UpsertProfile(ctx context.Context, profile domain.Profile) error
}

// Caller identifies the authenticated user for one request.
type Caller struct {
	UserID string
	Email  string
	Name   string
}
