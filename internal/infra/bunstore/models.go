package bunstore

import (
	"time"

	"github.com/uptrace/bun"

	"quiz-retake-service/internal/domain"
)

type quizRow struct {
	bun.BaseModel `bun:"table:quizzes,alias:q"`

	ID             string            `bun:"id,pk"`
	Title          string            `bun:"title,notnull"`
	OwnerID        string            `bun:"owner_id,notnull"`
	Questions      []domain.Question `bun:"questions,type:jsonb,notnull"`
	Kind           string            `bun:"kind,notnull"`
	SourceResultID *string           `bun:"source_result_id"`
	CreatedAt      time.Time         `bun:"created_at,notnull"`
}

func toQuizRow(q domain.Quiz) *quizRow {
	row := &quizRow{
		ID:        q.ID,
		Title:     q.Title,
		OwnerID:   q.OwnerID,
		Questions: q.Questions,
		Kind:      string(q.Kind),
		CreatedAt: q.CreatedAt,
	}
	if q.Kind == domain.KindRetake {
		source := q.SourceResultID
		row.SourceResultID = &source
	}
	return row
}

func (r *quizRow) toDomain() domain.Quiz {
	q := domain.Quiz{
		ID:        r.ID,
		Title:     r.Title,
		OwnerID:   r.OwnerID,
		Questions: r.Questions,
		Kind:      domain.QuizKind(r.Kind),
		CreatedAt: r.CreatedAt.UTC(),
	}
	if q.Questions == nil {
		q.Questions = []domain.Question{}
	}
	if r.SourceResultID != nil {
		q.SourceResultID = *r.SourceResultID
	}
	return q
}

type resultRow struct {
	bun.BaseModel `bun:"table:quiz_results,alias:r"`

	ID             string                `bun:"id,pk"`
	QuizID         string                `bun:"quiz_id,notnull"`
	OwnerID        string                `bun:"owner_id,notnull"`
	Score          int                   `bun:"score,notnull"`
	TotalQuestions int                   `bun:"total_questions,notnull"`
	Answers        []domain.AnswerRecord `bun:"answers,type:jsonb,notnull"`
	SubmittedAt    time.Time             `bun:"submitted_at,notnull"`
}

func toResultRow(r domain.QuizResult) *resultRow {
	return &resultRow{
		ID:             r.ID,
		QuizID:         r.QuizID,
		OwnerID:        r.OwnerID,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		Answers:        r.Answers,
		SubmittedAt:    r.SubmittedAt,
	}
}

func (r *resultRow) toDomain() domain.QuizResult {
	out := domain.QuizResult{
		ID:             r.ID,
		QuizID:         r.QuizID,
		OwnerID:        r.OwnerID,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		Answers:        r.Answers,
		SubmittedAt:    r.SubmittedAt.UTC(),
	}
	if out.Answers == nil {
		out.Answers = []domain.AnswerRecord{}
	}
	return out
}
