package bunstore

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"quiz-retake-service/internal/domain"
)

// QuizStore keeps quizzes in the quizzes table, one row per quiz with the
// questions embedded as JSON.
type QuizStore struct {
	db *bun.DB
}

func NewQuizStore(db *bun.DB) *QuizStore {
	return &QuizStore{db: db}
}

func (s *QuizStore) CreateQuiz(ctx context.Context, quiz domain.Quiz) error {
	_, err := s.db.NewInsert().Model(toQuizRow(quiz)).Exec(ctx)
	return errors.Wrap(err, "insert quiz")
}

func (s *QuizStore) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	row := new(quizRow)
	err := s.db.NewSelect().Model(row).Where("q.id = ?", quizID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, errors.Wrap(err, "select quiz")
	}
	return row.toDomain(), nil
}

func (s *QuizStore) ReplaceQuiz(ctx context.Context, quiz domain.Quiz) error {
	res, err := s.db.NewUpdate().Model(toQuizRow(quiz)).WherePK().Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "update quiz")
	}
	return requireRow(res, domain.ErrQuizNotFound)
}

func (s *QuizStore) DeleteQuiz(ctx context.Context, quizID string) error {
	res, err := s.db.NewDelete().Model((*quizRow)(nil)).Where("id = ?", quizID).Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "delete quiz")
	}
	return requireRow(res, domain.ErrQuizNotFound)
}

func (s *QuizStore) ListQuizzesByOwner(ctx context.Context, ownerID string) ([]domain.Quiz, error) {
	var rows []quizRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("q.owner_id = ?", ownerID).
		Order("q.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list quizzes")
	}
	out := make([]domain.Quiz, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return notFound
	}
	return nil
}
