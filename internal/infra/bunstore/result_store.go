package bunstore

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"quiz-retake-service/internal/domain"
)

// ResultStore keeps graded results in the quiz_results table.
type ResultStore struct {
	db *bun.DB
}

func NewResultStore(db *bun.DB) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) CreateResult(ctx context.Context, result domain.QuizResult) error {
	_, err := s.db.NewInsert().Model(toResultRow(result)).Exec(ctx)
	return errors.Wrap(err, "insert result")
}

func (s *ResultStore) GetResult(ctx context.Context, resultID string) (domain.QuizResult, error) {
	row := new(resultRow)
	err := s.db.NewSelect().Model(row).Where("r.id = ?", resultID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.QuizResult{}, domain.ErrResultNotFound
	}
	if err != nil {
		return domain.QuizResult{}, errors.Wrap(err, "select result")
	}
	return row.toDomain(), nil
}

func (s *ResultStore) DeleteResult(ctx context.Context, resultID string) error {
	res, err := s.db.NewDelete().Model((*resultRow)(nil)).Where("id = ?", resultID).Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "delete result")
	}
	return requireRow(res, domain.ErrResultNotFound)
}

func (s *ResultStore) ListResultsByOwner(ctx context.Context, ownerID string) ([]domain.QuizResult, error) {
	var rows []resultRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("r.owner_id = ?", ownerID).
		Order("r.submitted_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list results")
	}
	out := make([]domain.QuizResult, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}
