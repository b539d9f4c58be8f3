package migrations

import (
	"context"
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

type quizResultV1 struct {
	bun.BaseModel `bun:"table:quiz_results"`

	ID             string          `bun:"id,pk,type:varchar(36)"`
	QuizID         string          `bun:"quiz_id,notnull,type:varchar(36)"`
	OwnerID        string          `bun:"owner_id,notnull"`
	Score          int             `bun:"score,notnull"`
	TotalQuestions int             `bun:"total_questions,notnull"`
	Answers        json.RawMessage `bun:"answers,type:jsonb,notnull"`
	SubmittedAt    time.Time       `bun:"submitted_at,notnull"`
}

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			// No foreign key on quiz_id: results outlive their quiz.
			if _, err := db.NewCreateTable().Model((*quizResultV1)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			_, err := db.NewCreateIndex().Model((*quizResultV1)(nil)).
				Index("quiz_results_owner_submitted_idx").
				Column("owner_id", "submitted_at").
				IfNotExists().
				Exec(ctx)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.NewDropTable().Model((*quizResultV1)(nil)).IfExists().Exec(ctx)
			return err
		},
	)
}
