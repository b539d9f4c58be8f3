package migrations

import (
	"context"
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

type quizV1 struct {
	bun.BaseModel `bun:"table:quizzes"`

	ID             string          `bun:"id,pk,type:varchar(36)"`
	Title          string          `bun:"title,notnull"`
	OwnerID        string          `bun:"owner_id,notnull"`
	Questions      json.RawMessage `bun:"questions,type:jsonb,notnull"`
	Kind           string          `bun:"kind,notnull"`
	SourceResultID *string         `bun:"source_result_id,type:varchar(36)"`
	CreatedAt      time.Time       `bun:"created_at,notnull"`
}

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.NewCreateTable().Model((*quizV1)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			_, err := db.NewCreateIndex().Model((*quizV1)(nil)).
				Index("quizzes_owner_created_idx").
				Column("owner_id", "created_at").
				IfNotExists().
				Exec(ctx)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.NewDropTable().Model((*quizV1)(nil)).IfExists().Exec(ctx)
			return err
		},
	)
}
