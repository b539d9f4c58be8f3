package migrations

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

type userProfileV1 struct {
	bun.BaseModel `bun:"table:user_profiles"`

	UID         string    `bun:"uid,pk"`
	Email       string    `bun:"email"`
	DisplayName string    `bun:"display_name"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.NewCreateTable().Model((*userProfileV1)(nil)).IfNotExists().Exec(ctx)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.NewDropTable().Model((*userProfileV1)(nil)).IfExists().Exec(ctx)
			return err
		},
	)
}
