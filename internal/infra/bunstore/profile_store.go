package bunstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"quiz-retake-service/internal/domain"
)

type profileRow struct {
	bun.BaseModel `bun:"table:user_profiles,alias:p"`

	UID         string    `bun:"uid,pk"`
	Email       string    `bun:"email"`
	DisplayName string    `bun:"display_name"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

// ProfileStore upserts user profiles through bun. It backs the SQLite
// driver; Postgres deployments use the pgx store.
type ProfileStore struct {
	db  *bun.DB
	now func() time.Time
}

func NewProfileStore(db *bun.DB) *ProfileStore {
	return &ProfileStore{db: db, now: time.Now}
}

// UpsertProfile keeps created_at from the first insert.
func (s *ProfileStore) UpsertProfile(ctx context.Context, profile domain.Profile) error {
	now := s.now().UTC()
	row := &profileRow{
		UID:         profile.UserID,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (uid) DO UPDATE").
		Set("email = EXCLUDED.email").
		Set("display_name = EXCLUDED.display_name").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return errors.Wrap(err, "upsert profile")
}
