package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-retake-service/internal/domain"
)

// ProfileStore upserts user profiles into the user_profiles table.
type ProfileStore struct {
	pool *pgxpool.Pool
}

func NewProfileStore(pool *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{pool: pool}
}

const upsertProfileSQL = `
INSERT INTO user_profiles (uid, email, display_name, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())
ON CONFLICT (uid) DO UPDATE
SET email = EXCLUDED.email, display_name = EXCLUDED.display_name, updated_at = now()`

// UpsertProfile creates the profile on first sight and refreshes email and
// display name afterwards. created_at is only set on insert.
func (s *ProfileStore) UpsertProfile(ctx context.Context, profile domain.Profile) error {
	if _, err := s.pool.Exec(ctx, upsertProfileSQL, profile.UserID, profile.Email, profile.DisplayName); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
