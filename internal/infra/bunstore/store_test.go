package bunstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"quiz-retake-service/internal/domain"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "quiz.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestQuizStoreRoundTrip(t *testing.T) {
	db := newTestDB(t)
	store := NewQuizStore(db)
	ctx := context.Background()

	quiz := sampleQuiz("8a3c7e0e-4b8e-4a57-9d2e-2a1b3c4d5e6f", "u1", time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC))
	if err := store.CreateQuiz(ctx, quiz); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.GetQuiz(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Geo" || got.Kind != domain.KindAuthored || got.SourceResultID != "" {
		t.Fatalf("unexpected quiz %+v", got)
	}
	if len(got.Questions) != 1 || got.Questions[0].Answer != "Paris" || got.Questions[0].ID != "q1" {
		t.Fatalf("questions lost in round trip: %+v", got.Questions)
	}
	if !got.CreatedAt.Equal(quiz.CreatedAt) {
		t.Fatalf("created at %v, want %v", got.CreatedAt, quiz.CreatedAt)
	}

	got.Title = "Geography"
	got.Questions = append(got.Questions, domain.Question{ID: "q2", Prompt: "Capital of Italy?", Answer: "Rome"})
	if err := store.ReplaceQuiz(ctx, got); err != nil {
		t.Fatalf("replace: %v", err)
	}
	reloaded, _ := store.GetQuiz(ctx, quiz.ID)
	if reloaded.Title != "Geography" || len(reloaded.Questions) != 2 {
		t.Fatalf("replace not persisted: %+v", reloaded)
	}

	if err := store.DeleteQuiz(ctx, quiz.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetQuiz(ctx, quiz.ID); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.DeleteQuiz(ctx, quiz.ID); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if err := store.ReplaceQuiz(ctx, quiz); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found on replace, got %v", err)
	}
}

func TestQuizStoreRetakeKind(t *testing.T) {
	db := newTestDB(t)
	store := NewQuizStore(db)
	ctx := context.Background()

	quiz := sampleQuiz("0f1e2d3c-4b5a-4978-8695-a4b3c2d1e0f9", "u1", time.Now().UTC())
	quiz.Kind = domain.KindRetake
	quiz.SourceResultID = "11111111-2222-4333-8444-555555555555"
	if err := store.CreateQuiz(ctx, quiz); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := store.GetQuiz(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsRetake() || got.SourceResultID != quiz.SourceResultID {
		t.Fatalf("retake tag lost: %+v", got)
	}
}

func TestQuizStoreListByOwner(t *testing.T) {
	db := newTestDB(t)
	store := NewQuizStore(db)
	ctx := context.Background()
	base := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

	_ = store.CreateQuiz(ctx, sampleQuiz("a0000000-0000-4000-8000-000000000001", "u1", base))
	_ = store.CreateQuiz(ctx, sampleQuiz("a0000000-0000-4000-8000-000000000002", "u2", base.Add(time.Hour)))
	_ = store.CreateQuiz(ctx, sampleQuiz("a0000000-0000-4000-8000-000000000003", "u1", base.Add(2*time.Hour)))

	got, err := store.ListQuizzesByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a0000000-0000-4000-8000-000000000003" {
		t.Fatalf("unexpected listing %+v", got)
	}
}

func TestResultStore(t *testing.T) {
	db := newTestDB(t)
	store := NewResultStore(db)
	ctx := context.Background()
	base := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

	older := domain.QuizResult{
		ID:             "b0000000-0000-4000-8000-000000000001",
		QuizID:         "a0000000-0000-4000-8000-000000000001",
		OwnerID:        "u1",
		Score:          0,
		TotalQuestions: 1,
		Answers:        []domain.AnswerRecord{{Question: "Capital of France?", CorrectAnswer: "Paris", UserAnswer: "Lyon"}},
		SubmittedAt:    base,
	}
	newer := older
	newer.ID = "b0000000-0000-4000-8000-000000000002"
	newer.SubmittedAt = base.Add(time.Minute)
	other := older
	other.ID = "b0000000-0000-4000-8000-000000000003"
	other.OwnerID = "u2"

	for _, r := range []domain.QuizResult{older, newer, other} {
		if err := store.CreateResult(ctx, r); err != nil {
			t.Fatalf("create %s: %v", r.ID, err)
		}
	}

	list, err := store.ListResultsByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Fatalf("expected newest first, got %+v", list)
	}

	got, err := store.GetResult(ctx, older.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Answers) != 1 || got.Answers[0].UserAnswer != "Lyon" || got.Answers[0].Correct {
		t.Fatalf("answers lost in round trip: %+v", got.Answers)
	}

	if err := store.DeleteResult(ctx, older.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetResult(ctx, older.ID); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProfileStoreUpsert(t *testing.T) {
	db := newTestDB(t)
	store := NewProfileStore(db)
	ctx := context.Background()
	first := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return first }

	if err := store.UpsertProfile(ctx, domain.Profile{UserID: "u1", Email: "old@example.com", DisplayName: "Alice"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	store.now = func() time.Time { return first.Add(time.Hour) }
	if err := store.UpsertProfile(ctx, domain.Profile{UserID: "u1", Email: "new@example.com", DisplayName: "Alice B"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	var rows []profileRow
	if err := db.NewSelect().Model(&rows).Scan(ctx); err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one profile row, got %d", len(rows))
	}
	row := rows[0]
	if row.Email != "new@example.com" || row.DisplayName != "Alice B" {
		t.Fatalf("profile not refreshed: %+v", row)
	}
	if !row.CreatedAt.Equal(first) || !row.UpdatedAt.Equal(first.Add(time.Hour)) {
		t.Fatalf("unexpected timestamps created=%v updated=%v", row.CreatedAt, row.UpdatedAt)
	}
}

func TestMigrateIsRepeatable(t *testing.T) {
	db := newTestDB(t)
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func sampleQuiz(id, owner string, createdAt time.Time) domain.Quiz {
	return domain.Quiz{
		ID:        id,
		Title:     "Geo",
		OwnerID:   owner,
		Kind:      domain.KindAuthored,
		Questions: []domain.Question{{ID: "q1", Prompt: "Capital of France?", Answer: "Paris"}},
		CreatedAt: createdAt,
	}
}
