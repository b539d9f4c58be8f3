package cli

import (
	"bytes"
	"context"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"quiz-retake-service/internal/config"
	"quiz-retake-service/internal/domain"
	"quiz-retake-service/internal/identity"
	"quiz-retake-service/internal/infra/bunstore"
	"quiz-retake-service/internal/infra/memory"
)

func TestTokenCommandMintsVerifiableToken(t *testing.T) {
	t.Setenv("AUTH_PROVIDER", "jwt")
	t.Setenv("AUTH_JWT_SECRET", "dev-secret")
	t.Setenv("AUTH_AUDIENCE", "")
	t.Setenv("AUTH_ISSUER", "")
	path := filepath.Join(t.TempDir(), "missing.yaml")

	cmd := NewTokenCmd(&path)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"alice", "--email", "alice@example.com"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("token: %v", err)
	}

	verifier, _ := identity.NewJWTVerifier("dev-secret", "", "")
	id, err := verifier.Verify(context.Background(), strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("verify minted token: %v", err)
	}
	if id.UserID != "alice" || id.Email != "alice@example.com" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestSQLTarget(t *testing.T) {
	var cfg config.Config
	cfg.Store.Driver = "sqlite"
	cfg.Store.SQLitePath = "quiz.db"
	if driver, dsn, err := sqlTarget(cfg); err != nil || driver != "sqlite" || dsn != "quiz.db" {
		t.Fatalf("sqlite: %s %s %v", driver, dsn, err)
	}

	cfg.Store.Driver = "postgres"
	if _, _, err := sqlTarget(cfg); err == nil {
		t.Fatalf("expected error without postgres url")
	}

	cfg.Store.Driver = "memory"
	if _, _, err := sqlTarget(cfg); err == nil {
		t.Fatalf("expected error for memory driver")
	}
}

func TestOpenStoresSQLite(t *testing.T) {
	var cfg config.Config
	cfg.Store.Driver = "sqlite"
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "quiz.db")

	st, err := openStores(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open stores: %v", err)
	}
	defer st.close()
	if st.quizzes == nil || st.results == nil {
		t.Fatalf("stores not wired: %+v", st)
	}
	profiles, ok := st.profiles.(*bunstore.ProfileStore)
	if !ok {
		t.Fatalf("expected profiles in the sqlite database, got %T", st.profiles)
	}
	if err := profiles.UpsertProfile(context.Background(), domain.Profile{UserID: "u1", Email: "a@example.com"}); err != nil {
		t.Fatalf("upsert profile: %v", err)
	}
}

func TestOpenStoresMemoryKeepsProfilesInMemory(t *testing.T) {
	var cfg config.Config
	cfg.Store.Driver = "memory"

	st, err := openStores(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open stores: %v", err)
	}
	defer st.close()
	if _, ok := st.profiles.(*memory.ProfileStore); !ok {
		t.Fatalf("expected in-memory profiles, got %T", st.profiles)
	}
}

func TestRunServerReturnsListenError(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	_, port, _ := net.SplitHostPort(ln.Addr().String())

	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("AUTH_PROVIDER", "jwt")
	t.Setenv("AUTH_JWT_SECRET", "dev-secret")
	path := filepath.Join(t.TempDir(), "missing.yaml")

	done := make(chan error, 1)
	go func() { done <- runServer(context.Background(), path, port) }()
	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected an error for a port already in use")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("runServer kept waiting after the listener failed")
	}
}

func TestNewVerifierRejectsUnknownProvider(t *testing.T) {
	var cfg config.Config
	cfg.Auth.Provider = "saml"
	if _, err := newVerifier(cfg); err == nil {
		t.Fatalf("expected error")
	}
}
