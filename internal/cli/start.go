package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-retake-service/internal/app"
	"quiz-retake-service/internal/config"
	"quiz-retake-service/internal/identity"
	"quiz-retake-service/internal/infra/bunstore"
	"quiz-retake-service/internal/infra/memory"
	"quiz-retake-service/internal/infra/postgres"
	rediscache "quiz-retake-service/internal/infra/redis"
	transport "quiz-retake-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

type stores struct {
	quizzes  app.QuizStore
	results  app.ResultStore
	profiles app.ProfileStore
	closers  []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	verifier, err := newVerifier(cfg)
	if err != nil {
		return err
	}

	quizSvc := app.NewQuizService(st.quizzes, st.results)
	resultSvc := app.NewResultService(st.results, st.quizzes, quizSvc)
	router := transport.NewRouter(transport.Deps{
		Quizzes:  quizSvc,
		Results:  resultSvc,
		Verifier: verifier,
		Profiles: st.profiles,
	})

	server := transport.NewServer(":"+finalPort, router, cfg.Server.CORSOrigins,
		config.TTLDuration(cfg.Server.ReadTimeout, 15*time.Second),
		config.TTLDuration(cfg.Server.WriteTimeout, 15*time.Second))

	serveErr := make(chan error, 1)
	go func() {
		glog.Infof("starting quiz service on :%s (store=%s, auth=%s)", finalPort, cfg.Store.Driver, cfg.Auth.Provider)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serveErr:
		glog.Errorf("failed to start server: %v", err)
		return err
	case <-stop:
		glog.Info("shutting down server...")
	case <-ctx.Done():
		glog.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openStores builds the entity and profile stores for the configured driver,
// then puts a quiz cache in front of the quiz store.
func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	st := &stores{}
	switch cfg.Store.Driver {
	case "memory":
		st.quizzes = memory.NewQuizStore()
		st.results = memory.NewResultStore()
		st.profiles = memory.NewProfileStore()
	case bunstore.DriverPostgres, bunstore.DriverSQLite:
		driver, dsn, err := sqlTarget(cfg)
		if err != nil {
			return nil, err
		}
		db, err := bunstore.Open(driver, dsn)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = db.Close() })
		if err := bunstore.Migrate(ctx, db); err != nil {
			st.close()
			return nil, err
		}
		st.quizzes = bunstore.NewQuizStore(db)
		st.results = bunstore.NewResultStore(db)
		st.profiles = bunstore.NewProfileStore(db)

		if driver == bunstore.DriverPostgres {
			pool, err := pgxpool.Connect(ctx, dsn)
			if err != nil {
				st.close()
				return nil, err
			}
			st.closers = append(st.closers, pool.Close)
			st.profiles = postgres.NewProfileStore(pool)
		}
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		st.closers = append(st.closers, func() { _ = client.Close() })
		st.quizzes = rediscache.NewQuizCache(client, st.quizzes, config.TTLDuration(cfg.Redis.TTL, quizTTL))
	} else {
		st.quizzes = memory.NewQuizCache(st.quizzes, quizTTL)
	}
	return st, nil
}

func newVerifier(cfg config.Config) (identity.Verifier, error) {
	switch cfg.Auth.Provider {
	case "jwt":
		return identity.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.Audience, cfg.Auth.Issuer)
	case "google":
		return identity.NewGoogleVerifier(cfg.Auth.GoogleClientIDs)
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Auth.Provider)
	}
}
