package http

import (
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"quiz-retake-service/internal/app"
	"quiz-retake-service/internal/identity"
)

// Deps is everything the HTTP surface needs.
type Deps struct {
	Quizzes  *app.QuizService
	Results  *app.ResultService
	Verifier identity.Verifier
	// Profiles may be nil to skip the profile refresh.
	Profiles app.ProfileStore
}

// NewRouter mounts the health checks at the root and every authenticated
// route under /api.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()
	health := func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusOK, "", "ok")
	}
	r.HandleFunc("/", health).Methods(http.MethodGet)
	r.HandleFunc("/healthz", health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authenticate(d.Verifier, d.Profiles))

	v := validator.New()
	NewQuizHandler(d.Quizzes, d.Results, v).SetupRoutes(api)
	NewResultHandler(d.Results).SetupRoutes(api)
	return r
}

// NewServer wraps the router with CORS, access logging and panic recovery.
func NewServer(addr string, router http.Handler, origins []string, readTimeout, writeTimeout time.Duration) *http.Server {
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.AllowCredentials(),
	)
	handler := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(router)
	handler = handlers.CombinedLoggingHandler(os.Stdout, handler)

	return &http.Server{
		Addr:         addr,
		Handler:      cors(handler),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
}
