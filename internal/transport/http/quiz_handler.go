package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang/glog"
	"github.com/gorilla/mux"

	"quiz-retake-service/internal/app"
	"quiz-retake-service/internal/domain"
)

const maxTitleLen = 200

type questionInput struct {
	ID       string `json:"id"`
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

type createQuizRequest struct {
	Title     string          `json:"title" validate:"required,max=200"`
	Questions []questionInput `json:"questions" validate:"required,min=1,dive"`
}

// Amendments may leave fields empty to keep the stored value.
type questionPatch struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type updateQuizRequest struct {
	Title     string          `json:"title" validate:"omitempty,max=200"`
	Questions []questionPatch `json:"questions"`
}

type submitRequest struct {
	Answers        []string `json:"answers" validate:"required"`
	QuestionOrder  []string `json:"questionOrder" validate:"omitempty,dive,uuid"`
	Score          *int     `json:"score" validate:"omitempty,min=0"`
	TotalQuestions *int     `json:"totalQuestions" validate:"omitempty,min=0"`
}

type retakeResponse struct {
	Message       string `json:"message"`
	ID            string `json:"id"`
	QuestionCount int    `json:"questionCount"`
}

// QuizHandler serves quiz authoring, taking and retake creation.
type QuizHandler struct {
	quizzes  *app.QuizService
	results  *app.ResultService
	validate *validator.Validate
}

func NewQuizHandler(quizzes *app.QuizService, results *app.ResultService, v *validator.Validate) *QuizHandler {
	return &QuizHandler{quizzes: quizzes, results: results, validate: v}
}

func (h *QuizHandler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/exams/my", h.ListMine).Methods(http.MethodGet)
	r.HandleFunc("/exams", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/exams/incorrect/{resultId}", h.CreateRetake).Methods(http.MethodPost)
	r.HandleFunc("/exams/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/exams/{id}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/exams/{id}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/exams/{id}/results", h.Submit).Methods(http.MethodPost)
	glog.V(2).Infof("set up routes for quiz handler")
}

func (h *QuizHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizzes.ListMine(r.Context(), callerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if quizzes == nil {
		quizzes = []domain.Quiz{}
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	questions := make([]domain.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, domain.Question{Prompt: q.Question, Answer: q.Answer})
	}
	quiz, err := h.quizzes.Create(r.Context(), callerFrom(r), req.Title, questions)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizzes.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *QuizHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateQuizRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	patch := domain.QuizPatch{Title: req.Title}
	for _, q := range req.Questions {
		patch.Questions = append(patch.Questions, domain.Question{ID: q.ID, Prompt: q.Question, Answer: q.Answer})
	}
	quiz, err := h.quizzes.Update(r.Context(), callerFrom(r), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *QuizHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.quizzes.Delete(r.Context(), callerFrom(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "", "Quiz deleted")
}

// Submit regrades the answers server-side. A client-sent score is only
// compared against the computed one.
func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	caller := callerFrom(r)
	result, err := h.quizzes.Submit(r.Context(), caller, mux.Vars(r)["id"], domain.Submission{
		Answers: req.Answers,
		Order:   req.QuestionOrder,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if (req.Score != nil && *req.Score != result.Score) ||
		(req.TotalQuestions != nil && *req.TotalQuestions != result.TotalQuestions) {
		glog.Warningf("result %s: client score disagrees with server grading (%d/%d)",
			result.ID, result.Score, result.TotalQuestions)
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *QuizHandler) CreateRetake(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.results.CreateRetake(r.Context(), callerFrom(r), mux.Vars(r)["resultId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, retakeResponse{
		Message:       "Retake quiz created",
		ID:            quiz.ID,
		QuestionCount: len(quiz.Questions),
	})
}
