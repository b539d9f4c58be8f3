package http

import (
	"net/http"

	"github.com/golang/glog"
	"github.com/gorilla/mux"

	"quiz-retake-service/internal/app"
)

type ResultHandler struct {
	results *app.ResultService
}

func NewResultHandler(results *app.ResultService) *ResultHandler {
	return &ResultHandler{results: results}
}

func (h *ResultHandler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/results/my", h.ListMine).Methods(http.MethodGet)
	r.HandleFunc("/results/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/results/{id}", h.Delete).Methods(http.MethodDelete)
	glog.V(2).Infof("set up routes for result handler")
}

func (h *ResultHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.results.ListMine(r.Context(), callerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *ResultHandler) Get(w http.ResponseWriter, r *http.Request) {
	summary, err := h.results.Get(r.Context(), callerFrom(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *ResultHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.results.Delete(r.Context(), callerFrom(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "", "Result deleted")
}
