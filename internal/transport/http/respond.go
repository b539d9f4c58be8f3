package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang/glog"

	"quiz-retake-service/internal/domain"
)

type message struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		glog.Warningf("encode response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, code, text string) {
	writeJSON(w, status, message{Message: text, Error: code})
}

// writeError maps service errors onto HTTP statuses. Anything unrecognised
// is logged and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNoIncorrectAnswers):
		writeMessage(w, http.StatusBadRequest, "NO_INCORRECT_ANSWERS", "No incorrect answers to retake")
	case errors.Is(err, domain.ErrInvalidInput):
		writeMessage(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "FORBIDDEN", "You do not have access to this resource")
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		glog.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		writeMessage(w, http.StatusInternalServerError, "", "Internal server error")
	}
}

// decode reads a JSON body into dst and runs struct validation on it.
func decode(r *http.Request, v *validator.Validate, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body", domain.ErrInvalidInput)
	}
	if err := v.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
