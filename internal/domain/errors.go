package domain

import "errors"

var (
	// ErrInvalidInput marks malformed or missing request data.
	ErrInvalidInput = errors.New("invalid input")
	// ErrForbidden is returned when the caller does not own the entity.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is the parent of every "entity absent" error.
	ErrNotFound = errors.New("not found")
	// ErrQuizNotFound indicates the quiz could not be loaded.
	ErrQuizNotFound = notFound("quiz not found")
	// ErrResultNotFound indicates the quiz result could not be loaded.
	ErrResultNotFound = notFound("result not found")
	// ErrNoIncorrectAnswers is returned when a retake is requested for a perfect result.
	ErrNoIncorrectAnswers = errors.New("no incorrect answers to retake")
)

type notFoundError struct {
	msg string
}

func notFound(msg string) error {
	return &notFoundError{msg: msg}
}

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }
