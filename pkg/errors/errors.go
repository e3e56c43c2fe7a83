package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidOptions  = errors.New("invalid evaluation options")
	ErrDocumentMissing = errors.New("document missing from corpus")
	ErrScoreProtocol   = errors.New("ranker protocol violation")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrInvalidOptions):
		return http.StatusBadRequest
	case errors.Is(err, ErrDocumentMissing), errors.Is(err, ErrScoreProtocol):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
