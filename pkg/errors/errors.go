package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type QuizfarmError struct {
	Code        int
	Message     string
	Description string
}

func (q QuizfarmError) Error() string {
	return q.Message
}

func NewInvalid(format string, a ...any) QuizfarmError {
	return QuizfarmError{
		Code:        http.StatusBadRequest,
		Message:     fmt.Sprintf(format, a...),
		Description: "invalid input",
	}
}

func NewForbidden(format string, a ...any) QuizfarmError {
	return QuizfarmError{
		Code:        http.StatusForbidden,
		Message:     fmt.Sprintf(format, a...),
		Description: "access denied",
	}
}

func NewNotFound(format string, a ...any) QuizfarmError {
	return QuizfarmError{
		Code:        http.StatusNotFound,
		Message:     fmt.Sprintf(format, a...),
		Description: "resource not found",
	}
}

func NewAlreadyExists(format string, a ...any) QuizfarmError {
	return QuizfarmError{
		Code:        http.StatusConflict,
		Message:     fmt.Sprintf(format, a...),
		Description: "resource already exists",
	}
}

// hasCode walks the wrap chain, so errors decorated with pkg/errors.Wrap still match.
func hasCode(err error, code int) bool {
	var qe QuizfarmError
	if !errors.As(err, &qe) {
		return false
	}

	return qe.Code == code
}

func IsInvalid(err error) bool {
	return hasCode(err, http.StatusBadRequest)
}

func IsForbidden(err error) bool {
	return hasCode(err, http.StatusForbidden)
}

func IsNotFound(err error) bool {
	return hasCode(err, http.StatusNotFound)
}

func IsAlreadyExists(err error) bool {
	return hasCode(err, http.StatusConflict)
}

// GetErrorMessage returns the message of the innermost QuizfarmError, or err.Error() otherwise.
func GetErrorMessage(err error) string {
	var qe QuizfarmError
	if errors.As(err, &qe) {
		return qe.Message
	}
	return err.Error()
}
