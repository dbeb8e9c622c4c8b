package service

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a domain error that knows its HTTP status
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *Error) Is(target error) bool {
	var other *Error
	return errors.As(target, &other) && other.Code == e.Code
}

func newError(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

func wrap(err error, base *Error) *Error {
	return &Error{Code: base.Code, Status: base.Status, Message: base.Message, Err: err}
}

var (
	ErrValidation  = newError("VALIDATION_ERROR", http.StatusBadRequest, "invalid timetable input")
	ErrNotFound    = newError("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrNoTimetable = newError("NO_TIMETABLE", http.StatusNotFound, "no timetable has been generated yet")
	ErrSolve       = newError("SOLVE_FAILED", http.StatusInternalServerError, "timetable generation failed")
	ErrInternal    = newError("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// FromError normalises any error into an *Error
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return wrap(err, ErrInternal)
}
