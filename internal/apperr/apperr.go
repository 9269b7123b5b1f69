// Package apperr carries domain errors with a stable machine-readable code
// alongside the HTTP status they map to.
package apperr

import (
	"errors"
	"net/http"
)

type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func NotFound(entity string) *Error {
	return New(http.StatusNotFound, "NOT_FOUND", entity+" not found")
}

func Forbidden(code, message string) *Error {
	return New(http.StatusForbidden, code, message)
}

func BadRequest(code, message string) *Error {
	return New(http.StatusBadRequest, code, message)
}

func Conflict(code, message string) *Error {
	return New(http.StatusConflict, code, message)
}

func Unavailable(code, message string) *Error {
	return New(http.StatusServiceUnavailable, code, message)
}

// As unwraps err into an *Error, or nil when it is not one.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
