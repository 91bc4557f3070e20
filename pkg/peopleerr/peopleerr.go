// Package peopleerr defines the typed failures returned by the people
// service. Every failure is returned to the caller, never panicked, and no
// operation retries internally.
package peopleerr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
)

const (
	CodeInvalidArgument           = "invalid_argument"
	CodeMissingIDs                = "missing_ids"
	CodeMissingType               = "missing_type"
	CodeUnknownType               = "unknown_type"
	CodeMissingRequiredField      = "missing_required_field"
	CodeInvalidEmail              = "invalid_email"
	CodeValidationFailed          = "validation_failed"
	CodeDuplicateEmailForType     = "duplicate_email_for_type"
	CodeLinkedAccountUpdateFailed = "linked_account_update_failed"
	CodeCreateFailed              = "create_failed"
)

// Error is a coded people failure. ValidationFailed errors additionally carry
// the full set of sub-failures gathered from the validation hooks.
type Error struct {
	Code     string
	Message  string
	Failures []error
}

func New(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func Newf(code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewValidationFailed aggregates hook failures into a single coded error.
func NewValidationFailed(failures []error) *Error {
	messages := make([]string, 0, len(failures))
	for _, f := range failures {
		messages = append(messages, f.Error())
	}

	return &Error{
		Code:     CodeValidationFailed,
		Message:  strings.Join(messages, "; "),
		Failures: failures,
	}
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// CodeOf returns the people error code carried by err, or "" when err is not
// a people error.
func CodeOf(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// Is reports whether err is a people error with the given code.
func Is(err error, code string) bool {
	return CodeOf(err) == code
}

// ToHTTPError bridges the people taxonomy onto the platform HTTP errors.
func (e *Error) ToHTTPError() *httperror.HTTPError {
	status := http.StatusBadRequest
	switch e.Code {
	case CodeDuplicateEmailForType:
		status = http.StatusConflict
	case CodeLinkedAccountUpdateFailed, CodeCreateFailed:
		status = http.StatusInternalServerError
	}

	httpErr := httperror.NewHTTPError(status, e.Message).AddMetaValue("code", e.Code)
	for i, failure := range e.Failures {
		httpErr = httpErr.AddMetaValue(fmt.Sprintf("failure_%d", i), failure.Error())
	}
	return httpErr
}
