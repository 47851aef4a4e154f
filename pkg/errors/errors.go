package errors

import (
	"errors"
	"fmt"
)

// Kind classifies user-visible failures so the HTTP layer can map them to a
// status code without inspecting messages.
type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindPermission Kind = "PERMISSION"
	KindInternal   Kind = "INTERNAL"
)

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(kind Kind, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func Validation(message string, err error) *AppError {
	return NewAppError(KindValidation, message, err)
}

func NotFound(message string, err error) *AppError {
	return NewAppError(KindNotFound, message, err)
}

func Conflict(message string, err error) *AppError {
	return NewAppError(KindConflict, message, err)
}

func Permission(message string, err error) *AppError {
	return NewAppError(KindPermission, message, err)
}

func Internal(message string, err error) *AppError {
	return NewAppError(KindInternal, message, err)
}

// KindOf extracts the Kind from an error chain, defaulting to INTERNAL.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
