package types

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind groups error types by how callers should react to them.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindDuplicate    Kind = "duplicate"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindStorage      Kind = "storage"
	KindUnavailable  Kind = "service_unavailable"
)

// CustomError carries an HTTP code, a user-facing message and a stable type string.
// Two CustomErrors match under errors.Is when their Type is equal.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Kind    Kind   `json:"kind"`
	Err     error  `json:"-"`
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s [type: %s]: %v", e.Code, e.Message, e.Type, e.Err)
	}
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	return ok && t.Type == e.Type
}

// Wrap returns a copy of e that carries cause.
func (e *CustomError) Wrap(cause error) *CustomError {
	c := *e
	c.Err = cause
	return &c
}

// WithMessage returns a copy of e with a more specific message.
func (e *CustomError) WithMessage(format string, args ...interface{}) *CustomError {
	c := *e
	c.Message = fmt.Sprintf(format, args...)
	return &c
}

var (
	ErrDuplicateUsername = &CustomError{Code: http.StatusConflict, Kind: KindDuplicate, Type: "auth.duplicate.username",
		Message: "Username already exists. Please choose another one."}
	ErrDuplicateEmail = &CustomError{Code: http.StatusConflict, Kind: KindDuplicate, Type: "auth.duplicate.email",
		Message: "Email is already in use. Please use another email."}
	ErrUnknownUsername = &CustomError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Type: "auth.unknown.username",
		Message: "Username does not exist."}
	ErrInvalidCredentials = &CustomError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Type: "auth.invalid.credentials",
		Message: "Incorrect password."}
	ErrUnauthorized = &CustomError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Type: "auth.session",
		Message: "Please log in to continue."}

	ErrDuplicateEntry = &CustomError{Code: http.StatusConflict, Kind: KindDuplicate, Type: "vocabulary.duplicate",
		Message: "This word with this meaning is already in your dictionary."}
	ErrDuplicateName = &CustomError{Code: http.StatusConflict, Kind: KindDuplicate, Type: "flashcards.duplicate.name",
		Message: "A flashcard deck with this name already exists."}
	ErrEmptySelection = &CustomError{Code: http.StatusBadRequest, Kind: KindValidation, Type: "flashcards.empty",
		Message: "Select at least one word for the deck."}

	ErrValidation = &CustomError{Code: http.StatusBadRequest, Kind: KindValidation, Type: "validation",
		Message: "Invalid request."}
	ErrNotFound = &CustomError{Code: http.StatusNotFound, Kind: KindNotFound, Type: "not_found",
		Message: "Resource not found."}
	ErrStorage = &CustomError{Code: http.StatusInternalServerError, Kind: KindStorage, Type: "storage",
		Message: "Something went wrong while saving your data. Please try again."}
	ErrServiceUnavailable = &CustomError{Code: http.StatusServiceUnavailable, Kind: KindUnavailable, Type: "service.unavailable",
		Message: "The language service is unavailable right now. Please retry."}
	ErrNothingToTranslate = &CustomError{Code: http.StatusBadRequest, Kind: KindValidation, Type: "translate.empty",
		Message: "Nothing to translate."}
)

// Validation builds a validation error with a specific message.
func Validation(format string, args ...interface{}) *CustomError {
	return ErrValidation.WithMessage(format, args...)
}

// NotFound builds a not-found error naming the missing resource.
func NotFound(resource string) *CustomError {
	return ErrNotFound.WithMessage("%s not found.", resource)
}

// Storage wraps a persistence failure. The cause is kept for logs, never shown to users.
func Storage(op string, err error) *CustomError {
	return ErrStorage.Wrap(fmt.Errorf("%s: %w", op, err))
}

// Unavailable wraps a failed call to an external collaborator.
func Unavailable(service string, err error) *CustomError {
	return ErrServiceUnavailable.Wrap(fmt.Errorf("%s: %w", service, err))
}

// KindOf returns the Kind of the first CustomError in err's chain, or KindStorage.
func KindOf(err error) Kind {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindStorage
}

// AsCustomError converts any error into a CustomError, treating unknown errors as storage failures.
func AsCustomError(err error) *CustomError {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce
	}
	return ErrStorage.Wrap(err)
}
