package usecase

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// Error kinds. errors.Is(err, ErrConflict) matches any *Error of that kind.
var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("not found")
	ErrUnavailable     = errors.New("unavailable")
	ErrConflict        = errors.New("conflict")
	ErrAuthorization   = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInternal        = errors.New("internal error")
)

// Error is a business failure carrying a message fit for the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func validation(msg string) *Error { return newError(ErrValidation, msg) }

func conflict(msg string) *Error { return newError(ErrConflict, msg) }

var (
	errJobUnavailableMissing = newError(ErrNotFound, "This job is unavailable.")
	errJobUnavailableClosed  = newError(ErrUnavailable, "This job is unavailable.")
	errNoCompanyAccess       = newError(ErrAuthorization, "You do not have access to this company.")
	errSignInRequired        = newError(ErrUnauthenticated, "Sign in required.")
	errApplicationNotFound   = newError(ErrNotFound, "Application not found.")
)

// internal logs err with op and hides it behind ErrInternal. Errors that are
// already *Error pass through unchanged.
func internal(logger logrus.FieldLogger, op string, err error) error {
	var ue *Error
	if errors.As(err, &ue) {
		return ue
	}
	if logger != nil {
		logger.WithError(err).WithField("op", op).Error("operation failed")
	}
	return newError(ErrInternal, "Something went wrong.")
}
