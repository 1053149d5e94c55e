package middleware

import (
	"errors"

	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

type ErrorMiddleware struct {
	logger logrus.FieldLogger
}

func NewErrorMiddleware(logger logrus.FieldLogger) *ErrorMiddleware {
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				if m != nil && m.logger != nil {
					m.logger.WithFields(logrus.Fields{
						"panic":  r,
						"method": c.Method(),
						"path":   c.Path(),
					}).Error("panic recovered")
				}
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		if status >= 500 && m != nil && m.logger != nil {
			m.logger.WithError(err).WithField("path", c.Path()).Error("request failed")
		}
		return response.Error(c, status, msg, data)
	}
}

// StatusForKind maps a usecase error kind onto its HTTP status.
func StatusForKind(err error) int {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, usecase.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, usecase.ErrAuthorization):
		return fiber.StatusForbidden
	case errors.Is(err, usecase.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, usecase.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, usecase.ErrUnavailable):
		return fiber.StatusGone
	default:
		return fiber.StatusInternalServerError
	}
}

func normalizeError(err error) (int, string, interface{}) {
	if err == nil {
		return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.StatusCode <= 0 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}

		status := appErr.StatusCode
		if status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		msg := appErr.Message
		if msg == "" {
			msg = response.DefaultMessage(status)
		}
		return status, msg, appErr.Data
	}

	var ucErr *usecase.Error
	if errors.As(err, &ucErr) {
		status := StatusForKind(ucErr)
		if status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		return status, ucErr.Error(), nil
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}

		msg := fiberErr.Message
		if msg == "" {
			msg = response.DefaultMessage(status)
		}
		return status, msg, nil
	}

	return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
}
