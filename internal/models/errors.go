package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"murmur/internal/observability"
)

// ErrorKind is the closed set of failure kinds that may cross the system
// boundary. The values are stable identifiers and must never be renamed.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindValidationError   ErrorKind = "VALIDATION_ERROR"
	KindUnauthenticated   ErrorKind = "UNAUTHENTICATED"
	KindUnauthorized      ErrorKind = "UNAUTHORIZED"
	KindConflict          ErrorKind = "CONFLICT"
	KindBadUserInput      ErrorKind = "BAD_USER_INPUT"
	KindRateLimitExceeded ErrorKind = "RATE_LIMIT_EXCEEDED"
	KindInternalError     ErrorKind = "INTERNAL_ERROR"
)

// Status returns the fixed HTTP-equivalent status for the kind.
func (k ErrorKind) Status() int {
	switch k {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindValidationError, KindBadUserInput:
		return fiber.StatusBadRequest
	case KindUnauthenticated:
		return fiber.StatusUnauthorized
	case KindUnauthorized:
		return fiber.StatusForbidden
	case KindConflict:
		return fiber.StatusConflict
	case KindRateLimitExceeded:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Kind    ErrorKind
	Message string
	Details string
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

// Status returns the HTTP-equivalent status for the error's kind.
func (e *AppError) Status() int {
	return e.Kind.Status()
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Kind:    KindValidationError,
		Message: message,
	}
}

func NewUnauthenticatedError(message string) *AppError {
	return &AppError{
		Kind:    KindUnauthenticated,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Kind:    KindUnauthorized,
		Message: message,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Kind:    KindConflict,
		Message: message,
	}
}

func NewBadInputError(message, details string) *AppError {
	return &AppError{
		Kind:    KindBadUserInput,
		Message: message,
		Details: details,
	}
}

func NewRateLimitError(message string) *AppError {
	return &AppError{
		Kind:    KindRateLimitExceeded,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Kind:    KindInternalError,
		Message: "Internal server error",
		Err:     err,
	}
}

// Classify maps any internal failure to its external error. It is the single
// choke point every failure passes through before crossing the system
// boundary.
//
// Branch order matters: failures that already carry a declared kind pass
// through unchanged; recognized persistence and input-shape faults map onto
// the taxonomy; everything else collapses to INTERNAL_ERROR with the
// original detail suppressed from the caller.
func Classify(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	// Persistence-layer uniqueness violations.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return NewConflictError("Resource already exists")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return NewConflictError("Resource already exists")
		case "23503": // foreign_key_violation
			return NewBadInputError("Referenced resource does not exist", pgErr.ConstraintName)
		}
	}

	// Missing row on read/update/delete.
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &AppError{Kind: KindNotFound, Message: "Resource not found"}
	}

	// Recognized input-shape failures keep their original detail.
	var jsonSyntaxErr *json.SyntaxError
	var jsonTypeErr *json.UnmarshalTypeError
	if errors.As(err, &jsonSyntaxErr) || errors.As(err, &jsonTypeErr) {
		return NewBadInputError("Malformed request body", err.Error())
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			return NewBadInputError("Malformed request body", fiberErr.Message)
		case fiber.StatusTooManyRequests:
			return NewRateLimitError(fiberErr.Message)
		case fiber.StatusNotFound:
			return &AppError{Kind: KindNotFound, Message: fiberErr.Message}
		}
	}

	// Anything else, including unexpected runtime faults. The original
	// message stays server-side only.
	return NewInternalError(err)
}

// RespondWithError classifies err and writes the external error response.
// Handlers must never write an unclassified failure.
func RespondWithError(c *fiber.Ctx, err error) error {
	ext := Classify(err)
	observability.ClassifiedErrors.WithLabelValues(string(ext.Kind)).Inc()

	response := ErrorResponse{
		Error: ext.Message,
		Code:  string(ext.Kind),
	}
	if ext.Kind == KindInternalError {
		// Full detail is logged, never returned.
		observability.Logger.ErrorContext(c.UserContext(), "unclassified failure",
			"error", ext.Error(),
			"path", c.Path(),
		)
	} else {
		response.Details = ext.Details
	}

	return c.Status(ext.Status()).JSON(response)
}
