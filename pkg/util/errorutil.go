package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes surfaced to the HTTP boundary. Each business-rule violation
// is raised at the point of detection and propagates unmodified.
const (
	CodeNotFound              = "NOT_FOUND"
	CodeUnauthorizedAction    = "UNAUTHORIZED_ACTION"
	CodeClosedTicket          = "CLOSED_TICKET"
	CodeNotificationFailed    = "NOTIFICATION_FAILED"
	CodeDefaultEntityDeletion = "DEFAULT_ENTITY_DELETION"
	CodeValidationFailed      = "VALIDATION_FAILED"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeForbidden             = "FORBIDDEN"
	CodeConflict              = "CONFLICT"
	CodeInternal              = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

// NewNotFound names the resource and the id that failed resolution.
func NewNotFound(resource string, id any) error {
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"resource": resource, "id": id},
	}
}

// NewUnauthorizedAction carries the action verb and resource so failure
// messages stay specific to the call site.
func NewUnauthorizedAction(action, resource string) error {
	return &DomainError{
		Code:       CodeUnauthorizedAction,
		Message:    fmt.Sprintf("you do not have permission to %s this %s", action, resource),
		HTTPStatus: http.StatusForbidden,
		Details:    map[string]any{"action": action, "resource": resource},
	}
}

// NewClosedTicket signals a reply against a ticket whose status closes the
// thread. Distinct from a plain permission denial.
func NewClosedTicket() error {
	return &DomainError{
		Code:       CodeClosedTicket,
		Message:    "cannot add reply to closed ticket",
		HTTPStatus: http.StatusConflict,
	}
}

// NewNotificationFailed reports that a mutation succeeded but its attached
// notification did not. Non-fatal: callers keep the mutated entity.
func NewNotificationFailed(err error) error {
	return &DomainError{
		Code:       CodeNotificationFailed,
		Message:    "notification could not be sent",
		HTTPStatus: http.StatusOK,
		Err:        err,
	}
}

// NewDefaultEntityDeletion guards deletion of protected rows such as the
// default status or the last enabled admin.
func NewDefaultEntityDeletion(resource string) error {
	return &DomainError{
		Code:       CodeDefaultEntityDeletion,
		Message:    fmt.Sprintf("default %s cannot be deleted", resource),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"resource": resource},
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsCode reports whether err is a DomainError with the given code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
