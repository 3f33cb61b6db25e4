package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/grpc/codes"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code so wrapped copies compare equal to the catalogue entry.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Detail returns a copy of the domain error with a more specific message.
func Detail(domainErr *DomainError, format string, args ...any) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: fmt.Sprintf(format, args...),
		Err:     domainErr.Err,
	}
}

// Predefined domain errors
var (
	// Authentication errors
	ErrUnauthorized       = NewDomainError("UNAUTHORIZED", "unauthorized")
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "invalid username or password")
	ErrSessionInvalid     = NewDomainError("SESSION_INVALID", "session is invalid or has expired")
	ErrSubjectInactive    = NewDomainError("SUBJECT_INACTIVE", "subject is not active")

	// Authorization errors
	ErrPermissionDenied = NewDomainError("PERMISSION_DENIED", "permission denied")
	ErrSystemEntity     = NewDomainError("SYSTEM_ENTITY", "system entities cannot be modified")
	ErrSelfDeletion     = NewDomainError("SELF_DELETION", "subjects cannot delete themselves")

	// Criteria errors
	ErrUnknownFilter            = NewDomainError("UNKNOWN_FILTER", "unknown filter")
	ErrInvalidFilterValue       = NewDomainError("INVALID_FILTER_VALUE", "invalid filter value")
	ErrUnknownFetch             = NewDomainError("UNKNOWN_FETCH", "unknown fetch field")
	ErrUnknownSortField         = NewDomainError("UNKNOWN_SORT_FIELD", "unknown sort field")
	ErrMutuallyExclusiveFilters = NewDomainError("MUTUALLY_EXCLUSIVE_FILTERS", "filters are mutually exclusive")

	// Entity errors
	ErrNotFound      = NewDomainError("NOT_FOUND", "entity not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "entity already exists")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "operation is not allowed in the current state")

	// Validation errors
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "invalid input")

	// RPC errors
	ErrUnknownMethod = NewDomainError("UNKNOWN_METHOD", "unknown service method")

	// System errors
	ErrInternal           = NewDomainError("INTERNAL_ERROR", "internal server error")
	ErrServiceUnavailable = NewDomainError("SERVICE_UNAVAILABLE", "service unavailable")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// CodeOf returns the code of the outermost domain error, or INTERNAL_ERROR.
func CodeOf(err error) string {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code
	}
	return ErrInternal.Code
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return StatusForCode(CodeOf(err))
}

// StatusForCode maps a domain error code to an HTTP status code.
func StatusForCode(code string) int {
	switch code {
	// 400 Bad Request
	case "INVALID_INPUT", "UNKNOWN_FILTER", "INVALID_FILTER_VALUE", "UNKNOWN_FETCH",
		"UNKNOWN_SORT_FIELD", "MUTUALLY_EXCLUSIVE_FILTERS":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "SESSION_INVALID", "SUBJECT_INACTIVE":
		return http.StatusUnauthorized

	// 403 Forbidden
	case "PERMISSION_DENIED", "SYSTEM_ENTITY", "SELF_DELETION":
		return http.StatusForbidden

	// 404 Not Found
	case "NOT_FOUND", "UNKNOWN_METHOD":
		return http.StatusNotFound

	// 409 Conflict
	case "ALREADY_EXISTS", "INVALID_STATE":
		return http.StatusConflict

	// 503 Service Unavailable
	case "SERVICE_UNAVAILABLE":
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GRPCCodeForCode maps a domain error code to a gRPC status code.
func GRPCCodeForCode(code string) codes.Code {
	switch StatusForCode(code) {
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusConflict:
		return codes.FailedPrecondition
	case http.StatusServiceUnavailable:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}

// AllMessages joins the messages of every domain error in the chain with " -> ".
// Errors that are not domain errors contribute nothing, so driver and library
// details never reach a client. An empty string means no domain message was found.
func AllMessages(err error) string {
	var messages []string
	for err != nil {
		if domainErr, ok := err.(*DomainError); ok {
			if len(messages) == 0 || messages[len(messages)-1] != domainErr.Message {
				messages = append(messages, domainErr.Message)
			}
		}
		err = errors.Unwrap(err)
	}
	return strings.Join(messages, " -> ")
}
