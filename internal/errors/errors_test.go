package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/grpc/codes"
)

func TestDomainErrorIsMatchesByCode(t *testing.T) {
	wrapped := WrapError(ErrNotFound, errors.New("record not found"))

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("expected wrapped error to match ErrNotFound")
	}
	if errors.Is(wrapped, ErrInvalidInput) {
		t.Error("expected wrapped error not to match ErrInvalidInput")
	}

	detailed := Detail(ErrPermissionDenied, "MANAGE_ALERTS required on resource %d", 10)
	if !errors.Is(fmt.Errorf("shim: %w", detailed), ErrPermissionDenied) {
		t.Error("expected detailed error to match through fmt wrapping")
	}
	if detailed.Message != "MANAGE_ALERTS required on resource 10" {
		t.Errorf("unexpected message %q", detailed.Message)
	}
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"exclusive filters", ErrMutuallyExclusiveFilters, http.StatusBadRequest},
		{"session", ErrSessionInvalid, http.StatusUnauthorized},
		{"permission", ErrPermissionDenied, http.StatusForbidden},
		{"not found", WrapError(ErrNotFound, errors.New("x")), http.StatusNotFound},
		{"conflict", ErrAlreadyExists, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToHTTPStatus(tt.err); got != tt.want {
				t.Errorf("ToHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGRPCCodeForCode(t *testing.T) {
	if got := GRPCCodeForCode(ErrSessionInvalid.Code); got != codes.Unauthenticated {
		t.Errorf("expected Unauthenticated, got %v", got)
	}
	if got := GRPCCodeForCode(ErrInvalidState.Code); got != codes.FailedPrecondition {
		t.Errorf("expected FailedPrecondition, got %v", got)
	}
	if got := GRPCCodeForCode("SOMETHING_ELSE"); got != codes.Internal {
		t.Errorf("expected Internal, got %v", got)
	}
}

func TestAllMessages(t *testing.T) {
	driverErr := errors.New("pq: duplicate key value violates unique constraint")
	inner := WrapError(ErrAlreadyExists, driverErr)
	outer := WrapError(Detail(ErrInvalidInput, "cannot create subject"), inner)

	if got := AllMessages(outer); got != "cannot create subject -> entity already exists" {
		t.Errorf("unexpected message chain %q", got)
	}
	if got := AllMessages(driverErr); got != "" {
		t.Errorf("expected empty chain for non-domain error, got %q", got)
	}
	if got := AllMessages(nil); got != "" {
		t.Errorf("expected empty chain for nil, got %q", got)
	}
}
