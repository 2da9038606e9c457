package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", Validation("amount", "must be greater than 0"), http.StatusBadRequest, "amount: must be greater than 0"},
		{"validation without field", Validation("", "bad body"), http.StatusBadRequest, "bad body"},
		{"not found", NotFound("debt", 7), http.StatusNotFound, "debt 7 not found"},
		{"invalid state", InvalidState("debt %d is already paid", 3), http.StatusConflict, "debt 3 is already paid"},
		{"computation hides cause", Computation("debts do not reconcile"), http.StatusInternalServerError, "internal server error"},
		{"wrapped not found", fmt.Errorf("loading: %w", NotFound("event", 1)), http.StatusNotFound, "loading: event 1 not found"},
		{"plain error", errors.New("db down"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := HTTPStatus(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if msg != tt.wantMsg {
				t.Errorf("message = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestKindPredicates(t *testing.T) {
	err := fmt.Errorf("create expense: %w", Computation("sum mismatch"))
	if !IsComputation(err) {
		t.Error("expected wrapped computation error to be detected")
	}
	if IsValidation(err) || IsNotFound(err) || IsInvalidState(err) {
		t.Error("computation error matched another kind")
	}
}
