package handlers

import (
	"context"
	"cuentas_claras/internal/apperrors"
	"cuentas_claras/internal/metrics"
	"cuentas_claras/pkg/utils"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const maxBodyBytes = 1 << 20

// DecodeJSON reads a single JSON object into dst, rejecting unknown fields.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.Validation("body", "request body is empty")
		}
		return apperrors.Validation("body", "invalid request body: %v", err)
	}
	if decoder.More() {
		return apperrors.Validation("body", "request body must contain a single JSON object")
	}
	return nil
}

// PathID parses the {name} wildcard of the matched route as a positive id.
func PathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation(name, "invalid id %q", raw)
	}
	return id, nil
}

// QueryID parses an optional id query parameter; absent means zero.
func QueryID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation(name, "invalid id %q", raw)
	}
	return id, nil
}

// WithTimeout bounds the work a handler does on behalf of r.
func WithTimeout(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), d)
}

// WriteServiceError maps err to its HTTP status. Server-side failures are
// logged with the request id; their details never reach the client.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := apperrors.HTTPStatus(err)
	if errors.Is(err, context.DeadlineExceeded) {
		status, message = http.StatusServiceUnavailable, "request timed out"
	}

	if status >= http.StatusInternalServerError {
		entry := utils.LoggerFrom(r.Context()).WithError(err).WithField("route", r.Pattern)
		if apperrors.IsComputation(err) {
			metrics.ComputationErrors.WithLabelValues(r.Pattern).Inc()
			entry.Error("ledger invariant violated")
		} else {
			entry.Error("request failed")
		}
	}
	utils.WriteError(w, message, status)
}

// WriteDeleted is the body of a successful DELETE.
func WriteDeleted(w http.ResponseWriter, what string) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": what + " deleted successfully",
	})
}
