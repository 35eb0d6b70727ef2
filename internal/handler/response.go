package handler

import (
	"context"
	"crypto/md5"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"voteguard/internal/middleware"
	"voteguard/pkg/errors"
	"voteguard/pkg/logger"
)

// requestTimeout bounds every non-streaming route
const requestTimeout = 60 * time.Second

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

var withTimeout = chiMiddleware.Timeout(requestTimeout)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes err as the JSON error envelope. Errors that are not AppErrors
// are logged and reported as internal.
func respondError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		switch {
		case stderrors.Is(err, context.DeadlineExceeded):
			appErr = errors.NewNetworkError("election service timed out", err)
			appErr.StatusCode = http.StatusGatewayTimeout
		case stderrors.Is(err, context.Canceled):
			// Client went away; nobody reads the response.
			return
		default:
			appErr = errors.NewInternalError("Internal server error", err)
		}
	}

	entry := log.WithFields(map[string]interface{}{
		"request_id": middleware.GetRequestID(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
		"status":     appErr.StatusCode,
		"error_type": appErr.Type,
	}).WithError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Info("Request rejected")
	}

	response := &errors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.RequestID = middleware.GetRequestID(r.Context())
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	respondJSON(w, appErr.StatusCode, response)
}

// decodeJSON decodes a size-limited request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.NewValidationError("Invalid request body", map[string]interface{}{
			"body": err.Error(),
		})
	}
	return nil
}

// generateETag hashes the JSON form of data
func generateETag(data interface{}) string {
	raw, _ := json.Marshal(data)
	return fmt.Sprintf(`"%x"`, md5.Sum(raw))
}

// dateTimeLayouts are accepted for election start and end. Values without a zone are UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseDateTime accepts RFC 3339 and the zone-less forms datetime inputs produce.
// An empty string yields the zero time.
func parseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date-time %q", s)
}
