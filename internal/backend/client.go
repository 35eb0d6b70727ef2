// Package backend is the HTTP client for the external election API, which owns
// persistence, tallying and key generation.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"voteguard/internal/domain"
	apperrors "voteguard/pkg/errors"
	"voteguard/pkg/logger"
)

// maxErrorBody caps how much of a failed response is read for its message
const maxErrorBody = 64 << 10

// Client handles all interactions with the election API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new election API client
func NewClient(baseURL string, timeout time.Duration, logger *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// errorBody is the backend's error envelope
type errorBody struct {
	Message string `json:"message"`
}

// path joins escaped segments onto /api
func path(segments ...string) string {
	var b strings.Builder
	b.WriteString("/api")
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// do sends one request and decodes a 2xx JSON body into out (when out is non-nil).
// Transport failures become network_failure, non-2xx responses backend_rejection.
func (c *Client) do(ctx context.Context, method, p string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternalError("failed to encode request body", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+p, reader)
	if err != nil {
		return apperrors.NewInternalError("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s := domain.SessionFromContext(ctx); s != nil && s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"method": method,
			"path":   p,
		}).WithError(err).Warn("Election API unreachable")
		return apperrors.NewNetworkError("election service is unreachable", err)
	}
	defer resp.Body.Close()

	log := c.logger.WithFields(map[string]interface{}{
		"method":      method,
		"path":        p,
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var eb errorBody
		message := strings.TrimSpace(string(raw))
		if err := json.Unmarshal(raw, &eb); err == nil && eb.Message != "" {
			message = eb.Message
		}
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		log.WithField("message", message).Info("Election API rejected request")
		return apperrors.NewBackendRejection(message, resp.StatusCode)
	}

	log.Debug("Election API call succeeded")

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		log.WithError(err).Error("Failed to parse election API response")
		return apperrors.NewInternalError("failed to parse election service response", err)
	}
	return nil
}

// StatusOf returns the backend HTTP status carried by a backend_rejection error, or 0
func StatusOf(err error) int {
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Type != apperrors.ErrorTypeBackendRejection {
		return 0
	}
	status, _ := appErr.Details["backend_status"].(int)
	return status
}

func (c *Client) get(ctx context.Context, p string, out interface{}) error {
	return c.do(ctx, http.MethodGet, p, nil, out)
}

func (c *Client) put(ctx context.Context, p string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, p, body, out)
}

func (c *Client) post(ctx context.Context, p string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, p, body, out)
}

func (c *Client) delete(ctx context.Context, p string) error {
	return c.do(ctx, http.MethodDelete, p, nil, nil)
}

// Health checks that the election API answers at all. Any HTTP response counts.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("election API unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}
