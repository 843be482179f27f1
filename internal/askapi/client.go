// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package askapi provides the HTTP client for the Madhava Q&A service.
package askapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrRequestFailed is the single failure kind surfaced to users.
// Every *ClientError matches it with errors.Is.
var ErrRequestFailed = errors.New("request failed")

// ErrorType categorizes client errors for logging.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeStatus
	ErrTypeInvalidResponse
)

// String returns a short name for the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeConnection:
		return "connection"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeStatus:
		return "status"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// ClientError represents an error from the ask client.
type ClientError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Cause      error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is makes every ClientError match ErrRequestFailed.
func (e *ClientError) Is(target error) bool {
	return target == ErrRequestFailed
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:5000"

	// DefaultPath is the ask endpoint path.
	DefaultPath = "/api/ask"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 4 << 20
)

// ClientConfig holds configuration options for the ask client.
type ClientConfig struct {
	// BaseURL of the Q&A service (default: http://localhost:5000)
	BaseURL string

	// Path of the ask endpoint (default: /api/ask)
	Path string

	// Timeout per request; 0 leaves hangs to the transport (default: 0)
	Timeout time.Duration

	// UserAgent sent with each request (optional)
	UserAgent string

	// HTTPClient overrides the underlying client (optional, for tests)
	HTTPClient *http.Client
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: DefaultBaseURL,
		Path:    DefaultPath,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the ask endpoint. It is safe for concurrent use.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
}

// NewClient creates a client with the default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client with a custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	if !strings.HasPrefix(cfg.Path, "/") {
		cfg.Path = "/" + cfg.Path
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Endpoint returns the full ask URL.
func (c *Client) Endpoint() string {
	return c.config.BaseURL + c.config.Path
}

// =============================================================================
// ASK
// =============================================================================

// Ask posts the question and returns the answer. Exactly one HTTP request is
// made per call.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	body, err := json.Marshal(AskRequest{Question: question})
	if err != nil {
		return "", &ClientError{Type: ErrTypeUnknown, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
		}
		return "", &ClientError{Type: ErrTypeConnection, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &ClientError{
			Type:       ErrTypeStatus,
			Message:    fmt.Sprintf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(snippet))),
			StatusCode: resp.StatusCode,
		}
	}

	var out AskResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return "", &ClientError{
			Type:       ErrTypeInvalidResponse,
			Message:    "failed to decode response",
			StatusCode: resp.StatusCode,
			Cause:      err,
		}
	}
	if out.Answer == nil {
		return "", &ClientError{
			Type:       ErrTypeInvalidResponse,
			Message:    "response has no answer",
			StatusCode: resp.StatusCode,
		}
	}

	return *out.Answer, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
