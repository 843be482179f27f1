// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package askapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, NewClientWithConfig(&ClientConfig{BaseURL: server.URL})
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestNewClientWithConfig_Defaults(t *testing.T) {
	c := NewClientWithConfig(nil)
	assert.Equal(t, "http://localhost:5000", c.BaseURL())
	assert.Equal(t, "http://localhost:5000/api/ask", c.Endpoint())

	c = NewClientWithConfig(&ClientConfig{BaseURL: "https://madhava.example/", Path: "api/ask"})
	assert.Equal(t, "https://madhava.example/api/ask", c.Endpoint())
}

// =============================================================================
// ASK TESTS
// =============================================================================

func TestAsk_Success(t *testing.T) {
	var calls atomic.Int32
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ask", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"question": "What is karma yoga?"}, body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":"Karma yoga is...","sources":["BG 3.8"]}`))
	})

	answer, err := client.Ask(context.Background(), "What is karma yoga?")
	require.NoError(t, err)
	assert.Equal(t, "Karma yoga is...", answer)
	assert.EqualValues(t, 1, calls.Load())
}

func TestAsk_EmptyAnswerIsValid(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"answer":""}`))
	})

	answer, err := client.Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.Empty(t, answer)
}

func TestAsk_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType ErrorType
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, ErrTypeStatus},
		{"not found", http.StatusNotFound, ``, ErrTypeStatus},
		{"malformed json", http.StatusOK, `{"answer":`, ErrTypeInvalidResponse},
		{"missing answer", http.StatusOK, `{"result":"x"}`, ErrTypeInvalidResponse},
		{"null answer", http.StatusOK, `{"answer":null}`, ErrTypeInvalidResponse},
		{"non-string answer", http.StatusOK, `{"answer":42}`, ErrTypeInvalidResponse},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var calls atomic.Int32
			_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := client.Ask(context.Background(), "q")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRequestFailed)

			var ce *ClientError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tc.wantType, ce.Type)
			assert.EqualValues(t, 1, calls.Load(), "no retries")
		})
	}
}

func TestAsk_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: url})
	_, err := client.Ask(context.Background(), "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)

	var ce *ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrTypeConnection, ce.Type)
}

func TestAsk_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	client := NewClientWithConfig(&ClientConfig{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	_, err := client.Ask(context.Background(), "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)

	var ce *ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrTypeTimeout, ce.Type)
}

func TestAsk_ContextCancelled(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"answer":"late"}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Ask(ctx, "q")
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "timeout", ErrTypeTimeout.String())
	assert.Equal(t, "status", ErrTypeStatus.String())
	assert.Equal(t, "unknown", ErrorType(99).String())
}
