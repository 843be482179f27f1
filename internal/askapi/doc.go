// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package askapi provides the HTTP client for the Madhava Q&A service.
//
// The service exposes a single endpoint:
//
//	POST {baseURL}/api/ask
//	{"question": "..."}  ->  {"answer": "..."}
//
// Every failure (transport error, non-2xx status, malformed body, missing
// answer) is reported as a *ClientError that matches ErrRequestFailed with
// errors.Is. The Type field keeps the detail for logging; callers that talk
// to the user treat all failures alike.
//
// The client never retries and, unless ClientConfig.Timeout is set, relies
// on the transport's defaults for hangs.
//
// # Usage
//
//	client := askapi.NewClientWithConfig(&askapi.ClientConfig{
//	    BaseURL: "http://localhost:5000",
//	})
//	answer, err := client.Ask(ctx, "What is karma yoga?")
//	if errors.Is(err, askapi.ErrRequestFailed) {
//	    // show the apology
//	}
package askapi
