// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package askapi

// AskRequest is the JSON body sent to the ask endpoint.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is the JSON body returned by the ask endpoint.
// Fields other than answer are ignored.
type AskResponse struct {
	Answer *string `json:"answer"`
}
