// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

// =============================================================================
// REQUEST TYPES
// =============================================================================

// Part is a single piece of content. Only text parts are used here.
type Part struct {
	Text string `json:"text"`
}

// Content is a turn in the wire conversation. Role is "user" or "model";
// the system instruction omits the role.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerateContentRequest is the request body for the
// models/<model>:generateContent endpoint.
type GenerateContentRequest struct {
	SystemInstruction *Content  `json:"systemInstruction,omitempty"`
	Contents          []Content `json:"contents"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// Candidate is one generated answer.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// GenerateContentResponse is the success body of generateContent. A blocked
// or empty generation carries no candidates.
type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// APIError is the error body the API returns with a non-200 status.
type APIError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
