// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/cricket-tui/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the Gemini client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
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

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeMissingKey
	ErrTypeTimeout
	ErrTypeConnection
	ErrTypeUnauthorized
	ErrTypeRateLimited
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrMissingKey   = &ClientError{Type: ErrTypeMissingKey, Message: "Gemini API key is not configured"}
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrUnauthorized = &ClientError{Type: ErrTypeUnauthorized, Message: "Gemini API key was rejected"}
	ErrRateLimited  = &ClientError{Type: ErrTypeRateLimited, Message: "Gemini API rate limit exceeded"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the Gemini client.
type ClientConfig struct {
	// APIKey authenticates against the generative language API.
	APIKey string

	// BaseURL is the API base URL (default: the public v1beta endpoint).
	BaseURL string

	// Model is the generation model (default: "gemini-2.0-flash-exp").
	Model string

	// Timeout for generateContent requests (default: 60s).
	Timeout time.Duration

	// RequestsPerMinute caps outgoing requests client-side (default: 30).
	RequestsPerMinute int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "https://generativelanguage.googleapis.com/v1beta",
		Model:             "gemini-2.0-flash-exp",
		Timeout:           60 * time.Second,
		RequestsPerMinute: 30,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the generative language API.
//
// The Client is thread-safe for concurrent use, though the turn controller
// serializes calls in practice.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Gemini client for the given API key with defaults.
func NewClient(apiKey string) *Client {
	config := DefaultConfig()
	config.APIKey = apiKey
	return NewClientWithConfig(config)
}

// NewClientWithConfig creates a Gemini client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if config.Model == "" {
		config.Model = "gemini-2.0-flash-exp"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.RequestsPerMinute == 0 {
		config.RequestsPerMinute = 30
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RequestsPerMinute)), 1),
	}
}

// Model returns the configured generation model.
func (c *Client) Model() string {
	return c.config.Model
}

// =============================================================================
// GENERATION
// =============================================================================

// Generate sends the user's message with bounded conversation history and
// returns the assistant's reply text.
//
// History entries map to wire roles by author ("User" becomes "user",
// anything else "model"); the current user message is appended as the final
// user turn, so callers must pass the history as it existed before the
// message was added. An empty reply with a nil error means the model
// produced no usable text; the caller decides the fallback.
func (c *Client) Generate(ctx context.Context, userMessage string, history []model.Message) (string, error) {
	if c.config.APIKey == "" {
		return "", ErrMissingKey
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "rate limiter wait aborted", Cause: err}
	}

	contents := make([]Content, 0, len(history)+1)
	for _, msg := range history {
		contents = append(contents, Content{
			Role:  msg.Author.Role(),
			Parts: []Part{{Text: msg.Text}},
		})
	}
	contents = append(contents, Content{
		Role:  "user",
		Parts: []Part{{Text: userMessage}},
	})

	reqBody := GenerateContentRequest{
		SystemInstruction: &Content{Parts: []Part{{Text: CricketSystemInstruction}}},
		Contents:          contents,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	url := c.config.BaseURL + "/models/" + c.config.Model + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", &ClientError{Type: ErrTypeConnection, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", ErrUnauthorized
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	default:
		var apiErr APIError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return "", &ClientError{Type: ErrTypeInvalidResponse, Message: apiErr.Error.Message}
		}
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "generation request failed: " + resp.Status}
	}

	var result GenerateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return firstText(&result), nil
}

// firstText extracts the text of the first candidate, concatenating its
// parts. Returns "" when the generation was blocked or empty.
func firstText(resp *GenerateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		out += part.Text
	}
	return out
}
