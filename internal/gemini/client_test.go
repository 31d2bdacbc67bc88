// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jeranaias/cricket-tui/internal/model"
)

// newTestClient points a client at a test server with a generous local
// rate limit so tests never block on the limiter.
func newTestClient(serverURL string) *Client {
	return NewClientWithConfig(&ClientConfig{
		APIKey:            "test-key",
		BaseURL:           serverURL,
		Model:             "gemini-2.0-flash-exp",
		Timeout:           5 * time.Second,
		RequestsPerMinute: 6000,
	})
}

func textResponse(text string) GenerateContentResponse {
	return GenerateContentResponse{
		Candidates: []Candidate{
			{Content: Content{Role: "model", Parts: []Part{{Text: text}}}},
		},
	}
}

func TestGenerate_Success(t *testing.T) {
	var captured GenerateContentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-2.0-flash-exp:generateContent" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(textResponse("India won in 2011."))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	history := []model.Message{
		{ID: 0, Author: model.AuthorUser, Text: "Tell me about World Cups"},
		{ID: 1, Author: model.AuthorAssistant, Text: "Which edition?"},
	}

	reply, err := client.Generate(context.Background(), "Who won in 2011?", history)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if reply != "India won in 2011." {
		t.Errorf("reply = %q", reply)
	}

	// History roles map User->user, Assistant->model; current message last
	if len(captured.Contents) != 3 {
		t.Fatalf("contents length = %d, want 3", len(captured.Contents))
	}
	if captured.Contents[0].Role != "user" || captured.Contents[1].Role != "model" {
		t.Errorf("history roles = %q, %q", captured.Contents[0].Role, captured.Contents[1].Role)
	}
	last := captured.Contents[2]
	if last.Role != "user" || last.Parts[0].Text != "Who won in 2011?" {
		t.Errorf("current turn = %+v", last)
	}
	if captured.SystemInstruction == nil || captured.SystemInstruction.Parts[0].Text == "" {
		t.Error("system instruction missing")
	}
}

func TestGenerate_EmptyCandidatesYieldsEmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GenerateContentResponse{})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	reply, err := client.Generate(context.Background(), "blocked", nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if reply != "" {
		t.Errorf("reply = %q, want empty", reply)
	}
}

func TestGenerate_MissingKey(t *testing.T) {
	client := NewClient("")

	_, err := client.Generate(context.Background(), "hello", nil)
	if !errors.Is(err, ErrMissingKey) {
		t.Errorf("err = %v, want ErrMissingKey", err)
	}
}

func TestGenerate_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Generate(context.Background(), "hello", nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestGenerate_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Generate(context.Background(), "hello", nil)
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}

func TestGenerate_APIErrorMessageSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"invalid request","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Generate(context.Background(), "hello", nil)
	if err == nil || err.Error() != "invalid request" {
		t.Errorf("err = %v, want API message", err)
	}
}

func TestGenerate_MultiPartCandidateConcatenated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GenerateContentResponse{
			Candidates: []Candidate{
				{Content: Content{Parts: []Part{{Text: "A googly "}, {Text: "is a deception."}}}},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	reply, err := client.Generate(context.Background(), "What is a googly?", nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if reply != "A googly is a deception." {
		t.Errorf("reply = %q", reply)
	}
}
