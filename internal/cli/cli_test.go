// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	args, err := Parse(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if args.Command != CmdTUI {
		t.Errorf("default command = %v, want CmdTUI", args.Command)
	}
	if args.ExportFormat != "markdown" {
		t.Errorf("default export format = %q, want markdown", args.ExportFormat)
	}
}

func TestParse_Ask(t *testing.T) {
	args, err := Parse([]string{"ask", "who", "bowled", "the", "ball", "of", "the", "century?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if args.Command != CmdAsk {
		t.Fatalf("command = %v, want CmdAsk", args.Command)
	}
	if args.Question != "who bowled the ball of the century?" {
		t.Errorf("question = %q", args.Question)
	}
}

func TestParse_AskWithoutQuestion(t *testing.T) {
	_, err := Parse([]string{"ask"})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestParse_ExportFlags(t *testing.T) {
	args, err := Parse([]string{"export", "--format=json", "out.json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if args.Command != CmdExport {
		t.Fatalf("command = %v, want CmdExport", args.Command)
	}
	if args.ExportFormat != "json" {
		t.Errorf("format = %q, want json", args.ExportFormat)
	}
	if args.ExportPath != "out.json" {
		t.Errorf("path = %q, want out.json", args.ExportPath)
	}
}

func TestParse_ExportBadFormat(t *testing.T) {
	_, err := Parse([]string{"export", "--format", "pdf"})
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParse_GlobalConfigFlag(t *testing.T) {
	args, err := Parse([]string{"--config", "/tmp/alt.toml", "chat"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if args.ConfigPath != "/tmp/alt.toml" {
		t.Errorf("config path = %q", args.ConfigPath)
	}
	if args.Command != CmdChat {
		t.Errorf("command = %v, want CmdChat", args.Command)
	}
}

func TestParse_UnknownCommand(t *testing.T) {
	_, err := Parse([]string{"frobnicate"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"validation", &ValidationError{Field: "x", Reason: "bad"}, ExitUsageError},
		{"not found", &NotFoundError{Resource: "conversation", ID: "c-9"}, ExitNotFoundError},
		{"tty", &TTYRequiredError{Operation: "chat"}, ExitUsageError},
		{"config", errors.New("config file unreadable"), ExitConfigError},
		{"timeout", errors.New("context deadline exceeded"), ExitTimeoutError},
		{"network", errors.New("dial tcp: connection refused"), ExitNetworkError},
		{"generic", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestGetExitCode_WrappedValidation(t *testing.T) {
	err := WrapError(&ValidationError{Field: "format", Reason: "unsupported"}, "export")
	if got := GetExitCode(err); got != ExitUsageError {
		t.Errorf("wrapped validation error = %d, want %d", got, ExitUsageError)
	}
}
