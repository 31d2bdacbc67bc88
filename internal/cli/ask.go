// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/cricket-tui/internal/config"
	"github.com/jeranaias/cricket-tui/internal/gemini"
)

// HandleAsk answers a single question and exits. No conversation state is
// read or written; the question goes out with empty history.
func HandleAsk(args Args, cfg *config.Config) error {
	client := NewGeminiClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Gemini.TimeoutSecs)*time.Second)
	defer cancel()

	reply, err := client.Generate(ctx, args.Question, nil)
	if err != nil {
		return WrapError(err, "generation failed")
	}

	fmt.Println(renderMarkdown(reply))
	return nil
}

// NewGeminiClient builds a generation client from the loaded configuration.
func NewGeminiClient(cfg *config.Config) *gemini.Client {
	return gemini.NewClientWithConfig(&gemini.ClientConfig{
		APIKey:            cfg.Gemini.APIKey,
		BaseURL:           cfg.Gemini.BaseURL,
		Model:             cfg.Gemini.Model,
		Timeout:           time.Duration(cfg.Gemini.TimeoutSecs) * time.Second,
		RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
	})
}

// renderMarkdown renders text through Glamour when stdout is a terminal,
// passing it through untouched for pipes and redirects.
func renderMarkdown(text string) string {
	if !IsStdoutTTY() {
		return text
	}

	wrap := GetTerminalWidth() - 4
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return text
	}

	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return out
}
