// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cricket-tui/internal/ui/styles"
)

// Shared output styles for the non-TUI commands.
var (
	errorStyle   = lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
	promptStyle  = lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	botStyle     = lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(styles.TextMuted)
	successStyle = lipgloss.NewStyle().Foreground(styles.Emerald)
)
