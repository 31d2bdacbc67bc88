// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-TUI command surface: argument parsing,
// the one-shot ask command, the line-oriented chat REPL for terminals
// where the full-screen interface is unwanted, and conversation export.
package cli
