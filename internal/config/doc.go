// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for
// cricket-tui.
//
// Configuration lives in a single TOML file with sensible defaults,
// environment variable overrides, and validation. A filesystem watcher
// can reload the file while the application is running.
//
// Resolution order:
//   - ~/.cricket-tui/config.toml
//   - Built-in defaults
//
// Environment overrides (applied last):
//   - GEMINI_API_KEY sets gemini.api_key
//   - CRICKET_TUI_DATA_DIR sets storage.data_dir
package config
