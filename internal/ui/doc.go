// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the interactive terminal interface: a login form
// gating the session, the chat view with its message transcript and input
// line, and a conversation drawer for switching, pinning, renaming, and
// deleting threads.
//
// The package follows the Model-View-Update architecture of Bubble Tea. A
// single root model owns the active screen; AI turns run off the update
// loop as commands and report back as messages.
package ui
