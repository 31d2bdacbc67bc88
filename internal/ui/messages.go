// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cricket-tui/internal/model"
	"github.com/jeranaias/cricket-tui/internal/turn"
)

// turnTimeout bounds a single generation round-trip from the interface's
// point of view. The client carries its own per-request timeout; this is
// the outer ceiling.
const turnTimeout = 90 * time.Second

// =============================================================================
// MESSAGES
// =============================================================================

// loginSubmittedMsg carries a validated identity from the login form.
type loginSubmittedMsg struct {
	user model.User
}

// loggedOutMsg signals that the session was ended and state wiped.
type loggedOutMsg struct{}

// turnFinishedMsg signals that an AI turn completed and the reply (or the
// fixed error text) is in the store.
type turnFinishedMsg struct {
	conversationID string
}

// storeChangedMsg signals that the conversation store mutated outside a
// keypress, e.g. the async half of a turn appending its reply.
type storeChangedMsg struct{}

// =============================================================================
// COMMANDS
// =============================================================================

// runTurn executes the asynchronous half of an accepted turn off the update
// loop. The reply attaches to the turn's pinned conversation even if the
// selection moved meanwhile.
func runTurn(t *turn.Turn) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()
		t.Run(ctx)
		return turnFinishedMsg{conversationID: t.ConversationID()}
	}
}
