// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package turn

import (
	"context"
	"strings"
	"sync"

	"github.com/jeranaias/cricket-tui/internal/model"
	"github.com/jeranaias/cricket-tui/internal/storage"
)

// HistoryWindow is the maximum number of prior messages forwarded to the
// generator. The just-submitted message is not part of the window; it goes
// out as the explicit current-turn input.
const HistoryWindow = 10

// Fixed assistant texts for degenerate generation outcomes.
const (
	// FallbackReply is appended when generation succeeds with empty text.
	FallbackReply = "I'm having trouble generating a response. Please try again."

	// ErrorReply is appended when the generation call fails.
	ErrorReply = "I'm sorry, I encountered an error. Please try again."
)

// =============================================================================
// GENERATOR CONTRACT
// =============================================================================

// Generator produces an assistant reply for a user message with bounded
// conversation history. The gemini client implements this; tests substitute
// their own.
type Generator interface {
	Generate(ctx context.Context, userMessage string, history []model.Message) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, userMessage string, history []model.Message) (string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, userMessage string, history []model.Message) (string, error) {
	return f(ctx, userMessage, history)
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller serializes AI turns against a conversation store. At most one
// turn is in flight per controller; a submit while pending is a no-op.
type Controller struct {
	mu      sync.Mutex
	pending bool

	store     *storage.ConversationStore
	generator Generator
}

// NewController creates a controller over the given store and generator.
func NewController(store *storage.ConversationStore, generator Generator) *Controller {
	return &Controller{store: store, generator: generator}
}

// SetGenerator replaces the generator used by subsequent turns. A turn that
// already started keeps the generator it was accepted with. The config
// watcher calls this when a reload changes the generation settings.
func (c *Controller) SetGenerator(generator Generator) {
	c.mu.Lock()
	c.generator = generator
	c.mu.Unlock()
}

// Pending reports whether a turn is in flight. The send affordance is
// disabled while this is true.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Turn is an accepted submission ready to run its asynchronous half. It
// pins the originating conversation ID: if the selection changes before the
// reply arrives, the reply still attaches to the conversation that asked.
type Turn struct {
	controller *Controller
	generator  Generator

	conversationID string
	userMessage    string
	history        []model.Message
}

// Start runs the synchronous half of the turn protocol: it rejects empty
// input and concurrent turns, marks the controller pending, appends the
// trimmed user message to the selected conversation, and captures the
// bounded history as it existed before that append.
//
// On acceptance the caller owns completing the turn via Run; the user
// message is already visible in the store when Start returns.
func (c *Controller) Start(text string) (*Turn, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return nil, false
	}
	c.pending = true
	generator := c.generator
	c.mu.Unlock()

	conversationID := c.store.SelectedID()
	history, ok := c.store.History(conversationID)
	if !ok {
		// Selection should always resolve; bail out rather than lose input
		c.finish()
		return nil, false
	}

	c.store.Append(conversationID, model.AuthorUser, trimmed)

	return &Turn{
		controller:     c,
		generator:      generator,
		conversationID: conversationID,
		userMessage:    trimmed,
		history:        boundHistory(history, HistoryWindow),
	}, true
}

// Run executes the asynchronous half: invoke the generator and append the
// assistant reply, the fallback for an empty reply, or the fixed error text
// for a failed call. The pending flag clears on every path.
func (t *Turn) Run(ctx context.Context) {
	defer t.controller.finish()

	reply, err := t.generator.Generate(ctx, t.userMessage, t.history)
	if err != nil {
		t.controller.store.Append(t.conversationID, model.AuthorAssistant, ErrorReply)
		return
	}
	if reply == "" {
		reply = FallbackReply
	}
	t.controller.store.Append(t.conversationID, model.AuthorAssistant, reply)
}

// ConversationID returns the conversation the turn is bound to.
func (t *Turn) ConversationID() string {
	return t.conversationID
}

// Submit runs a complete turn synchronously: Start plus Run. Returns false
// when the submission was rejected as a no-op. The CLI uses this directly;
// the TUI splits the halves across its event loop.
func (c *Controller) Submit(ctx context.Context, text string) bool {
	t, ok := c.Start(text)
	if !ok {
		return false
	}
	t.Run(ctx)
	return true
}

func (c *Controller) finish() {
	c.mu.Lock()
	c.pending = false
	c.mu.Unlock()
}

// boundHistory returns the most recent n entries of history.
func boundHistory(history []model.Message, n int) []model.Message {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
