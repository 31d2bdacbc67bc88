// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/cricket-tui/internal/util"
)

// DefaultTitle is the title of a conversation before its first user message
// names it.
const DefaultTitle = "New Chat"

// TitleRunes is how many characters of the first user message become the
// auto-derived conversation title.
const TitleRunes = 28

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a named, ordered thread of messages with lifecycle
// metadata. Timestamps are epoch milliseconds.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt int64     `json:"createdAt"`
	UpdatedAt int64     `json:"updatedAt"`
	Pinned    bool      `json:"pinned,omitempty"`
}

// NewConversation creates an empty conversation with a time-based ID and the
// default title.
func NewConversation() Conversation {
	now := time.Now().UnixMilli()
	return Conversation{
		ID:        "c-" + strconv.FormatInt(now, 10),
		Title:     DefaultTitle,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewConversationWithID creates an empty conversation with a fixed ID. Used
// for the initial default conversation so a fresh install is deterministic.
func NewConversationWithID(id string) Conversation {
	conv := NewConversation()
	conv.ID = id
	return conv
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the conversation. The message ID is the message
// count at the time of append, the title is derived from the first user
// message if still default, and UpdatedAt is refreshed (never moving
// backwards).
func (c *Conversation) Append(author Author, text string) Message {
	msg := NewMessage(author, text)
	msg.ID = len(c.Messages)
	c.Messages = append(c.Messages, msg)

	if len(c.Messages) == 1 && c.Title == DefaultTitle && author == AuthorUser {
		c.Title = DeriveTitle(text)
	}
	c.touch()

	return msg
}

// touch refreshes UpdatedAt, keeping it monotonically non-decreasing even if
// the wall clock stepped backwards.
func (c *Conversation) touch() {
	now := time.Now().UnixMilli()
	if now < c.UpdatedAt {
		now = c.UpdatedAt
	}
	c.UpdatedAt = now
}

// LastMessage returns the most recent message and whether one exists.
func (c *Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// History returns a copy of the message slice. Callers may hold it across a
// later append without observing the mutation.
func (c *Conversation) History() []Message {
	history := make([]Message, len(c.Messages))
	copy(history, c.Messages)
	return history
}

// Clone returns a deep copy of the conversation. Messages are value types,
// so copying the slice is sufficient.
func (c *Conversation) Clone() Conversation {
	clone := *c
	clone.Messages = make([]Message, len(c.Messages))
	copy(clone.Messages, c.Messages)
	return clone
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// DeriveTitle produces a conversation title from the first user message:
// the first TitleRunes characters of the trimmed text, falling back to the
// default title when empty.
func DeriveTitle(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return DefaultTitle
	}
	return util.TruncateRunesNoEllipsis(trimmed, TitleRunes)
}

// Rename sets the title to the trimmed value. Empty or whitespace-only input
// is a no-op; returns whether the title changed.
func (c *Conversation) Rename(title string) bool {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return false
	}
	c.Title = trimmed
	return true
}

// Preview returns a short single-line preview of the latest message, or a
// placeholder for an empty conversation.
func (c *Conversation) Preview(maxRunes int) string {
	last, ok := c.LastMessage()
	if !ok {
		return "No messages yet"
	}
	return util.TruncateRunes(util.CollapseNewlines(last.Text), maxRunes)
}

// =============================================================================
// COLLECTION ORDERING
// =============================================================================

// Normalize sorts a conversation collection in place per the display order
// rule: pinned conversations first (stable among themselves), then
// descending UpdatedAt. It returns the slice for chaining.
//
// Mutating operations on the collection apply Normalize before persisting so
// the stored order always matches the displayed order.
func Normalize(conversations []Conversation) []Conversation {
	sort.SliceStable(conversations, func(i, j int) bool {
		if conversations[i].Pinned != conversations[j].Pinned {
			return conversations[i].Pinned
		}
		return conversations[i].UpdatedAt > conversations[j].UpdatedAt
	})
	return conversations
}
