// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// AUTHOR TYPE
// =============================================================================

// Author identifies the sender of a message.
type Author string

const (
	AuthorUser      Author = "User"
	AuthorAssistant Author = "Assistant"
)

// String returns the string representation of the author.
func (a Author) String() string {
	return string(a)
}

// Role maps the author to the wire role expected by the generation API:
// "user" for the user, "model" for everything else.
func (a Author) Role() string {
	if a == AuthorUser {
		return "user"
	}
	return "model"
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in a conversation. Messages are immutable once
// appended.
//
// ID is the 0-based sequence position of the message within its conversation
// at the time of append. It is not globally unique and is never renumbered.
type Message struct {
	ID        int    `json:"id"`
	Author    Author `json:"author"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp,omitempty"` // epoch milliseconds
}

// NewMessage creates a message stamped with the current time. The caller
// assigns the sequence ID on append.
func NewMessage(author Author, text string) Message {
	return Message{
		Author:    author,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Time returns the message timestamp as a time.Time.
func (m Message) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}
