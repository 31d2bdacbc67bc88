// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/jeranaias/cricket-tui/internal/model"
)

// =============================================================================
// CONVERSATION EXPORT
// =============================================================================

// ExportMarkdown renders a conversation as a Markdown document with the
// title, creation time, and all messages labeled by author.
func ExportMarkdown(conv model.Conversation) string {
	var sb strings.Builder
	sb.WriteString("# " + conv.Title + "\n\n")
	sb.WriteString("Created: " + time.UnixMilli(conv.CreatedAt).Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range conv.Messages {
		label := "**" + msg.Author.String() + "**"
		if msg.Timestamp != 0 {
			label += " (" + msg.Time().Format("15:04") + ")"
		}
		sb.WriteString(label + ":\n\n")
		sb.WriteString(msg.Text)
		sb.WriteString("\n\n---\n\n")
	}

	return sb.String()
}

// ExportJSON renders a conversation as pretty-printed JSON.
func ExportJSON(conv model.Conversation) ([]byte, error) {
	return json.MarshalIndent(conv, "", "  ")
}
