// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage owns the ordered conversation collection and the current
// selection for cricket-tui.
//
// The store is read-initialized once from the key-value adapter and then
// written through on every mutation: each operation computes the new state,
// normalizes the collection order (pinned first, then most recently
// updated), persists both keys synchronously, and finally notifies the
// observer. In-memory and persisted state never diverge observably.
//
// # Key Types
//
//   - ConversationStore: mutation API over the collection and selection
//
// # Persisted Keys
//
//   - "chatbot-conversations": the conversation collection
//   - "chatbot-selectedId": the selected conversation ID
//
// All operations are total: unknown conversation IDs are silently ignored.
package storage
