// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package kv provides the key-value persistence adapter for cricket-tui.
//
// The adapter wraps a local SQLite database as a string-keyed, JSON-valued
// store. Every Set writes through synchronously; there is no batching and no
// debounce, so in-memory state and persisted state never diverge observably.
//
// # Failure tolerance
//
// The adapter never propagates persistence errors to callers. A read or
// parse failure is logged and treated as "absent" (Get returns the supplied
// fallback); a write failure is logged and dropped. Remove is unconditional
// and succeeds whether or not the key exists.
//
// # Usage
//
//	store, err := kv.Open(filepath.Join(dataDir, "state.db"))
//	convs := kv.Get(store, "chatbot-conversations", defaultConvs)
//	kv.Set(store, "chatbot-conversations", convs)
//	store.Remove("chatbot-selectedId")
package kv
