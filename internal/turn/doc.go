// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package turn orchestrates one user-submission-to-assistant-reply cycle.
//
// A turn splits into a synchronous half (validate, mark pending, append the
// user message, capture the bounded history) and an asynchronous half (call
// the generator, append the reply or a fixed error bubble, clear pending).
// The split lets the presentation layer show the user message immediately
// and run the network call off its event loop.
//
// Failures never escape a turn: the generator's error is absorbed into the
// conversation as a visible assistant message, and the pending flag clears
// on every path.
package turn
