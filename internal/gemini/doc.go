// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the HTTP client for the Google generative
// language API, specialized to the cricket assistant.
//
// The client sends non-streaming generateContent requests with a fixed
// cricket system instruction. Conversation history is supplied by the
// caller already bounded; the client only maps authors to wire roles and
// shapes the request.
package gemini
