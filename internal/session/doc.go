// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the current user's display identity and its
// lifecycle. Logging out is a full reset: it clears the identity and every
// cascade key handed to the store, so conversations do not survive across
// identities.
package session
