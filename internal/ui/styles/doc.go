// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the color palette and Lip Gloss themes for the
// terminal interface. Colors adapt automatically to light and dark terminal
// backgrounds.
package styles
