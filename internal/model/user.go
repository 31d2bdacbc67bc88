// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// User is the display identity of the logged-in person. Absence of a User
// means logged out. Identity is a client-side display-name gate, not an
// authentication credential.
type User struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}
