// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package kv

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGet_AbsentReturnsFallback(t *testing.T) {
	store := newTestStore(t)

	got := Get(store, "missing", "default")
	if got != "default" {
		t.Errorf("Get = %q, want %q", got, "default")
	}
}

func TestSetGet_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	type identity struct {
		Email    string `json:"email"`
		FullName string `json:"fullName"`
	}

	Set(store, "cricket-chatbot-user", identity{Email: "sachin@example.com", FullName: "Sachin"})

	got := Get(store, "cricket-chatbot-user", identity{})
	if got.Email != "sachin@example.com" || got.FullName != "Sachin" {
		t.Errorf("Get = %+v", got)
	}
}

func TestSet_OverwritesPrevious(t *testing.T) {
	store := newTestStore(t)

	Set(store, "chatbot-selectedId", "c-1")
	Set(store, "chatbot-selectedId", "c-2")

	if got := Get(store, "chatbot-selectedId", ""); got != "c-2" {
		t.Errorf("Get = %q, want %q", got, "c-2")
	}
}

func TestGet_MalformedValueReturnsFallback(t *testing.T) {
	store := newTestStore(t)

	store.SetRaw("chatbot-conversations", "{not json")

	got := Get(store, "chatbot-conversations", []string{"fallback"})
	if len(got) != 1 || got[0] != "fallback" {
		t.Errorf("Get = %v, want fallback", got)
	}
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)

	Set(store, "key", 42)
	store.Remove("key")

	if store.Has("key") {
		t.Error("key should be absent after Remove")
	}

	// Removing an absent key is not an error
	store.Remove("never-existed")
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	Set(store, "key", "value")
	store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	if got := Get(reopened, "key", ""); got != "value" {
		t.Errorf("Get after reopen = %q, want %q", got, "value")
	}
}
