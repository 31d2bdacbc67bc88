// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"path/filepath"
	"testing"

	"github.com/jeranaias/cricket-tui/internal/kv"
	"github.com/jeranaias/cricket-tui/internal/model"
)

func newTestKV(t *testing.T) *kv.Store {
	t.Helper()
	store, err := kv.Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("kv.Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_StartsLoggedOut(t *testing.T) {
	s := NewStore(newTestKV(t))

	if s.IsLoggedIn() {
		t.Error("fresh store should be logged out")
	}
	if _, ok := s.Current(); ok {
		t.Error("Current should report absent identity")
	}
}

func TestStore_LoginPersistsIdentity(t *testing.T) {
	store := newTestKV(t)
	s := NewStore(store)

	s.Login(model.User{Email: "kapil@example.com", FullName: "Kapil Dev"})

	if !s.IsLoggedIn() {
		t.Fatal("should be logged in")
	}

	// A fresh store over the same persistence sees the identity
	reloaded := NewStore(store)
	user, ok := reloaded.Current()
	if !ok {
		t.Fatal("reloaded store should be logged in")
	}
	if user.Email != "kapil@example.com" || user.FullName != "Kapil Dev" {
		t.Errorf("Current = %+v", user)
	}
}

func TestStore_LogoutCascades(t *testing.T) {
	store := newTestKV(t)
	kv.Set(store, "chatbot-conversations", []string{"stub"})
	kv.Set(store, "chatbot-selectedId", "c-1")

	s := NewStore(store, "chatbot-conversations", "chatbot-selectedId")
	s.Login(model.User{Email: "a@b.c", FullName: "A"})

	s.Logout()

	if s.IsLoggedIn() {
		t.Error("should be logged out")
	}
	for _, key := range []string{UserKey, "chatbot-conversations", "chatbot-selectedId"} {
		if store.Has(key) {
			t.Errorf("key %q should be absent after logout", key)
		}
	}
}

func TestStore_TokenRotatesOnLogin(t *testing.T) {
	s := NewStore(newTestKV(t))
	first := s.Token()

	s.Login(model.User{Email: "a@b.c", FullName: "A"})

	if s.Token() == first {
		t.Error("token should rotate on login")
	}
}

func TestStore_CorruptIdentityTreatedAsLoggedOut(t *testing.T) {
	store := newTestKV(t)
	store.SetRaw(UserKey, "{broken")

	s := NewStore(store)
	if s.IsLoggedIn() {
		t.Error("corrupt identity should fall back to logged out")
	}
}
