// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/cricket-tui/internal/kv"
	"github.com/jeranaias/cricket-tui/internal/model"
)

func newTestStore(t *testing.T) (*ConversationStore, *kv.Store) {
	t.Helper()
	backing, err := kv.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { backing.Close() })
	return NewConversationStore(backing), backing
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func TestNewConversationStore_FreshInstall(t *testing.T) {
	s, _ := newTestStore(t)

	convs := s.Conversations()
	require.Len(t, convs, 1)
	assert.Equal(t, DefaultConversationID, convs[0].ID)
	assert.Equal(t, model.DefaultTitle, convs[0].Title)
	assert.Empty(t, convs[0].Messages)
	assert.Equal(t, DefaultConversationID, s.SelectedID())
}

func TestNewConversationStore_HealsDanglingSelection(t *testing.T) {
	backing, err := kv.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer backing.Close()

	kv.Set(backing, KeyConversations, []model.Conversation{
		model.NewConversationWithID("c-77"),
	})
	kv.Set(backing, KeySelected, "c-gone")

	s := NewConversationStore(backing)
	assert.Equal(t, "c-77", s.SelectedID())
}

func TestNewConversationStore_MalformedCollectionFallsBack(t *testing.T) {
	backing, err := kv.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer backing.Close()

	backing.SetRaw(KeyConversations, "not json at all")

	s := NewConversationStore(backing)
	require.Equal(t, 1, s.Count())
	assert.Equal(t, DefaultConversationID, s.SelectedID())
}

// =============================================================================
// CREATE / SELECT
// =============================================================================

func TestCreate_PrependsAndSelects(t *testing.T) {
	s, _ := newTestStore(t)

	created := s.Create()

	assert.Equal(t, created.ID, s.SelectedID())
	assert.Equal(t, model.DefaultTitle, created.Title)
	assert.Equal(t, 2, s.Count())
}

func TestCreate_IDsStayUnique(t *testing.T) {
	s, _ := newTestStore(t)

	seen := map[string]bool{DefaultConversationID: true}
	for i := 0; i < 10; i++ {
		conv := s.Create()
		assert.False(t, seen[conv.ID], "duplicate ID %q", conv.ID)
		seen[conv.ID] = true
	}
}

func TestSelect_UnknownIDIgnored(t *testing.T) {
	s, _ := newTestStore(t)

	s.Select("c-nope")
	assert.Equal(t, DefaultConversationID, s.SelectedID())
}

// =============================================================================
// APPEND
// =============================================================================

func TestAppend_SequenceAndTitle(t *testing.T) {
	s, _ := newTestStore(t)

	msg, ok := s.Append(DefaultConversationID, model.AuthorUser, "Who won the 2011 Cricket World Cup?")
	require.True(t, ok)
	assert.Equal(t, 0, msg.ID)

	msg, ok = s.Append(DefaultConversationID, model.AuthorAssistant, "India.")
	require.True(t, ok)
	assert.Equal(t, 1, msg.ID)

	conv, ok := s.Get(DefaultConversationID)
	require.True(t, ok)
	assert.Equal(t, "Who won the 2011 Cricket Wor", conv.Title)
	assert.GreaterOrEqual(t, conv.UpdatedAt, conv.CreatedAt)
}

func TestAppend_UnknownConversationIgnored(t *testing.T) {
	s, _ := newTestStore(t)

	_, ok := s.Append("c-missing", model.AuthorUser, "hello")
	assert.False(t, ok)

	conv, _ := s.Get(DefaultConversationID)
	assert.Empty(t, conv.Messages)
}

func TestAppend_WritesThrough(t *testing.T) {
	s, backing := newTestStore(t)

	s.Append(DefaultConversationID, model.AuthorUser, "Explain a googly")

	// A second store over the same persistence sees the message
	reloaded := NewConversationStore(backing)
	conv, ok := reloaded.Get(DefaultConversationID)
	require.True(t, ok)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, "Explain a googly", conv.Messages[0].Text)
}

// =============================================================================
// PIN / RENAME
// =============================================================================

func TestTogglePin_SortsPinnedFirst(t *testing.T) {
	s, _ := newTestStore(t)

	first := s.Create()
	second := s.Create() // most recently updated, sorts first

	s.TogglePin(first.ID)

	convs := s.Conversations()
	require.GreaterOrEqual(t, len(convs), 2)
	assert.Equal(t, first.ID, convs[0].ID, "pinned conversation should sort first")
	assert.True(t, convs[0].Pinned)
	assert.Equal(t, second.ID, convs[1].ID)
}

func TestTogglePin_Unpin(t *testing.T) {
	s, _ := newTestStore(t)

	s.TogglePin(DefaultConversationID)
	s.TogglePin(DefaultConversationID)

	conv, _ := s.Get(DefaultConversationID)
	assert.False(t, conv.Pinned)
}

func TestRename_TrimsAndPersists(t *testing.T) {
	s, backing := newTestStore(t)

	s.Rename(DefaultConversationID, "  Ashes history  ")

	reloaded := NewConversationStore(backing)
	conv, _ := reloaded.Get(DefaultConversationID)
	assert.Equal(t, "Ashes history", conv.Title)
}

func TestRename_WhitespaceIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)

	s.Rename(DefaultConversationID, "   ")

	conv, _ := s.Get(DefaultConversationID)
	assert.Equal(t, model.DefaultTitle, conv.Title)
}

// =============================================================================
// DELETE
// =============================================================================

func TestDelete_LastConversationSynthesizesDefault(t *testing.T) {
	s, _ := newTestStore(t)

	s.Delete(DefaultConversationID)

	convs := s.Conversations()
	require.Len(t, convs, 1)
	assert.NotEqual(t, DefaultConversationID, convs[0].ID)
	assert.Equal(t, model.DefaultTitle, convs[0].Title)
	assert.Empty(t, convs[0].Messages)
	assert.Equal(t, convs[0].ID, s.SelectedID())
}

func TestDelete_SelectedReassignsToFirst(t *testing.T) {
	s, _ := newTestStore(t)

	created := s.Create() // selected now
	s.Delete(created.ID)

	assert.Equal(t, 1, s.Count())
	assert.Equal(t, DefaultConversationID, s.SelectedID())
}

func TestDelete_UnselectedKeepsSelection(t *testing.T) {
	s, _ := newTestStore(t)

	created := s.Create()
	s.Delete(DefaultConversationID)

	assert.Equal(t, created.ID, s.SelectedID())
}

func TestDelete_UnknownIDIgnored(t *testing.T) {
	s, _ := newTestStore(t)

	s.Delete("c-missing")
	assert.Equal(t, 1, s.Count())
}

// =============================================================================
// RELOAD / OBSERVER
// =============================================================================

func TestReload_AfterWipeYieldsDefault(t *testing.T) {
	s, backing := newTestStore(t)

	s.Create()
	s.Create()
	require.Equal(t, 3, s.Count())

	backing.Remove(KeyConversations)
	backing.Remove(KeySelected)
	s.Reload()

	convs := s.Conversations()
	require.Len(t, convs, 1)
	assert.Equal(t, DefaultConversationID, convs[0].ID)
}

func TestOnChange_FiresPerMutation(t *testing.T) {
	s, _ := newTestStore(t)

	calls := 0
	s.SetOnChange(func() { calls++ })

	s.Create()
	s.Append(s.SelectedID(), model.AuthorUser, "hi")
	s.TogglePin(s.SelectedID())

	assert.Equal(t, 3, calls)
}
