// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"strconv"
	"sync"

	"github.com/jeranaias/cricket-tui/internal/kv"
	"github.com/jeranaias/cricket-tui/internal/model"
)

// Persistence keys owned by the conversation store.
const (
	KeyConversations = "chatbot-conversations"
	KeySelected      = "chatbot-selectedId"
)

// DefaultConversationID is the ID of the conversation a fresh install
// starts with.
const DefaultConversationID = "c-1"

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// ConversationStore holds the ordered conversation collection and the
// current selection, mirrored to the key-value adapter on every mutation.
//
// The store is safe for concurrent use: the Bubble Tea update loop and the
// goroutine finishing an AI turn may touch it at the same time.
type ConversationStore struct {
	mu sync.Mutex

	kv            *kv.Store
	conversations []model.Conversation
	selectedID    string

	onChange func()
}

// NewConversationStore creates the store and reads its state from
// persistence once. Missing or malformed state falls back to a single
// default conversation.
func NewConversationStore(store *kv.Store) *ConversationStore {
	s := &ConversationStore{kv: store}
	s.mu.Lock()
	s.loadLocked()
	s.mu.Unlock()
	return s
}

// SetOnChange registers an observer invoked after every persisted mutation.
// The presentation layer re-renders from store state in this callback.
func (s *ConversationStore) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// loadLocked initializes in-memory state from persistence without writing
// anything back. Dangling selections are healed in memory; the healed value
// is persisted on the next mutation.
func (s *ConversationStore) loadLocked() {
	fallback := []model.Conversation{model.NewConversationWithID(DefaultConversationID)}

	s.conversations = kv.Get(s.kv, KeyConversations, fallback)
	if len(s.conversations) == 0 {
		s.conversations = fallback
	}
	model.Normalize(s.conversations)

	s.selectedID = kv.Get(s.kv, KeySelected, s.conversations[0].ID)
	s.healLocked()
}

// Reload re-reads state from persistence, discarding in-memory state. Used
// after a logout wipe (falling back to defaults) or when another process
// rewrote the backing store.
func (s *ConversationStore) Reload() {
	s.mu.Lock()
	s.loadLocked()
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

// =============================================================================
// MUTATION PLUMBING
// =============================================================================

// mutate runs fn under the lock, then applies the invariants every mutation
// shares: normalize the collection order, heal the selection, write both
// keys through, and notify the observer.
func (s *ConversationStore) mutate(fn func()) {
	s.mu.Lock()
	fn()
	model.Normalize(s.conversations)
	s.healLocked()
	s.persistLocked()
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

// healLocked corrects a selection that does not resolve to an existing
// conversation by selecting the first conversation in the collection.
func (s *ConversationStore) healLocked() {
	if s.indexOfLocked(s.selectedID) >= 0 {
		return
	}
	if len(s.conversations) > 0 {
		s.selectedID = s.conversations[0].ID
	}
}

// persistLocked writes both owned keys through synchronously.
func (s *ConversationStore) persistLocked() {
	kv.Set(s.kv, KeyConversations, s.conversations)
	kv.Set(s.kv, KeySelected, s.selectedID)
}

func (s *ConversationStore) indexOfLocked(id string) int {
	for i := range s.conversations {
		if s.conversations[i].ID == id {
			return i
		}
	}
	return -1
}

// newConversationLocked creates a conversation whose time-based ID is
// guaranteed unique within the collection. Two creations in the same
// millisecond get a numeric suffix.
func (s *ConversationStore) newConversationLocked() model.Conversation {
	conv := model.NewConversation()
	base := conv.ID
	for n := 1; s.indexOfLocked(conv.ID) >= 0; n++ {
		conv.ID = base + "-" + strconv.Itoa(n)
	}
	return conv
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Create prepends a new empty conversation titled "New Chat" and selects
// it. Returns a copy of the new conversation.
func (s *ConversationStore) Create() model.Conversation {
	var created model.Conversation
	s.mutate(func() {
		conv := s.newConversationLocked()
		s.conversations = append([]model.Conversation{conv}, s.conversations...)
		s.selectedID = conv.ID
		created = conv.Clone()
	})
	return created
}

// Select sets the selection to id if it exists in the collection. Unknown
// IDs are ignored.
func (s *ConversationStore) Select(id string) {
	s.mutate(func() {
		if s.indexOfLocked(id) >= 0 {
			s.selectedID = id
		}
	})
}

// Append adds a message to the identified conversation. The message ID is
// the conversation's message count at append time; the conversation title
// and UpdatedAt refresh per the model rules. Unknown IDs are ignored and
// report ok=false.
func (s *ConversationStore) Append(conversationID string, author model.Author, text string) (msg model.Message, ok bool) {
	s.mutate(func() {
		i := s.indexOfLocked(conversationID)
		if i < 0 {
			return
		}
		msg = s.conversations[i].Append(author, text)
		ok = true
	})
	return msg, ok
}

// TogglePin flips the pinned flag of the identified conversation.
func (s *ConversationStore) TogglePin(id string) {
	s.mutate(func() {
		if i := s.indexOfLocked(id); i >= 0 {
			s.conversations[i].Pinned = !s.conversations[i].Pinned
		}
	})
}

// Rename sets the conversation title to the trimmed value. Empty or
// whitespace-only titles are discarded.
func (s *ConversationStore) Rename(id, title string) {
	s.mutate(func() {
		if i := s.indexOfLocked(id); i >= 0 {
			s.conversations[i].Rename(title)
		}
	})
}

// Delete removes the identified conversation. Deleting the last remaining
// conversation synthesizes a fresh default and selects it; deleting the
// selected conversation moves the selection to the first conversation in
// the post-delete order.
func (s *ConversationStore) Delete(id string) {
	s.mutate(func() {
		i := s.indexOfLocked(id)
		if i < 0 {
			return
		}
		s.conversations = append(s.conversations[:i], s.conversations[i+1:]...)

		if len(s.conversations) == 0 {
			conv := s.newConversationLocked()
			s.conversations = []model.Conversation{conv}
			s.selectedID = conv.ID
			return
		}
		if id == s.selectedID {
			// Cleared selection is healed to the post-sort first entry
			s.selectedID = ""
		}
	})
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Conversations returns a deep copy of the collection in display order.
func (s *ConversationStore) Conversations() []model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Conversation, len(s.conversations))
	for i := range s.conversations {
		out[i] = s.conversations[i].Clone()
	}
	return out
}

// SelectedID returns the ID of the selected conversation.
func (s *ConversationStore) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// Selected returns a deep copy of the selected conversation.
func (s *ConversationStore) Selected() (model.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(s.selectedID)
	if i < 0 {
		return model.Conversation{}, false
	}
	return s.conversations[i].Clone(), true
}

// Get returns a deep copy of the identified conversation.
func (s *ConversationStore) Get(id string) (model.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(id)
	if i < 0 {
		return model.Conversation{}, false
	}
	return s.conversations[i].Clone(), true
}

// History returns a copy of the identified conversation's messages.
func (s *ConversationStore) History(id string) ([]model.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(id)
	if i < 0 {
		return nil, false
	}
	return s.conversations[i].History(), true
}

// Count returns the number of conversations.
func (s *ConversationStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}
