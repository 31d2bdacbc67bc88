// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/cricket-tui/internal/kv"
	"github.com/jeranaias/cricket-tui/internal/model"
)

// UserKey is the persistence key for the serialized identity.
const UserKey = "cricket-chatbot-user"

// =============================================================================
// SESSION STORE
// =============================================================================

// Store owns the current user identity. It is constructed once at
// application start and lives for the process; identity is read from
// persistence exactly once, at construction.
type Store struct {
	mu sync.Mutex

	kv   *kv.Store
	user *model.User

	// Process-local session tracking
	token     string
	startTime time.Time

	// cascadeKeys are removed from persistence on logout, in addition to
	// the identity key. The conversation store registers its keys here so
	// logout resets chat state along with the identity.
	cascadeKeys []string
}

// NewStore creates a session store over the given persistence adapter.
// cascadeKeys name additional persisted keys that a logout wipes.
func NewStore(store *kv.Store, cascadeKeys ...string) *Store {
	s := &Store{
		kv:          store,
		token:       uuid.NewString(),
		startTime:   time.Now(),
		cascadeKeys: cascadeKeys,
	}

	if user := kv.Get[*model.User](store, UserKey, nil); user != nil {
		s.user = user
	}

	return s
}

// =============================================================================
// IDENTITY LIFECYCLE
// =============================================================================

// Login sets and persists the identity. Field validation is a presentation
// concern; the store accepts what it is given.
func (s *Store) Login(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := user
	s.user = &u
	s.token = uuid.NewString()
	s.startTime = time.Now()
	kv.Set(s.kv, UserKey, u)
}

// Logout clears the identity and removes the identity key plus every
// cascade key from persistence. Conversations belong to the session, so
// they are wiped with it.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.kv.Remove(UserKey)
	for _, key := range s.cascadeKeys {
		s.kv.Remove(key)
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Current returns a copy of the identity and whether one is set.
func (s *Store) Current() (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// IsLoggedIn reports whether an identity is present.
func (s *Store) IsLoggedIn() bool {
	_, ok := s.Current()
	return ok
}

// Token returns the process-local session token, regenerated on each login.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// StartTime returns when the current session began.
func (s *Store) StartTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startTime
}
