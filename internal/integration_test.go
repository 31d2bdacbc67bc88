// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package internal provides integration tests for the complete system:
// persistence, session lifecycle, conversation management, and the AI turn
// protocol working together.
package internal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/cricket-tui/internal/cli"
	"github.com/jeranaias/cricket-tui/internal/config"
	"github.com/jeranaias/cricket-tui/internal/kv"
	"github.com/jeranaias/cricket-tui/internal/model"
	"github.com/jeranaias/cricket-tui/internal/session"
	"github.com/jeranaias/cricket-tui/internal/storage"
	"github.com/jeranaias/cricket-tui/internal/turn"
)

// =============================================================================
// TEST UTILITIES
// =============================================================================

func openStore(t *testing.T, dir string) *kv.Store {
	t.Helper()
	store, err := kv.Open(filepath.Join(dir, "state.db"))
	if err != nil {
		t.Fatalf("open kv store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func echoGenerator() turn.Generator {
	return turn.GeneratorFunc(func(ctx context.Context, userMessage string, history []model.Message) (string, error) {
		return "echo: " + userMessage, nil
	})
}

// =============================================================================
// END-TO-END SESSION AND CHAT LIFECYCLE
// =============================================================================

// TestEndToEndChatLifecycle walks the whole flow: sign in, chat, restart
// the process, verify state survived, then sign out and verify the wipe.
func TestEndToEndChatLifecycle(t *testing.T) {
	dir := t.TempDir()

	// First process lifetime: login and one turn
	{
		store := openStore(t, dir)
		sess := session.NewStore(store, storage.KeyConversations, storage.KeySelected)
		convs := storage.NewConversationStore(store)
		controller := turn.NewController(convs, echoGenerator())

		sess.Login(model.User{FullName: "Rahul Dravid", Email: "rahul@example.com"})

		if !controller.Submit(context.Background(), "Explain the follow-on rule") {
			t.Fatal("submit rejected")
		}

		conv, ok := convs.Selected()
		if !ok {
			t.Fatal("no selected conversation")
		}
		if conv.MessageCount() != 2 {
			t.Fatalf("message count = %d, want 2", conv.MessageCount())
		}
		if conv.Title != "Explain the follow-on rule" {
			t.Errorf("title = %q", conv.Title)
		}
		store.Close()
	}

	// Second process lifetime: state restored from persistence
	{
		store := openStore(t, dir)
		sess := session.NewStore(store, storage.KeyConversations, storage.KeySelected)
		convs := storage.NewConversationStore(store)

		user, ok := sess.Current()
		if !ok {
			t.Fatal("identity did not survive restart")
		}
		if user.FullName != "Rahul Dravid" {
			t.Errorf("restored user = %q", user.FullName)
		}

		conv, ok := convs.Selected()
		if !ok || conv.MessageCount() != 2 {
			t.Fatalf("conversation did not survive restart: ok=%v count=%d", ok, conv.MessageCount())
		}

		// Logout cascades to chat state
		sess.Logout()
		convs.Reload()

		if sess.IsLoggedIn() {
			t.Error("still logged in after logout")
		}
		if convs.Count() != 1 {
			t.Errorf("conversation count after logout = %d, want 1", convs.Count())
		}
		fresh, _ := convs.Selected()
		if !fresh.IsEmpty() {
			t.Error("conversation after logout should be empty")
		}
		if fresh.ID != storage.DefaultConversationID {
			t.Errorf("post-logout conversation ID = %q, want %q", fresh.ID, storage.DefaultConversationID)
		}
	}
}

// TestTurnAgainstSwitchedConversation verifies a reply lands in the
// conversation that asked even when the user switches threads mid-turn.
func TestTurnAgainstSwitchedConversation(t *testing.T) {
	store := openStore(t, t.TempDir())
	convs := storage.NewConversationStore(store)

	release := make(chan struct{})
	gen := turn.GeneratorFunc(func(ctx context.Context, userMessage string, history []model.Message) (string, error) {
		<-release
		return "late reply", nil
	})
	controller := turn.NewController(convs, gen)

	origin := convs.SelectedID()
	accepted, ok := controller.Start("Who is the fastest bowler ever?")
	if !ok {
		t.Fatal("start rejected")
	}

	// Switch away while the generator is in flight
	other := convs.Create()

	done := make(chan struct{})
	go func() {
		accepted.Run(context.Background())
		close(done)
	}()
	close(release)
	<-done

	originConv, _ := convs.Get(origin)
	if originConv.MessageCount() != 2 {
		t.Errorf("origin conversation has %d messages, want 2", originConv.MessageCount())
	}
	otherConv, _ := convs.Get(other.ID)
	if otherConv.MessageCount() != 0 {
		t.Errorf("switched-to conversation has %d messages, want 0", otherConv.MessageCount())
	}
}

// =============================================================================
// CONCURRENCY
// =============================================================================

// TestConcurrentStoreMutations hammers the conversation store from multiple
// goroutines; the store must stay internally consistent.
func TestConcurrentStoreMutations(t *testing.T) {
	store := openStore(t, t.TempDir())
	convs := storage.NewConversationStore(store)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			conv := convs.Create()
			for j := 0; j < 10; j++ {
				convs.Append(conv.ID, model.AuthorUser, fmt.Sprintf("worker %d message %d", n, j))
			}
			convs.TogglePin(conv.ID)
		}(i)
	}
	wg.Wait()

	conversations := convs.Conversations()
	if len(conversations) != 9 { // 8 created plus the default
		t.Fatalf("conversation count = %d, want 9", len(conversations))
	}

	for _, conv := range conversations {
		if conv.ID == storage.DefaultConversationID {
			continue
		}
		if conv.MessageCount() != 10 {
			t.Errorf("conversation %s has %d messages, want 10", conv.ID, conv.MessageCount())
		}
		for i, msg := range conv.Messages {
			if msg.ID != i {
				t.Errorf("conversation %s message %d has ID %d", conv.ID, i, msg.ID)
			}
		}
	}

	// Selection must resolve after the dust settles
	if _, ok := convs.Selected(); !ok {
		t.Error("selection does not resolve")
	}
}

// TestConcurrentTurnRejection verifies only one of many simultaneous
// submissions is accepted while a turn is pending.
func TestConcurrentTurnRejection(t *testing.T) {
	store := openStore(t, t.TempDir())
	convs := storage.NewConversationStore(store)

	block := make(chan struct{})
	gen := turn.GeneratorFunc(func(ctx context.Context, userMessage string, history []model.Message) (string, error) {
		<-block
		return "done", nil
	})
	controller := turn.NewController(convs, gen)

	first, ok := controller.Start("first question")
	if !ok {
		t.Fatal("first start rejected")
	}

	var accepted int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := controller.Start("racing question"); ok {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted != 0 {
		t.Errorf("%d submissions accepted while pending, want 0", accepted)
	}

	done := make(chan struct{})
	go func() {
		first.Run(context.Background())
		close(done)
	}()
	close(block)
	<-done

	if controller.Pending() {
		t.Error("pending flag stuck after run")
	}
}

// =============================================================================
// CONFIG HOT RELOAD
// =============================================================================

func writeGeminiConfig(t *testing.T, path, baseURL, model string) {
	t.Helper()
	body := fmt.Sprintf("[gemini]\napi_key = %q\nmodel = %q\nbase_url = %q\ntimeout_secs = 10\n", "test-key", model, baseURL)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// TestConfigReload_NextTurnUsesUpdatedModel edits the config file while the
// watcher is running and verifies the next request goes out against the new
// model, the same wiring main uses for the TUI and the REPL.
func TestConfigReload_NextTurnUsesUpdatedModel(t *testing.T) {
	var mu sync.Mutex
	var requestPaths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requestPaths = append(requestPaths, r.URL.Path)
		mu.Unlock()
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"ok"}]}}]}`)
	}))
	defer server.Close()

	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.toml")
	writeGeminiConfig(t, configFile, server.URL, "cricket-fast")

	cfg, err := config.LoadFromPath(configFile)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	store := openStore(t, dir)
	convs := storage.NewConversationStore(store)
	controller := turn.NewController(convs, cli.NewGeminiClient(cfg))

	reloaded := make(chan struct{}, 1)
	watcher, err := config.Watch(configFile, func(updated *config.Config) {
		controller.SetGenerator(cli.NewGeminiClient(updated))
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	defer watcher.Close()

	if !controller.Submit(context.Background(), "What is reverse swing?") {
		t.Fatal("first submit rejected")
	}

	writeGeminiConfig(t, configFile, server.URL, "cricket-pro")
	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("config reload was not observed")
	}

	if !controller.Submit(context.Background(), "Who perfected it?") {
		t.Fatal("second submit rejected")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(requestPaths) != 2 {
		t.Fatalf("request count = %d, want 2", len(requestPaths))
	}
	if !strings.Contains(requestPaths[0], "cricket-fast") {
		t.Errorf("first request path = %q, want the original model", requestPaths[0])
	}
	if !strings.Contains(requestPaths[1], "cricket-pro") {
		t.Errorf("second request path = %q, want the reloaded model", requestPaths[1])
	}
}
