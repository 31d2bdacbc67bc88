// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/cricket-tui/internal/config"
	"github.com/jeranaias/cricket-tui/internal/session"
	"github.com/jeranaias/cricket-tui/internal/storage"
	"github.com/jeranaias/cricket-tui/internal/turn"
	"github.com/jeranaias/cricket-tui/internal/util"
)

// chatHistoryFile is the liner history file name, kept in the config dir.
const chatHistoryFile = "chat_history"

// replCommands feed liner's completer and the help text.
var replCommands = []string{
	"/new", "/list", "/select", "/pin", "/rename", "/delete",
	"/export", "/whoami", "/logout", "/help", "/quit",
}

// =============================================================================
// LINE EDITOR WRAPPER
// =============================================================================

// ChatCLI wraps the liner line editor with persistent input history.
type ChatCLI struct {
	line        *liner.State
	historyPath string
}

// NewChatCLI creates the line editor and loads prior input history.
func NewChatCLI() (*ChatCLI, error) {
	configDir, err := config.ConfigDir()
	if err != nil {
		return nil, WrapError(err, "resolve config dir")
	}

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(prefix string) []string {
		if !strings.HasPrefix(prefix, "/") {
			return nil
		}
		var out []string
		for _, cmd := range replCommands {
			if strings.HasPrefix(cmd, prefix) {
				out = append(out, cmd)
			}
		}
		return out
	})

	c := &ChatCLI{
		line:        line,
		historyPath: filepath.Join(configDir, chatHistoryFile),
	}
	c.loadHistory()
	return c, nil
}

func (c *ChatCLI) loadHistory() {
	f, err := os.Open(c.historyPath)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.ReadHistory(f)
}

// SaveHistory writes input history back with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	f, err := os.OpenFile(c.historyPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// ReadInput prompts for one line.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close restores the terminal state.
func (c *ChatCLI) Close() {
	c.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// HandleChat runs the line-oriented chat loop against the shared stores.
func HandleChat(cfg *config.Config, sess *session.Store, store *storage.ConversationStore, controller *turn.Controller) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	repl, err := NewChatCLI()
	if err != nil {
		return err
	}
	defer repl.Close()
	defer repl.SaveHistory()

	printChatBanner(sess, store)

	for {
		input, err := repl.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Println(dimStyle.Render("(ctrl+c again to quit, or /quit)"))
				continue
			}
			// EOF ends the session cleanly
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			quit, err := handleSlashCommand(input, cfg, sess, store)
			if err != nil {
				DisplayError(err)
			}
			if quit {
				return nil
			}
			continue
		}

		runChatTurn(cfg, store, controller, input)
	}
}

// runChatTurn submits one message and prints the assistant reply.
func runChatTurn(cfg *config.Config, store *storage.ConversationStore, controller *turn.Controller, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Gemini.TimeoutSecs)*time.Second)
	defer cancel()

	if !controller.Submit(ctx, text) {
		return
	}

	conv, ok := store.Selected()
	if !ok {
		return
	}
	if last, ok := conv.LastMessage(); ok {
		fmt.Println()
		fmt.Println(botStyle.Render("bot>"), strings.TrimSpace(renderMarkdown(last.Text)))
		fmt.Println()
	}
}

func handleSlashCommand(input string, cfg *config.Config, sess *session.Store, store *storage.ConversationStore) (quit bool, err error) {
	fields := strings.Fields(input)
	command := fields[0]
	rest := strings.TrimSpace(strings.TrimPrefix(input, command))

	switch command {
	case "/quit", "/exit", "/q":
		fmt.Println(dimStyle.Render("Bye."))
		return true, nil

	case "/help", "/?":
		printChatHelp()

	case "/new":
		conv := store.Create()
		fmt.Println(successStyle.Render("Started " + conv.Title + " (" + conv.ID + ")"))

	case "/list":
		printConversationList(store)

	case "/select":
		if rest == "" {
			return false, &ValidationError{Field: "/select", Reason: "needs a number from /list or a conversation ID"}
		}
		return false, selectConversation(store, rest)

	case "/pin":
		store.TogglePin(store.SelectedID())
		if conv, ok := store.Selected(); ok {
			state := "Unpinned"
			if conv.Pinned {
				state = "Pinned"
			}
			fmt.Println(successStyle.Render(state + " " + conv.Title))
		}

	case "/rename":
		if rest == "" {
			return false, &ValidationError{Field: "/rename", Reason: "needs a new title"}
		}
		store.Rename(store.SelectedID(), rest)
		fmt.Println(successStyle.Render("Renamed to " + rest))

	case "/delete":
		if conv, ok := store.Selected(); ok {
			store.Delete(conv.ID)
			fmt.Println(successStyle.Render("Deleted " + conv.Title))
		}

	case "/export":
		return false, exportConversation(store, Args{ExportFormat: "markdown", ExportPath: rest})

	case "/whoami":
		if user, ok := sess.Current(); ok {
			fmt.Printf("%s <%s>\n", user.FullName, user.Email)
		} else {
			fmt.Println(dimStyle.Render("Not signed in."))
		}

	case "/logout":
		sess.Logout()
		store.Reload()
		fmt.Println(successStyle.Render("Signed out. Conversations cleared."))

	default:
		return false, &ValidationError{Field: "command", Value: command, Reason: "unknown command, try /help"}
	}

	return false, nil
}

// selectConversation accepts either a 1-based list position or a raw ID.
func selectConversation(store *storage.ConversationStore, target string) error {
	conversations := store.Conversations()

	if n, err := strconv.Atoi(target); err == nil {
		if n < 1 || n > len(conversations) {
			return &NotFoundError{Resource: "conversation", ID: target}
		}
		store.Select(conversations[n-1].ID)
		fmt.Println(successStyle.Render("Switched to " + conversations[n-1].Title))
		return nil
	}

	for _, conv := range conversations {
		if conv.ID == target {
			store.Select(conv.ID)
			fmt.Println(successStyle.Render("Switched to " + conv.Title))
			return nil
		}
	}
	return &NotFoundError{Resource: "conversation", ID: target}
}

func printConversationList(store *storage.ConversationStore) {
	selected := store.SelectedID()
	for i, conv := range store.Conversations() {
		marker := "  "
		if conv.ID == selected {
			marker = "* "
		}
		pin := ""
		if conv.Pinned {
			pin = " [pinned]"
		}
		preview := dimStyle.Render(conv.Preview(40))
		fmt.Printf("%s%2d. %s%s  %s\n", marker, i+1, util.TruncateRunes(conv.Title, 28), pin, preview)
	}
}

func printChatBanner(sess *session.Store, store *storage.ConversationStore) {
	fmt.Println(botStyle.Render("Cricket Chatbot") + dimStyle.Render("  ("+Version+")"))
	if user, ok := sess.Current(); ok {
		fmt.Println(dimStyle.Render("Signed in as " + user.FullName))
	}
	if conv, ok := store.Selected(); ok {
		fmt.Println(dimStyle.Render("Conversation: " + conv.Title))
	}
	fmt.Println(dimStyle.Render("Type /help for commands."))
	fmt.Println()
}

func printChatHelp() {
	fmt.Print(`Commands:
  /new              Start a new conversation
  /list             List conversations
  /select <n|id>    Switch conversation
  /pin              Pin or unpin the current conversation
  /rename <title>   Rename the current conversation
  /delete           Delete the current conversation
  /export [file]    Export the current conversation as Markdown
  /whoami           Show the signed-in identity
  /logout           Sign out and clear conversations
  /quit             Exit
`)
}
