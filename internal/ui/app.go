// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cricket-tui/internal/session"
	"github.com/jeranaias/cricket-tui/internal/storage"
	"github.com/jeranaias/cricket-tui/internal/turn"
	"github.com/jeranaias/cricket-tui/internal/ui/styles"
)

// Screen identifies the active top-level view.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenChat
)

// Model is the root Bubble Tea model. It routes between the login form and
// the chat screen and owns the stores shared by both.
type Model struct {
	theme *styles.Theme
	keys  KeyMap

	session    *session.Store
	store      *storage.ConversationStore
	controller *turn.Controller

	screen Screen
	login  loginModel
	chat   chatModel

	width  int
	height int
}

// New creates the root model. A persisted identity skips the login screen.
func New(sess *session.Store, store *storage.ConversationStore, controller *turn.Controller) Model {
	theme := styles.NewTheme()
	keys := DefaultKeyMap()

	screen := ScreenLogin
	if sess.IsLoggedIn() {
		screen = ScreenChat
	}

	return Model{
		theme:      theme,
		keys:       keys,
		session:    sess,
		store:      store,
		controller: controller,
		screen:     screen,
		login:      newLoginModel(theme),
		chat:       newChatModel(theme, keys, sess, store, controller),
	}
}

func (m Model) Init() tea.Cmd {
	if m.screen == ScreenChat {
		return m.chat.Init()
	}
	return m.login.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		var loginCmd, chatCmd tea.Cmd
		m.login, loginCmd = m.login.Update(msg)
		m.chat, chatCmd = m.chat.Update(msg)
		return m, tea.Batch(loginCmd, chatCmd)

	case loginSubmittedMsg:
		m.session.Login(msg.user)
		m.screen = ScreenChat
		m.chat.refreshViewport()
		return m, m.chat.Init()

	case loggedOutMsg:
		// Logout wipes identity and chat state; the store reloads to its
		// single default conversation.
		m.session.Logout()
		m.store.Reload()
		m.screen = ScreenLogin
		m.login = newLoginModel(m.theme)
		m.chat = newChatModel(m.theme, m.keys, m.session, m.store, m.controller)
		if m.width > 0 {
			resize := tea.WindowSizeMsg{Width: m.width, Height: m.height}
			var loginCmd, chatCmd tea.Cmd
			m.login, loginCmd = m.login.Update(resize)
			m.chat, chatCmd = m.chat.Update(resize)
			return m, tea.Batch(m.login.Init(), loginCmd, chatCmd)
		}
		return m, m.login.Init()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	switch m.screen {
	case ScreenChat:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	default:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd
	}
}

func (m Model) View() string {
	switch m.screen {
	case ScreenChat:
		return m.chat.View()
	default:
		return m.login.View()
	}
}

// Run starts the interactive interface and blocks until it exits.
func Run(sess *session.Store, store *storage.ConversationStore, controller *turn.Controller) error {
	program := tea.NewProgram(New(sess, store, controller), tea.WithAltScreen())

	// Wake the interface whenever the store mutates, so appends from the
	// async half of a turn show up without waiting for a keypress. The send
	// runs on its own goroutine because mutations also happen inside Update,
	// where a synchronous Send would block the event loop.
	store.SetOnChange(func() {
		go program.Send(storeChangedMsg{})
	})
	defer store.SetOnChange(nil)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("interface error: %w", err)
	}
	return nil
}
