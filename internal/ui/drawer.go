// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cricket-tui/internal/model"
	"github.com/jeranaias/cricket-tui/internal/storage"
	"github.com/jeranaias/cricket-tui/internal/ui/styles"
	"github.com/jeranaias/cricket-tui/internal/util"
)

// Drawer interaction modes.
const (
	drawerBrowse = iota
	drawerRename
	drawerConfirmDelete
)

// drawerModel is the conversation switcher overlay. It renders the
// collection in display order (pinned first, then recency) and supports
// select, create, pin, rename, and delete in place.
type drawerModel struct {
	theme *styles.Theme
	keys  KeyMap
	store *storage.ConversationStore

	conversations []model.Conversation
	cursor        int
	mode          int

	renameInput textinput.Model
}

func newDrawerModel(theme *styles.Theme, keys KeyMap, store *storage.ConversationStore) drawerModel {
	rename := textinput.New()
	rename.Prompt = ""
	rename.CharLimit = 60
	rename.Width = 32

	return drawerModel{
		theme:       theme,
		keys:        keys,
		store:       store,
		renameInput: rename,
	}
}

// refresh re-reads the collection and keeps the cursor on the selected
// conversation when possible.
func (m *drawerModel) refresh() {
	m.conversations = m.store.Conversations()
	selected := m.store.SelectedID()

	m.cursor = 0
	for i, conv := range m.conversations {
		if conv.ID == selected {
			m.cursor = i
			break
		}
	}
}

func (m *drawerModel) current() (model.Conversation, bool) {
	if m.cursor < 0 || m.cursor >= len(m.conversations) {
		return model.Conversation{}, false
	}
	return m.conversations[m.cursor], true
}

// clampCursor keeps the cursor inside the refreshed collection after a
// mutation shrinks or reorders it.
func (m *drawerModel) clampCursor() {
	if m.cursor >= len(m.conversations) {
		m.cursor = len(m.conversations) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Update handles drawer keys. The second return value reports whether the
// drawer should close.
func (m drawerModel) Update(msg tea.Msg) (drawerModel, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil, false
	}

	switch m.mode {
	case drawerRename:
		return m.updateRename(keyMsg)
	case drawerConfirmDelete:
		return m.updateConfirmDelete(keyMsg)
	}
	return m.updateBrowse(keyMsg)
}

func (m drawerModel) updateBrowse(msg tea.KeyMsg) (drawerModel, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.ToggleDrawer):
		return m, nil, true

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil, false

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.conversations)-1 {
			m.cursor++
		}
		return m, nil, false

	case key.Matches(msg, m.keys.SelectConv):
		if conv, ok := m.current(); ok {
			m.store.Select(conv.ID)
		}
		return m, nil, true

	case key.Matches(msg, m.keys.NewChat):
		m.store.Create()
		return m, nil, true

	case key.Matches(msg, m.keys.PinConv):
		if conv, ok := m.current(); ok {
			m.store.TogglePin(conv.ID)
			m.refresh()
			// Follow the row to its post-sort position
			for i := range m.conversations {
				if m.conversations[i].ID == conv.ID {
					m.cursor = i
					break
				}
			}
		}
		return m, nil, false

	case key.Matches(msg, m.keys.RenameConv):
		if conv, ok := m.current(); ok {
			m.mode = drawerRename
			m.renameInput.SetValue(conv.Title)
			m.renameInput.CursorEnd()
			return m, m.renameInput.Focus(), false
		}
		return m, nil, false

	case key.Matches(msg, m.keys.DeleteConv):
		if _, ok := m.current(); ok {
			m.mode = drawerConfirmDelete
		}
		return m, nil, false
	}

	return m, nil, false
}

func (m drawerModel) updateRename(msg tea.KeyMsg) (drawerModel, tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		m.mode = drawerBrowse
		m.renameInput.Blur()
		return m, nil, false

	case "enter":
		if conv, ok := m.current(); ok {
			m.store.Rename(conv.ID, m.renameInput.Value())
		}
		m.mode = drawerBrowse
		m.renameInput.Blur()
		m.refresh()
		return m, nil, false
	}

	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd, false
}

func (m drawerModel) updateConfirmDelete(msg tea.KeyMsg) (drawerModel, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.ConfirmDelete):
		if conv, ok := m.current(); ok {
			m.store.Delete(conv.ID)
		}
		m.mode = drawerBrowse
		m.refresh()
		m.clampCursor()
		return m, nil, false

	default:
		m.mode = drawerBrowse
		return m, nil, false
	}
}

// =============================================================================
// VIEW
// =============================================================================

func (m drawerModel) View() string {
	t := m.theme

	var b strings.Builder
	b.WriteString(t.DrawerTitle.Render("Conversations"))
	b.WriteString("\n\n")

	selected := m.store.SelectedID()
	for i, conv := range m.conversations {
		b.WriteString(m.renderRow(i, conv, selected))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch m.mode {
	case drawerRename:
		b.WriteString(t.FormLabel.Render("New title: "))
		b.WriteString(m.renameInput.View())
	case drawerConfirmDelete:
		if conv, ok := m.current(); ok {
			warning := "Delete \"" + util.TruncateRunes(conv.Title, 24) + "\"? (y/N)"
			b.WriteString(t.FormError.Render(warning))
		}
	default:
		hints := []string{
			t.ShortcutKey.Render("enter") + t.ShortcutDesc.Render(" open"),
			t.ShortcutKey.Render("ctrl+n") + t.ShortcutDesc.Render(" new"),
			t.ShortcutKey.Render("p") + t.ShortcutDesc.Render(" pin"),
			t.ShortcutKey.Render("r") + t.ShortcutDesc.Render(" rename"),
			t.ShortcutKey.Render("d") + t.ShortcutDesc.Render(" delete"),
			t.ShortcutKey.Render("esc") + t.ShortcutDesc.Render(" close"),
		}
		b.WriteString(strings.Join(hints, "  "))
	}

	return t.DrawerBox.Render(b.String())
}

func (m drawerModel) renderRow(i int, conv model.Conversation, selectedID string) string {
	t := m.theme

	pin := "   "
	if conv.Pinned {
		pin = t.DrawerPin.Render(styles.StatusIndicators.Pinned) + " "
	}

	marker := "  "
	if conv.ID == selectedID {
		marker = "> "
	}

	title := util.TruncateRunes(conv.Title, 28)
	meta := t.DrawerMeta.Render(relativeTime(conv.UpdatedAt))

	row := marker + pin + title + "  " + meta
	if i == m.cursor {
		return t.DrawerItemSelected.Render(row)
	}
	return t.DrawerItem.Render(row)
}

// relativeTime renders an epoch-milliseconds timestamp as a coarse age.
func relativeTime(epochMilli int64) string {
	age := time.Since(time.UnixMilli(epochMilli))
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return strconv.Itoa(int(age.Minutes())) + "m ago"
	case age < 24*time.Hour:
		return time.UnixMilli(epochMilli).Format("15:04")
	default:
		return time.UnixMilli(epochMilli).Format("Jan 2")
	}
}
