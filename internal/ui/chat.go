// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cricket-tui/internal/model"
	"github.com/jeranaias/cricket-tui/internal/session"
	"github.com/jeranaias/cricket-tui/internal/storage"
	"github.com/jeranaias/cricket-tui/internal/turn"
	"github.com/jeranaias/cricket-tui/internal/ui/styles"
	"github.com/jeranaias/cricket-tui/internal/util"
)

// Fixed row counts around the transcript viewport.
const (
	headerHeight    = 1
	inputHeight     = 3
	statusBarHeight = 1
)

// chatModel is the main chat screen: the transcript viewport, the input
// line, the status bar, and the conversation drawer overlay.
type chatModel struct {
	theme *styles.Theme
	keys  KeyMap

	session    *session.Store
	store      *storage.ConversationStore
	controller *turn.Controller

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model
	renderer *glamour.TermRenderer

	drawer     drawerModel
	showDrawer bool

	suggestions []string
	pending     bool
	statusNote  string
	ready       bool

	width  int
	height int
}

func newChatModel(theme *styles.Theme, keys KeyMap, sess *session.Store, store *storage.ConversationStore, controller *turn.Controller) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask about cricket..."
	input.Prompt = "> "
	input.CharLimit = 2000
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = theme.Spinner

	return chatModel{
		theme:       theme,
		keys:        keys,
		session:     sess,
		store:       store,
		controller:  controller,
		input:       input,
		spin:        spin,
		drawer:      newDrawerModel(theme, keys, store),
		suggestions: SuggestPrompts(suggestionCount),
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// UPDATE
// =============================================================================

func (m chatModel) Update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case turnFinishedMsg:
		m.pending = false
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil

	case storeChangedMsg:
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) handleResize(msg tea.WindowSizeMsg) chatModel {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	viewportHeight := msg.Height - headerHeight - inputHeight - statusBarHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = viewportHeight
	}

	m.input.Width = msg.Width - 6

	wrap := msg.Width - 10
	if wrap < 20 {
		wrap = 20
	}
	if renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	); err == nil {
		m.renderer = renderer
	}

	m.refreshViewport()
	m.viewport.GotoBottom()
	return m
}

func (m chatModel) handleKey(msg tea.KeyMsg) (chatModel, tea.Cmd) {
	if m.showDrawer {
		var cmd tea.Cmd
		var closed bool
		m.drawer, cmd, closed = m.drawer.Update(msg)
		if closed {
			m.showDrawer = false
			m.suggestions = SuggestPrompts(suggestionCount)
			m.refreshViewport()
			m.viewport.GotoBottom()
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.ToggleDrawer):
		m.drawer.refresh()
		m.showDrawer = true
		return m, nil

	case key.Matches(msg, m.keys.NewChat):
		m.store.Create()
		m.suggestions = SuggestPrompts(suggestionCount)
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.ExportChat):
		m.statusNote = m.exportSelected()
		return m, nil

	case key.Matches(msg, m.keys.Logout):
		return m, func() tea.Msg { return loggedOutMsg{} }

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Send):
		return m.submit()
	}

	// Number keys fill the input from a suggestion card on the start screen
	if m.input.Value() == "" && m.onStartScreen() {
		if i := suggestionIndex(msg.String()); i >= 0 && i < len(m.suggestions) {
			m.input.SetValue(m.suggestions[i])
			m.input.CursorEnd()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// suggestionIndex maps "1".."9" to a zero-based card index.
func suggestionIndex(s string) int {
	if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		return int(s[0] - '1')
	}
	return -1
}

func (m chatModel) onStartScreen() bool {
	conv, ok := m.store.Selected()
	return ok && conv.IsEmpty()
}

// submit runs the synchronous half of the turn protocol and schedules the
// asynchronous half. Empty input and an in-flight turn are no-ops.
func (m chatModel) submit() (chatModel, tea.Cmd) {
	if m.pending {
		return m, nil
	}

	t, ok := m.controller.Start(m.input.Value())
	if !ok {
		return m, nil
	}

	m.input.SetValue("")
	m.pending = true
	m.statusNote = ""
	m.refreshViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(runTurn(t), m.spin.Tick)
}

// exportSelected writes the selected conversation as Markdown next to the
// working directory and returns a status note.
func (m chatModel) exportSelected() string {
	conv, ok := m.store.Selected()
	if !ok {
		return "Nothing to export"
	}

	name := "cricket-chat-" + time.Now().Format("20060102-150405") + ".md"
	path := filepath.Join(".", name)
	if err := os.WriteFile(path, []byte(storage.ExportMarkdown(conv)), 0o644); err != nil {
		return "Export failed: " + err.Error()
	}
	return "Exported to " + name
}

// =============================================================================
// VIEW
// =============================================================================

func (m chatModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showDrawer {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.drawer.View())
	}

	sections := []string{
		m.renderHeader(),
		m.viewport.View(),
		m.renderInput(),
		m.renderStatusBar(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m chatModel) renderHeader() string {
	t := m.theme

	title := model.DefaultTitle
	if conv, ok := m.store.Selected(); ok {
		title = conv.Title
		if conv.Pinned {
			title = styles.StatusIndicators.Pinned + " " + title
		}
	}

	left := t.HeaderTitle.Render("Cricket Chatbot")
	right := t.HeaderSubtitle.Render(util.TruncateWidth(title, m.width/2))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	return t.Header.Render(left + strings.Repeat(" ", gap) + right)
}

func (m chatModel) renderInput() string {
	t := m.theme

	line := m.input.View()
	if m.pending {
		line = m.spin.View() + " " + t.ThinkingText.Render("Thinking...")
	}
	return t.InputContainer.Width(m.width - 2).Render(line)
}

func (m chatModel) renderStatusBar() string {
	t := m.theme

	if m.statusNote != "" {
		return t.StatusBar.Width(m.width).Render(m.statusNote)
	}

	parts := make([]string, 0, 4)
	for _, binding := range m.keys.ShortHelp() {
		help := binding.Help()
		parts = append(parts, t.ShortcutKey.Render(help.Key)+" "+t.ShortcutDesc.Render(help.Desc))
	}
	bar := strings.Join(parts, "  ")

	if m.pending {
		bar = t.PendingBadge.Render("generating") + "  " + bar
	}
	return t.StatusBar.Width(m.width).Render(bar)
}

// refreshViewport rebuilds the transcript from store state.
func (m *chatModel) refreshViewport() {
	if !m.ready {
		return
	}

	conv, ok := m.store.Selected()
	if !ok || conv.IsEmpty() {
		m.viewport.SetContent(m.renderStartScreen())
		return
	}

	var b strings.Builder
	for _, msg := range conv.Messages {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
}

func (m chatModel) renderMessage(msg model.Message) string {
	t := m.theme
	stamp := t.Timestamp.Render(msg.Time().Format("15:04"))

	if msg.Author == model.AuthorUser {
		label := t.UserLabel.Render("You") + " " + stamp
		bubble := t.UserBubble.Width(m.bubbleWidth()).Render(msg.Text)
		block := lipgloss.JoinVertical(lipgloss.Right, label, bubble)
		return lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Right, block)
	}

	label := t.AssistantLabel.Render("Cricket Bot") + " " + stamp
	bubble := t.AssistantBubble.Width(m.bubbleWidth()).Render(m.renderMarkdown(msg.Text))
	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

// bubbleWidth caps bubbles at a readable measure on wide terminals.
func (m chatModel) bubbleWidth() int {
	width := m.viewport.Width * 3 / 4
	if m.theme.GetLayoutMode() == styles.LayoutNarrow {
		width = m.viewport.Width - 6
	}
	if width < 20 {
		width = 20
	}
	return width
}

// renderMarkdown renders assistant text through Glamour, falling back to
// the raw text when rendering fails.
func (m chatModel) renderMarkdown(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

func (m chatModel) renderStartScreen() string {
	t := m.theme

	greeting := "Hello"
	if user, ok := m.session.Current(); ok {
		greeting = "Hello, " + user.FullName
	}

	var b strings.Builder
	b.WriteString(t.WelcomeLogo.Render("Cricket Chatbot"))
	b.WriteString("\n\n")
	b.WriteString(t.WelcomeInfo.Render(greeting + ". Ask me anything about cricket."))
	b.WriteString("\n\n")

	for i, prompt := range m.suggestions {
		card := fmt.Sprintf("%d. %s", i+1, prompt)
		b.WriteString(t.PromptCard.Render(card))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(t.WelcomeInfo.Render("Press a number to use a suggestion, or just start typing."))

	return lipgloss.Place(m.viewport.Width, m.viewport.Height, lipgloss.Center, lipgloss.Center, b.String())
}
