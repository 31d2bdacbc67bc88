// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cricket-tui/internal/model"
	"github.com/jeranaias/cricket-tui/internal/ui/styles"
)

// Login form fields, cycled with tab.
const (
	fieldFullName = iota
	fieldEmail
	fieldCount
)

// loginModel is the identity gate shown before the chat screen. It collects
// a display name and email; validation is presentation-side only.
type loginModel struct {
	theme *styles.Theme

	inputs  []textinput.Model
	focused int
	errMsg  string

	width  int
	height int
}

func newLoginModel(theme *styles.Theme) loginModel {
	name := textinput.New()
	name.Placeholder = "Sunil Gavaskar"
	name.Prompt = ""
	name.CharLimit = 80
	name.Width = 36
	name.Focus()

	email := textinput.New()
	email.Placeholder = "sunil@example.com"
	email.Prompt = ""
	email.CharLimit = 120
	email.Width = 36

	return loginModel{
		theme:  theme,
		inputs: []textinput.Model{name, email},
	}
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

// validate checks the form and returns the identity when acceptable.
func (m *loginModel) validate() (model.User, bool) {
	fullName := strings.TrimSpace(m.inputs[fieldFullName].Value())
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())

	if fullName == "" {
		m.errMsg = "Please enter your name"
		return model.User{}, false
	}
	if email == "" || !strings.Contains(email, "@") {
		m.errMsg = "Please enter a valid email address"
		return model.User{}, false
	}

	m.errMsg = ""
	return model.User{FullName: fullName, Email: email}, true
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			if msg.String() == "shift+tab" || msg.String() == "up" {
				m.focused--
			} else {
				m.focused++
			}
			m.focused = (m.focused + fieldCount) % fieldCount

			cmds := make([]tea.Cmd, 0, fieldCount)
			for i := range m.inputs {
				if i == m.focused {
					cmds = append(cmds, m.inputs[i].Focus())
					continue
				}
				m.inputs[i].Blur()
			}
			return m, tea.Batch(cmds...)

		case "enter":
			if m.focused < fieldCount-1 {
				// Advance to the next field; submit happens on the last one
				m.inputs[m.focused].Blur()
				m.focused++
				return m, m.inputs[m.focused].Focus()
			}
			user, ok := m.validate()
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg { return loginSubmittedMsg{user: user} }
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m loginModel) View() string {
	t := m.theme

	var b strings.Builder
	b.WriteString(t.FormTitle.Render("Cricket Chatbot"))
	b.WriteString("\n")
	b.WriteString(t.WelcomeInfo.Render("Sign in to start talking cricket"))
	b.WriteString("\n\n")

	labels := []string{"Name", "Email"}
	for i, input := range m.inputs {
		label := t.FormLabel.Render(labels[i])
		if i == m.focused {
			label = t.InputPrompt.Render(labels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	if m.errMsg != "" {
		b.WriteString(t.FormError.Render(m.errMsg))
		b.WriteString("\n\n")
	}

	button := t.ButtonInactive.Render("Sign In")
	if m.focused == fieldCount-1 {
		button = t.ButtonActive.Render("Sign In")
	}
	b.WriteString(button)

	box := t.FormBox.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
