package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// confirmModel is the explicit confirmation sub-state every destructive
// action routes through. While active, all keys go to the modal: y/enter
// runs the pending command, n/esc dismisses it without issuing any
// request.
type confirmModel struct {
	active  bool
	prompt  string
	pending tea.Cmd
}

func (m *confirmModel) open(prompt string, pending tea.Cmd) {
	m.active = true
	m.prompt = prompt
	m.pending = pending
}

func (m *confirmModel) dismiss() {
	m.active = false
	m.prompt = ""
	m.pending = nil
}

// handleKey consumes one key press while the modal is open. It returns the
// confirmed command, or nil when the modal swallowed the key or the user
// cancelled.
func (m *confirmModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "y", "Y", "enter":
		cmd := m.pending
		m.dismiss()
		return cmd, true
	case "n", "N", "esc", "q":
		m.dismiss()
		return nil, false
	}
	return nil, false
}

func (m *confirmModel) view() string {
	if !m.active {
		return ""
	}
	return modalStyle.Render(m.prompt + "\n\n" + helpStyle.Render("y: confirm   n: cancel"))
}
