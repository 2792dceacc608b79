package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/filedeck/filedeck/apiclient/authsvc"
)

// loginModel is the credential submission page. Local format checks run
// before any network call; the server's verdict is surfaced verbatim.
type loginModel struct {
	auth AuthAPI

	username textinput.Model
	password textinput.Model
	focused  int // 0 = username, 1 = password

	submitting bool
	errText    string
	notice     string // e.g. "please log in again" after an expiry
}

func newLoginModel(auth AuthAPI) loginModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	return loginModel{
		auth:     auth,
		username: username,
		password: password,
	}
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			// The triggering control is disabled for the duration of its
			// own request.
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.focused = (m.focused + 1) % 2
			if m.focused == 0 {
				m.password.Blur()
				return m, m.username.Focus()
			}
			m.username.Blur()
			return m, m.password.Focus()
		case "enter":
			return m.submit()
		}

	case loginDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.password.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	if m.focused == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

// submit validates locally, then issues the login command. Invalid input
// never reaches the network.
func (m loginModel) submit() (loginModel, tea.Cmd) {
	creds := authsvc.Credentials{
		Username: m.username.Value(),
		Password: m.password.Value(),
	}
	if err := authsvc.ValidateCredentials(creds); err != nil {
		m.errText = err.Error()
		return m, nil
	}

	m.submitting = true
	m.errText = ""
	m.notice = ""
	auth := m.auth
	return m, func() tea.Msg {
		result, err := auth.Login(context.Background(), creds)
		if err != nil {
			return loginDoneMsg{err: err}
		}
		sess, err := result.Session()
		if err != nil {
			return loginDoneMsg{err: err}
		}
		return loginDoneMsg{sess: sess}
	}
}

func (m loginModel) View() string {
	s := titleStyle.Render("FileDeck") + "\n\n"
	s += "Username\n" + m.username.View() + "\n"
	s += "Password\n" + m.password.View() + "\n\n"

	switch {
	case m.submitting:
		s += statusStyle.Render("Signing in...")
	case m.errText != "":
		s += errorStyle.Render(m.errText)
	case m.notice != "":
		s += statusStyle.Render(m.notice)
	}

	s += "\n\n" + helpStyle.Render("enter: sign in   tab: switch field   ctrl+c: quit")
	return s
}
