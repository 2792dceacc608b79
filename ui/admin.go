package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/filedeck/filedeck/apiclient"
	"github.com/filedeck/filedeck/apiclient/authsvc"
)

// adminModel is the user management page. It renders only records with
// role "user" (admins manage users, not each other) and follows the same
// idle → loading → {loaded | errored} lifecycle as the dashboard.
type adminModel struct {
	auth AuthAPI

	state  pageState
	users  []authsvc.UserRecord
	cursor int

	confirm confirmModel
	adding  bool // the add-user form is open
	nameIn  textinput.Model
	passIn  textinput.Model
	formFoc int
	busy    bool

	spin    spinner.Model
	errText string
	status  string
}

func newAdminModel(auth AuthAPI) adminModel {
	nameIn := textinput.New()
	nameIn.Placeholder = "username"
	nameIn.CharLimit = 64

	passIn := textinput.New()
	passIn.Placeholder = "password"
	passIn.CharLimit = 128
	passIn.EchoMode = textinput.EchoPassword

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return adminModel{
		auth:   auth,
		nameIn: nameIn,
		passIn: passIn,
		spin:   sp,
	}
}

func (m adminModel) enter() (adminModel, tea.Cmd) {
	m.state = stateLoading
	m.errText = ""
	m.status = "Loading users..."
	return m, tea.Batch(m.spin.Tick, m.loadCmd())
}

func (m adminModel) loadCmd() tea.Cmd {
	api := m.auth
	return func() tea.Msg {
		users, err := api.ListUsers(context.Background())
		return usersLoadedMsg{users: users, err: err}
	}
}

// visible returns the records rendered by the page: role "user" only.
func (m adminModel) visible() []authsvc.UserRecord {
	out := make([]authsvc.UserRecord, 0, len(m.users))
	for _, u := range m.users {
		if u.Role == "user" {
			out = append(out, u)
		}
	}
	return out
}

func (m adminModel) Update(msg tea.Msg) (adminModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.state == stateLoading || m.busy {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case usersLoadedMsg:
		if msg.err != nil {
			if apiclient.IsUnauthenticated(msg.err) {
				return m, expireSession
			}
			m.state = stateErrored
			m.users = nil
			m.cursor = 0
			m.errText = msg.err.Error()
			m.status = ""
			return m, nil
		}
		m.state = stateLoaded
		m.users = msg.users
		if vis := m.visible(); m.cursor >= len(vis) {
			m.cursor = max(0, len(vis)-1)
		}
		m.errText = ""
		if m.status == "Loading users..." {
			m.status = ""
		}
		return m, nil

	case userCreatedMsg:
		m.busy = false
		if msg.err != nil {
			if apiclient.IsUnauthenticated(msg.err) {
				return m, expireSession
			}
			m.errText = msg.err.Error()
			m.status = ""
			return m, nil
		}
		// Clear the form and refresh the table.
		m.nameIn.SetValue("")
		m.passIn.SetValue("")
		m.adding = false
		m.status = fmt.Sprintf("Created user %s", msg.user.Username)
		m.state = stateLoading
		return m, tea.Batch(m.spin.Tick, m.loadCmd())

	case userDeletedMsg:
		m.busy = false
		if msg.err != nil {
			if apiclient.IsUnauthenticated(msg.err) {
				return m, expireSession
			}
			m.errText = msg.err.Error()
			m.status = ""
			return m, nil
		}
		m.status = "User deleted"
		m.state = stateLoading
		return m, tea.Batch(m.spin.Tick, m.loadCmd())
	}

	if m.adding {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m adminModel) handleKey(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	if m.confirm.active {
		cmd, confirmed := m.confirm.handleKey(msg)
		if confirmed {
			m.busy = true
			m.status = "Deleting..."
			m.errText = ""
			return m, tea.Batch(m.spin.Tick, cmd)
		}
		return m, nil
	}

	if m.adding {
		switch msg.String() {
		case "enter":
			return m.submitCreate()
		case "esc":
			m.adding = false
			m.nameIn.SetValue("")
			m.passIn.SetValue("")
			return m, nil
		case "tab", "shift+tab":
			m.formFoc = (m.formFoc + 1) % 2
			if m.formFoc == 0 {
				m.passIn.Blur()
				return m, m.nameIn.Focus()
			}
			m.nameIn.Blur()
			return m, m.passIn.Focus()
		}
		return m.updateForm(msg)
	}

	if m.busy || m.state == stateLoading {
		return m, nil
	}

	switch msg.String() {
	case "r":
		return m.enter()
	case "a":
		m.adding = true
		m.formFoc = 0
		m.errText = ""
		return m, m.nameIn.Focus()
	case "j", "down":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
		return m, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "x", "delete":
		if u, ok := m.selected(); ok {
			m.confirm.open(
				fmt.Sprintf("Delete user %q?", u.Username),
				m.deleteCmd(u.ID),
			)
		}
		return m, nil
	}
	return m, nil
}

func (m adminModel) updateForm(msg tea.Msg) (adminModel, tea.Cmd) {
	var cmd tea.Cmd
	if m.formFoc == 0 {
		m.nameIn, cmd = m.nameIn.Update(msg)
	} else {
		m.passIn, cmd = m.passIn.Update(msg)
	}
	return m, cmd
}

func (m adminModel) selected() (authsvc.UserRecord, bool) {
	vis := m.visible()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return authsvc.UserRecord{}, false
	}
	return vis[m.cursor], true
}

func (m adminModel) submitCreate() (adminModel, tea.Cmd) {
	nu := authsvc.NewUser{
		Username: m.nameIn.Value(),
		Password: m.passIn.Value(),
	}
	if err := authsvc.ValidateNewUser(nu); err != nil {
		m.errText = err.Error()
		return m, nil
	}

	m.busy = true
	m.status = "Creating user..."
	m.errText = ""
	api := m.auth
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		user, err := api.CreateUser(context.Background(), nu)
		return userCreatedMsg{user: user, err: err}
	})
}

func (m adminModel) deleteCmd(id int64) tea.Cmd {
	api := m.auth
	return func() tea.Msg {
		return userDeletedMsg{id: id, err: api.DeleteUser(context.Background(), id)}
	}
}

func (m adminModel) View() string {
	if m.confirm.active {
		return m.confirm.view()
	}

	s := titleStyle.Render("FileDeck — User management") + "\n\n"

	switch m.state {
	case stateLoading:
		s += m.spin.View() + " " + statusStyle.Render(m.status)
	case stateErrored:
		s += errorStyle.Render(m.errText)
	case stateLoaded:
		s += m.viewTable()
	}

	if m.adding {
		s += "\n\nAdd user\n" + m.nameIn.View() + "\n" + m.passIn.View() + "\n" +
			helpStyle.Render("enter: create   tab: switch field   esc: cancel")
	}

	if m.state == stateLoaded {
		if m.errText != "" {
			s += "\n\n" + errorStyle.Render(m.errText)
		} else if m.status != "" {
			s += "\n\n" + successStyle.Render(m.status)
		}
	}

	s += "\n\n" + helpStyle.Render("r: refresh   a: add user   x: delete   l: log out   ctrl+c: quit")
	return s
}

func (m adminModel) viewTable() string {
	vis := m.visible()
	if len(vis) == 0 {
		return emptyStyle.Render("No users yet.")
	}

	s := headerRowStyle.Render(fmt.Sprintf("%-6s %-32s %s", "ID", "Username", "Role")) + "\n"
	for i, u := range vis {
		line := fmt.Sprintf("%-6d %-32s %s", u.ID, u.Username, u.Role)
		if i == m.cursor {
			line = selectedRowStyle.Render(line)
		}
		s += line + "\n"
	}
	return s
}
