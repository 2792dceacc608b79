package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/filedeck/filedeck/apiclient"
	"github.com/filedeck/filedeck/metrics"
	"github.com/filedeck/filedeck/session"
)

// page identifies the active page controller.
type page int

const (
	pageLogin page = iota
	pageDashboard
	pageAdmin
)

// logoutDoneMsg reports the advisory server logout; the local session is
// already gone by the time it arrives.
type logoutDoneMsg struct{ err error }

// App is the top-level shell. It owns the session store's lifecycle:
// it writes it exactly once per successful login, clears it on logout and
// expiry, and routes between pages by the advisory role.
type App struct {
	store  *session.Store
	auth   AuthAPI
	files  FileAPI
	logger *zap.Logger

	active    page
	login     loginModel
	dashboard dashboardModel
	admin     adminModel
}

// NewApp wires the shell to its resource clients and session store.
func NewApp(store *session.Store, auth AuthAPI, files FileAPI, downloadDir string, logger *zap.Logger) App {
	return App{
		store:     store,
		auth:      auth,
		files:     files,
		logger:    logger,
		active:    pageLogin,
		login:     newLoginModel(auth),
		dashboard: newDashboardModel(files, downloadDir),
		admin:     newAdminModel(auth),
	}
}

func (a App) Init() tea.Cmd {
	return a.login.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "l":
			if a.active != pageLogin && !a.capturingInput() {
				return a.logout()
			}
		}

	case loginDoneMsg:
		if msg.err == nil {
			// The one write per successful login.
			a.store.Set(msg.sess)
			a.logger.Info("Logged in", zap.String("role", string(msg.sess.Role)))
			if msg.sess.Role == session.RoleAdmin {
				a.active = pageAdmin
				var cmd tea.Cmd
				a.admin, cmd = a.admin.enter()
				return a, cmd
			}
			a.active = pageDashboard
			var cmd tea.Cmd
			a.dashboard, cmd = a.dashboard.enter()
			return a, cmd
		}

	case sessionExpiredMsg:
		a.store.Clear()
		metrics.SessionsCleared.Inc()
		a.logger.Info("Session expired")
		a.active = pageLogin
		a.login = newLoginModel(a.auth)
		a.login.notice = apiclient.UnauthenticatedMessage
		return a, a.login.Init()

	case logoutDoneMsg:
		if msg.err != nil {
			a.logger.Debug("Server logout failed", zap.Error(msg.err))
		}
		return a, nil
	}

	var cmd tea.Cmd
	switch a.active {
	case pageLogin:
		a.login, cmd = a.login.Update(msg)
	case pageDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case pageAdmin:
		a.admin, cmd = a.admin.Update(msg)
	}
	return a, cmd
}

// capturingInput reports whether the active page is routing keystrokes
// into a form, in which case shell shortcuts must not fire.
func (a App) capturingInput() bool {
	switch a.active {
	case pageDashboard:
		return a.dashboard.uploading || a.dashboard.confirm.active
	case pageAdmin:
		return a.admin.adding || a.admin.confirm.active
	}
	return false
}

// logout clears the local session immediately and tells the server on a
// best-effort basis.
func (a App) logout() (tea.Model, tea.Cmd) {
	api := a.auth
	notify := func() tea.Msg {
		return logoutDoneMsg{err: api.Logout(context.Background())}
	}

	a.store.Clear()
	metrics.SessionsCleared.Inc()
	a.logger.Info("Logged out")
	a.active = pageLogin
	a.login = newLoginModel(a.auth)
	a.login.notice = "logged out"
	return a, tea.Batch(a.login.Init(), notify)
}

func (a App) View() string {
	switch a.active {
	case pageDashboard:
		return a.dashboard.View()
	case pageAdmin:
		return a.admin.View()
	}
	return a.login.View()
}
