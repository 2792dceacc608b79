package ui

import (
	"context"
	"io"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/filedeck/filedeck/apiclient"
	"github.com/filedeck/filedeck/apiclient/authsvc"
	"github.com/filedeck/filedeck/apiclient/filesvc"
)

// fakeAuth records calls and returns canned results.
type fakeAuth struct {
	loginResult authsvc.LoginResult
	loginErr    error
	users       []authsvc.UserRecord
	listErr     error
	created     authsvc.UserRecord
	createErr   error
	deleteErr   error

	loginCalls  int
	logoutCalls int
	listCalls   int
	createCalls int
	deleteCalls []int64
}

func (f *fakeAuth) Login(_ context.Context, _ authsvc.Credentials) (authsvc.LoginResult, error) {
	f.loginCalls++
	return f.loginResult, f.loginErr
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalls++
	return nil
}

func (f *fakeAuth) ListUsers(context.Context) ([]authsvc.UserRecord, error) {
	f.listCalls++
	return f.users, f.listErr
}

func (f *fakeAuth) CreateUser(_ context.Context, _ authsvc.NewUser) (authsvc.UserRecord, error) {
	f.createCalls++
	return f.created, f.createErr
}

func (f *fakeAuth) DeleteUser(_ context.Context, id int64) error {
	f.deleteCalls = append(f.deleteCalls, id)
	return f.deleteErr
}

// fakeFiles records calls and returns canned results.
type fakeFiles struct {
	records   []filesvc.FileRecord
	listErr   error
	uploaded  filesvc.FileRecord
	uploadErr error
	deleteErr error
	openErr   error

	listCalls   int
	uploadCalls int
	deleteCalls []int64
	openCalls   []int64
}

func (f *fakeFiles) List(context.Context) ([]filesvc.FileRecord, error) {
	f.listCalls++
	return f.records, f.listErr
}

func (f *fakeFiles) Upload(_ context.Context, _ string, _ io.Reader) (filesvc.FileRecord, error) {
	f.uploadCalls++
	return f.uploaded, f.uploadErr
}

func (f *fakeFiles) Delete(_ context.Context, id int64) error {
	f.deleteCalls = append(f.deleteCalls, id)
	return f.deleteErr
}

func (f *fakeFiles) Open(_ context.Context, id int64, _ string) (filesvc.Download, error) {
	f.openCalls = append(f.openCalls, id)
	return filesvc.Download{}, f.openErr
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// runCmd executes a command and flattens batches into the messages they
// produce, in order.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, sub := range batch {
			out = append(out, runCmd(sub)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func expiredErr(op string) error {
	return apiclient.Unauthenticated(op, http.StatusUnauthorized, nil)
}
