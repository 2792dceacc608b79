// Package ui implements the FileDeck terminal pages: login, the per-user
// file dashboard, and admin user management. Each page is a bubbletea
// model whose Update is a pure function from (state, message) to
// (state, command); commands perform the resource-client calls and feed
// results back as messages, so every transition is testable without a
// terminal or a network.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/filedeck/filedeck/apiclient/authsvc"
	"github.com/filedeck/filedeck/apiclient/filesvc"
	"github.com/filedeck/filedeck/session"
)

// pageState is the lifecycle of a list-bearing page. Exactly one logical
// operation is in flight per page: while loading, the triggering controls
// are inert.
type pageState int

const (
	stateIdle pageState = iota
	stateLoading
	stateLoaded
	stateErrored
)

// Messages produced by commands. Every operation ends in exactly one of
// these; nothing is silently swallowed.

// loginDoneMsg carries the outcome of a login attempt.
type loginDoneMsg struct {
	sess session.Session
	err  error
}

// filesLoadedMsg carries the outcome of a dashboard list refresh.
type filesLoadedMsg struct {
	files []filesvc.FileRecord
	err   error
}

// uploadDoneMsg carries the outcome of an upload. A successful upload is
// always followed by a list refresh before the done state is rendered.
type uploadDoneMsg struct {
	record filesvc.FileRecord
	err    error
}

// deleteFileDoneMsg carries the outcome of a confirmed file delete.
type deleteFileDoneMsg struct {
	id  int64
	err error
}

// downloadDoneMsg carries the outcome of a download-to-disk.
type downloadDoneMsg struct {
	path string
	err  error
}

// usersLoadedMsg carries the outcome of an admin user list refresh.
type usersLoadedMsg struct {
	users []authsvc.UserRecord
	err   error
}

// userCreatedMsg carries the outcome of an admin add-user action.
type userCreatedMsg struct {
	user authsvc.UserRecord
	err  error
}

// userDeletedMsg carries the outcome of a confirmed user delete.
type userDeletedMsg struct {
	id  int64
	err error
}

// sessionExpiredMsg is emitted by any page when an operation reports the
// session as gone; the shell clears the store and returns to login.
type sessionExpiredMsg struct{}

// expireSession converts an unauthenticated failure into the shell-level
// expiry message.
func expireSession() tea.Msg {
	return sessionExpiredMsg{}
}
