package ui

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/filedeck/filedeck/apiclient"
	"github.com/filedeck/filedeck/apiclient/filesvc"
)

// dashboardModel is the per-user file page: list, upload, download,
// delete. It follows idle → loading → {loaded | errored}; a successful
// mutation always refreshes the list before the done state is shown, so
// the rendered list is never stale relative to the action that produced
// it.
type dashboardModel struct {
	files       FileAPI
	downloadDir string

	state   pageState
	records []filesvc.FileRecord
	cursor  int

	confirm   confirmModel
	uploading bool // an upload path prompt is open
	pathInput textinput.Model
	busy      bool // a mutating request is in flight

	spin    spinner.Model
	errText string
	status  string
}

func newDashboardModel(files FileAPI, downloadDir string) dashboardModel {
	pathInput := textinput.New()
	pathInput.Placeholder = "path to file"
	pathInput.CharLimit = 512

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return dashboardModel{
		files:       files,
		downloadDir: downloadDir,
		pathInput:   pathInput,
		spin:        sp,
	}
}

// enter transitions the page into its initial load.
func (m dashboardModel) enter() (dashboardModel, tea.Cmd) {
	m.state = stateLoading
	m.errText = ""
	m.status = "Loading files..."
	return m, tea.Batch(m.spin.Tick, m.loadCmd())
}

func (m dashboardModel) loadCmd() tea.Cmd {
	api := m.files
	return func() tea.Msg {
		records, err := api.List(context.Background())
		return filesLoadedMsg{files: records, err: err}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
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

	case filesLoadedMsg:
		if msg.err != nil {
			if apiclient.IsUnauthenticated(msg.err) {
				return m, expireSession
			}
			// errored clears prior content: the stale list must not
			// outlive a failed refresh.
			m.state = stateErrored
			m.records = nil
			m.cursor = 0
			m.errText = msg.err.Error()
			m.status = ""
			return m, nil
		}
		m.state = stateLoaded
		m.records = msg.files
		if m.cursor >= len(m.records) {
			m.cursor = max(0, len(m.records)-1)
		}
		m.errText = ""
		if m.status == "Loading files..." {
			m.status = ""
		}
		return m, nil

	case uploadDoneMsg:
		m.busy = false
		if msg.err != nil {
			if apiclient.IsUnauthenticated(msg.err) {
				return m, expireSession
			}
			m.errText = msg.err.Error()
			m.status = ""
			return m, nil
		}
		// Refresh before showing done.
		m.status = fmt.Sprintf("Uploaded %s", msg.record.Filename)
		m.state = stateLoading
		return m, tea.Batch(m.spin.Tick, m.loadCmd())

	case deleteFileDoneMsg:
		m.busy = false
		if msg.err != nil {
			if apiclient.IsUnauthenticated(msg.err) {
				return m, expireSession
			}
			m.errText = msg.err.Error()
			m.status = ""
			return m, nil
		}
		m.status = "File deleted"
		m.state = stateLoading
		return m, tea.Batch(m.spin.Tick, m.loadCmd())

	case downloadDoneMsg:
		m.busy = false
		if msg.err != nil {
			if apiclient.IsUnauthenticated(msg.err) {
				return m, expireSession
			}
			m.errText = msg.err.Error()
			m.status = ""
			return m, nil
		}
		m.errText = ""
		m.status = fmt.Sprintf("Saved to %s", msg.path)
		return m, nil
	}

	if m.uploading {
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	// The confirmation modal captures all input while open.
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

	if m.uploading {
		switch msg.String() {
		case "enter":
			return m.submitUpload()
		case "esc":
			m.uploading = false
			m.pathInput.SetValue("")
			return m, nil
		}
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}

	// A mutating request disables its triggering controls until it
	// reports back.
	if m.busy || m.state == stateLoading {
		return m, nil
	}

	switch msg.String() {
	case "r":
		return m.enter()
	case "u":
		m.uploading = true
		m.errText = ""
		m.pathInput.SetValue("")
		return m, m.pathInput.Focus()
	case "j", "down":
		if m.cursor < len(m.records)-1 {
			m.cursor++
		}
		return m, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "x", "delete":
		if rec, ok := m.selected(); ok {
			m.confirm.open(
				fmt.Sprintf("Delete %q? This cannot be undone.", rec.Filename),
				m.deleteCmd(rec.ID),
			)
		}
		return m, nil
	case "d":
		if rec, ok := m.selected(); ok {
			m.busy = true
			m.status = fmt.Sprintf("Downloading %s...", rec.Filename)
			m.errText = ""
			return m, tea.Batch(m.spin.Tick, m.downloadCmd(rec))
		}
		return m, nil
	}
	return m, nil
}

func (m dashboardModel) selected() (filesvc.FileRecord, bool) {
	if m.cursor < 0 || m.cursor >= len(m.records) {
		return filesvc.FileRecord{}, false
	}
	return m.records[m.cursor], true
}

func (m dashboardModel) submitUpload() (dashboardModel, tea.Cmd) {
	path := m.pathInput.Value()
	if path == "" {
		m.errText = "no file selected"
		return m, nil
	}
	m.uploading = false
	m.pathInput.SetValue("")
	m.busy = true
	m.status = "Uploading..."
	m.errText = ""

	api := m.files
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return uploadDoneMsg{err: apiclient.LocalValidation("upload", fmt.Sprintf("cannot open %s", path))}
		}
		defer f.Close()
		record, err := api.Upload(context.Background(), path, f)
		return uploadDoneMsg{record: record, err: err}
	})
}

func (m dashboardModel) deleteCmd(id int64) tea.Cmd {
	api := m.files
	return func() tea.Msg {
		return deleteFileDoneMsg{id: id, err: api.Delete(context.Background(), id)}
	}
}

func (m dashboardModel) downloadCmd(rec filesvc.FileRecord) tea.Cmd {
	api := m.files
	dir := m.downloadDir
	return func() tea.Msg {
		dl, err := api.Open(context.Background(), rec.ID, rec.Filename)
		if err != nil {
			return downloadDoneMsg{err: err}
		}
		path, err := dl.SaveTo(dir)
		if err != nil {
			return downloadDoneMsg{err: err}
		}
		return downloadDoneMsg{path: path}
	}
}

func (m dashboardModel) View() string {
	if m.confirm.active {
		return m.confirm.view()
	}

	s := titleStyle.Render("FileDeck — Dashboard") + "\n\n"

	switch m.state {
	case stateLoading:
		s += m.spin.View() + " " + statusStyle.Render(m.status)
	case stateErrored:
		s += errorStyle.Render(m.errText)
	case stateLoaded:
		s += m.viewList()
	}

	if m.uploading {
		s += "\n\nUpload file\n" + m.pathInput.View() + "\n" + helpStyle.Render("enter: upload   esc: cancel")
	}

	if m.state == stateLoaded {
		if m.errText != "" {
			s += "\n\n" + errorStyle.Render(m.errText)
		} else if m.status != "" {
			s += "\n\n" + successStyle.Render(m.status)
		}
	}

	s += "\n\n" + helpStyle.Render("r: refresh   u: upload   d: download   x: delete   l: log out   ctrl+c: quit")
	return s
}

func (m dashboardModel) viewList() string {
	if len(m.records) == 0 {
		return emptyStyle.Render("No files uploaded yet. Upload one to get started.")
	}

	s := headerRowStyle.Render(fmt.Sprintf("%-32s %10s  %-24s %s", "Name", "Size", "Type", "Created")) + "\n"
	for i, rec := range m.records {
		line := fmt.Sprintf("%-32s %10s  %-24s %s", rec.Filename, humanSize(rec.SizeBytes), rec.ContentType, rec.CreatedAt)
		if i == m.cursor {
			line = selectedRowStyle.Render(line)
		}
		s += line + "\n"
	}
	return s
}
