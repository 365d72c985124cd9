/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

/*
Package app is the heart of interactive vizgres: the root tea.Model that
owns all mutable state and routes every event.

State mutation happens only inside Update. Keys resolve through the keymap
first; components only ever see the leftovers. Database work is dispatched
as detached commands (see events.go) whose completions re-enter Update as
messages.
*/
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vizgres/busywait"
	"vizgres/clilog"
	"vizgres/complete"
	"vizgres/config"
	"vizgres/db"
	"vizgres/editor"
	"vizgres/history"
	"vizgres/keymap"
	"vizgres/panel"
	"vizgres/results"
	"vizgres/stylesheet"
	"vizgres/tree"
	"vizgres/utilities/killer"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const statusLifetime = 5 * time.Second

// Severity classifies a status message.
type Severity uint8

const (
	StatusInfo Severity = iota
	StatusSuccess
	StatusWarning
	StatusError
)

type statusMessage struct {
	text  string
	level Severity
	at    time.Time
}

// Options configures a new Model.
type Options struct {
	Settings    config.Settings
	KeyMap      *keymap.KeyMap
	History     *history.QueryHistory
	Profiles    []config.Profile
	QueryTimout time.Duration
	// Warnings surfaced at startup (config parse, keybinding rejects)
	Warnings []string
	// InitialProfile, when non-nil, is connected to immediately
	InitialProfile *config.Profile
}

// Model is the application state and the root bubbletea model.
type Model struct {
	settings config.Settings
	keys     *keymap.KeyMap
	timeout  time.Duration

	focus     panel.Focus
	prevFocus panel.Focus

	database db.Database
	connName string

	browser   *tree.Model
	buf       *editor.Buffer
	completer *complete.Completer
	res       *results.Model
	hist      *history.QueryHistory

	commandBar textinput.Model
	inspector  viewport.Model
	inspectTxt string
	helpView   viewport.Model
	picker     pickerModel

	spin     spinner.Model
	querying bool
	// generation fences async completions; cancel bumps it so stale
	// results are discarded on arrival
	gen         uint64
	cancelQuery context.CancelFunc

	// error text rendered in the results pane after a failed query
	queryErrText string

	status statusMessage

	width, height int
	layout        stylesheet.Layout

	// connect scheduled by Init when a profile was given on the command line
	pendingProfile *config.Profile

	quitting bool
}

var _ tea.Model = (*Model)(nil)

// New assembles the application model.
func New(opts Options) *Model {
	bar := textinput.New()
	bar.Prompt = "/"
	bar.CharLimit = 256

	timeout := opts.QueryTimout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	m := &Model{
		settings:   opts.Settings,
		keys:       opts.KeyMap,
		timeout:    timeout,
		focus:      panel.QueryEditor,
		prevFocus:  panel.QueryEditor,
		browser:    tree.New(),
		buf:        editor.New(),
		completer:  complete.New(),
		res:        results.New(),
		hist:       opts.History,
		commandBar: bar,
		inspector:  viewport.New(0, 0),
		helpView:   viewport.New(0, 0),
		picker:     newPicker(opts.Profiles),
		spin:       busywait.NewSpinner(),
	}

	for _, w := range opts.Warnings {
		clilog.Writer.Warnf("%s", w)
	}
	if n := len(opts.Warnings); n > 0 {
		m.setStatus(fmt.Sprintf("%d config warning(s), see log", n), StatusWarning)
	}

	if opts.InitialProfile != nil {
		m.pendingProfile = opts.InitialProfile
	} else {
		m.focus = panel.Picker
	}

	return m
}

// Init starts the status ticker and, when a profile was given on the
// command line, the initial connection.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{statusTick(), m.spin.Tick}
	if m.pendingProfile != nil {
		cmds = append(cmds, m.startConnect(*m.pendingProfile))
		m.pendingProfile = nil
	}
	return tea.Batch(cmds...)
}

// Update is the single entrypoint for every event.
// Kill keys are handled above all else so a broken keymap cannot trap the
// user.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if killer.CheckKillKeys(msg) == killer.Global {
		return m, m.shutdown()
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case statusTickMsg:
		if m.status.text != "" && time.Since(m.status.at) > statusLifetime {
			m.status = statusMessage{}
		}
		return m, statusTick()

	case spinner.TickMsg:
		if !m.querying {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case connectDoneMsg:
		return m, m.onConnectDone(msg)

	case queryDoneMsg:
		m.onQueryDone(msg)
		return m, nil

	case schemaDoneMsg:
		m.onSchemaDone(msg)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.layout = stylesheet.Compute(w, h)
	m.res.SetPageSize(max(1, m.layout.Results.H-3))
	m.commandBar.Width = m.layout.Status.W - 2
	m.inspector.Width = overlayWidth(w)
	m.inspector.Height = overlayHeight(h)
	m.helpView.Width = overlayWidth(w)
	m.helpView.Height = overlayHeight(h)
	m.picker.resize(overlayWidth(w))
}

//#region focus

func (m *Model) setFocus(f panel.Focus) {
	m.focus = f
	if f == panel.CommandBar {
		m.commandBar.Focus()
	} else {
		m.commandBar.Blur()
	}
}

// openOverlay remembers the pane to return to on dismiss. Overlay focus is
// only ever set through here, so the overlay-visible invariant holds.
func (m *Model) openOverlay(f panel.Focus) {
	if !m.focus.IsOverlay() {
		m.prevFocus = m.focus
	}
	m.setFocus(f)
}

func (m *Model) dismissOverlay() {
	m.setFocus(m.prevFocus)
}

//#endregion focus

//#region status

func (m *Model) setStatus(text string, level Severity) {
	m.status = statusMessage{text: text, level: level, at: time.Now()}
	switch level {
	case StatusError:
		clilog.Writer.Errorf("%s", text)
	case StatusWarning:
		clilog.Writer.Warnf("%s", text)
	default:
		clilog.Writer.Debugf("status: %s", text)
	}
}

//#endregion status

//#region async lifecycle

func (m *Model) startConnect(p config.Profile) tea.Cmd {
	m.gen++
	m.setStatus("connecting to "+p.Display()+"...", StatusInfo)
	return connectCmd(context.Background(), p, m.timeout, m.gen)
}

func (m *Model) onConnectDone(msg connectDoneMsg) tea.Cmd {
	if msg.gen != m.gen {
		if msg.handle != nil {
			msg.handle.Close()
		}
		return nil
	}
	if msg.err != nil {
		// keep the picker up with the adapter's message as a banner
		m.openPicker()
		m.picker.errMsg = msg.err.Error()
		m.setStatus(msg.err.Error(), StatusError)
		return nil
	}
	if m.database != nil {
		m.database.Close()
	}
	m.database = msg.handle
	m.connName = msg.profile.Display()
	m.picker.errMsg = ""
	if m.focus == panel.Picker {
		m.setFocus(panel.QueryEditor)
		m.prevFocus = panel.QueryEditor
	}
	m.setStatus("connected to "+m.connName, StatusSuccess)
	if err := config.UpsertProfile(msg.profile); err != nil {
		clilog.Writer.Warnf("failed to save connection profile: %v", err)
	} else {
		m.picker.setProfiles(loadProfilesQuiet())
	}
	return m.startSchemaLoad()
}

func (m *Model) startSchemaLoad() tea.Cmd {
	if m.database == nil {
		return nil
	}
	m.gen++
	return loadSchemaCmd(context.Background(), m.database, m.gen)
}

func (m *Model) onSchemaDone(msg schemaDoneMsg) {
	if msg.gen != m.gen {
		return
	}
	if msg.err != nil {
		m.setStatus(msg.err.Error(), StatusError)
		return
	}
	m.browser.SetSchema(msg.tree)
	n := 0
	for _, s := range msg.tree.Schemas {
		n += len(s.Tables) + len(s.Views)
	}
	m.setStatus(fmt.Sprintf("schema loaded: %d schemas, %d relations", len(msg.tree.Schemas), n), StatusInfo)
}

func (m *Model) startQuery(sql string, explain bool) tea.Cmd {
	if m.database == nil {
		m.setStatus(db.ErrNotConnected.Error(), StatusError)
		return nil
	}
	sql = strings.TrimSpace(sql)
	if sql == "" {
		return nil
	}
	m.hist.Push(sql)
	if explain {
		sql = "EXPLAIN " + sql
	}

	if m.cancelQuery != nil {
		m.cancelQuery()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelQuery = cancel
	m.gen++
	m.querying = true
	m.queryErrText = ""
	m.setStatus("executing...", StatusInfo)
	return tea.Batch(runQueryCmd(ctx, m.database, sql, m.gen), m.spin.Tick)
}

func (m *Model) onQueryDone(msg queryDoneMsg) {
	if msg.gen != m.gen {
		return // cancelled or superseded; drop silently
	}
	m.querying = false
	m.cancelQuery = nil
	if msg.err != nil {
		switch {
		case msg.err == context.Canceled:
			m.setStatus("query cancelled", StatusWarning)
		case msg.err == db.ErrTimeout:
			m.queryErrText = "query timed out"
			m.setStatus("query timed out", StatusError)
		default:
			m.queryErrText = msg.err.Error()
			m.setStatus(msg.err.Error(), StatusError)
		}
		return
	}
	m.res.SetResults(msg.results)
	truncated := ""
	if msg.results.RowCount > len(msg.results.Rows) {
		truncated = " (truncated)"
	}
	m.setStatus(fmt.Sprintf("%d rows%s in %s", msg.results.RowCount, truncated,
		msg.results.ExecutionTime.Round(time.Millisecond)), StatusSuccess)
}

// cancelPending drops the in-flight request, if any. The completion still
// arrives but carries a stale generation and is discarded.
func (m *Model) cancelPending() {
	if m.cancelQuery == nil {
		return
	}
	m.cancelQuery()
	m.cancelQuery = nil
	m.querying = false
	m.gen++
	m.setStatus("query cancelled", StatusWarning)
}

//#endregion async lifecycle

// Quitting reports whether the model exited cleanly; checked by main after
// the program returns.
func (m *Model) Quitting() bool { return m.quitting }

func (m *Model) shutdown() tea.Cmd {
	m.quitting = true
	if m.cancelQuery != nil {
		m.cancelQuery()
	}
	if m.database != nil {
		m.database.Close()
		m.database = nil
	}
	return tea.Quit
}

func loadProfilesQuiet() []config.Profile {
	profiles, _, err := config.LoadProfiles()
	if err != nil {
		return nil
	}
	return profiles
}
