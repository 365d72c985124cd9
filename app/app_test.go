/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package app

import (
	"errors"
	"strings"
	"testing"

	"vizgres/clilog"
	"vizgres/config"
	"vizgres/db"
	"vizgres/history"
	"vizgres/internal/testsupport"
	"vizgres/keymap"
	"vizgres/panel"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	clilog.InitDiscard()
	hist, err := history.New(100)
	if err != nil {
		t.Fatal(err)
	}
	m := New(Options{
		Settings: config.DefaultSettings(),
		KeyMap:   keymap.Defaults(),
		History:  hist,
	})
	m.resize(120, 40)
	return m
}

// connect wires a mock database and a loaded schema directly into the model
func connect(t *testing.T, m *Model, mock *testsupport.MockDB) {
	t.Helper()
	m.database = mock
	m.connName = "test/db"
	m.setFocus(panel.QueryEditor)
	m.prevFocus = panel.QueryEditor
	m.browser.SetSchema(mock.Schema)
}

func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func typeString(m *Model, s string) {
	for _, r := range s {
		if r == ' ' {
			press(m, tea.KeyMsg{Type: tea.KeySpace})
		} else {
			press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		}
	}
}

// drain runs a command and feeds its message back into the model,
// returning the message it produced.
func drain(t *testing.T, m *Model, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			inner := c()
			switch inner.(type) {
			case queryDoneMsg, schemaDoneMsg, connectDoneMsg:
				m.Update(inner)
				return inner
			}
		}
		t.Fatal("batch contained no completion message")
	}
	m.Update(msg)
	return msg
}

func TestStartupFocusIsPickerWithoutProfile(t *testing.T) {
	m := newTestModel(t)
	if m.focus != panel.Picker {
		t.Errorf("focus = %v, want picker", m.focus)
	}
}

func TestExecuteQueryFlow(t *testing.T) {
	m := newTestModel(t)
	mock := &testsupport.MockDB{
		Schema:  testsupport.SampleSchema(),
		Results: []db.QueryResults{testsupport.SampleResults()},
	}
	connect(t, m, mock)

	typeString(m, "SELECT 1")
	cmd := press(m, tea.KeyMsg{Type: tea.KeyF5})
	if !m.querying {
		t.Fatal("querying flag should be set after execute")
	}
	drain(t, m, cmd)

	if m.querying {
		t.Error("querying flag should clear on completion")
	}
	if !m.res.HasResults() {
		t.Fatal("results should be loaded")
	}
	if got := mock.QueryLog(); len(got) != 1 || got[0] != "SELECT 1" {
		t.Errorf("executed queries = %v", got)
	}
	if m.hist.Len() != 1 {
		t.Errorf("history length = %d, want 1", m.hist.Len())
	}
	if !strings.Contains(m.status.text, "2 rows") {
		t.Errorf("status = %q", m.status.text)
	}
}

func TestQueryFailureKeepsEditorContent(t *testing.T) {
	m := newTestModel(t)
	mock := &testsupport.MockDB{
		Schema:   testsupport.SampleSchema(),
		QueryErr: &db.QueryError{Message: "relation \"nope\" does not exist"},
	}
	connect(t, m, mock)

	typeString(m, "SELECT * FROM nope")
	cmd := press(m, tea.KeyMsg{Type: tea.KeyF5})
	drain(t, m, cmd)

	if m.buf.Content() != "SELECT * FROM nope" {
		t.Error("editor must retain the failed query")
	}
	if !strings.Contains(m.queryErrText, "does not exist") {
		t.Errorf("results pane error = %q", m.queryErrText)
	}
	if m.status.level != StatusError {
		t.Errorf("status level = %v, want error", m.status.level)
	}
}

func TestTimeoutMessage(t *testing.T) {
	m := newTestModel(t)
	mock := &testsupport.MockDB{QueryErr: db.ErrTimeout}
	connect(t, m, mock)

	typeString(m, "SELECT pg_sleep(999)")
	drain(t, m, press(m, tea.KeyMsg{Type: tea.KeyF5}))

	if m.queryErrText != "query timed out" {
		t.Errorf("error text = %q", m.queryErrText)
	}
}

func TestCancellationDiscardsStaleResult(t *testing.T) {
	m := newTestModel(t)
	mock := &testsupport.MockDB{
		Schema:  testsupport.SampleSchema(),
		Results: []db.QueryResults{testsupport.SampleResults()},
	}
	connect(t, m, mock)

	typeString(m, "SELECT 1")
	cmd := press(m, tea.KeyMsg{Type: tea.KeyF5})

	// cancel while in flight
	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.querying {
		t.Error("cancel should clear the querying flag")
	}

	// the task still completes; its stale generation must be discarded
	drain(t, m, cmd)
	if m.res.HasResults() {
		t.Error("stale result should have been dropped")
	}
}

func TestExplainPrefixesQuery(t *testing.T) {
	m := newTestModel(t)
	mock := &testsupport.MockDB{Schema: testsupport.SampleSchema()}
	connect(t, m, mock)

	typeString(m, "SELECT 1")
	drain(t, m, press(m, tea.KeyMsg{Type: tea.KeyCtrlE}))

	if got := mock.QueryLog(); len(got) != 1 || got[0] != "EXPLAIN SELECT 1" {
		t.Errorf("executed = %v", got)
	}
	// history keeps the bare query
	if entries := m.hist.Entries(); entries[0] != "SELECT 1" {
		t.Errorf("history = %v", entries)
	}
}

func TestFocusCycling(t *testing.T) {
	m := newTestModel(t)
	connect(t, m, &testsupport.MockDB{Schema: testsupport.SampleSchema()})

	start := m.focus
	for i := 0; i < len(panel.Primary); i++ {
		press(m, tea.KeyMsg{Type: tea.KeyTab})
	}
	if m.focus != start {
		t.Errorf("cycling %d times ended on %v, want %v", len(panel.Primary), m.focus, start)
	}
	press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != start {
		t.Error("reverse then forward should return to start")
	}
}

func TestGhostTextOnTyping(t *testing.T) {
	m := newTestModel(t)
	connect(t, m, &testsupport.MockDB{Schema: testsupport.SampleSchema()})

	typeString(m, "SELECT * FROM us")
	if got := m.buf.Ghost(); got != "ers" {
		t.Errorf("ghost = %q, want \"ers\"", got)
	}

	// right at end of line accepts
	press(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.buf.Content() != "SELECT * FROM users" {
		t.Errorf("content after accept = %q", m.buf.Content())
	}
	if m.buf.Ghost() != "" {
		t.Error("ghost should clear after accept")
	}
}

func TestCompletionCycling(t *testing.T) {
	m := newTestModel(t)
	connect(t, m, &testsupport.MockDB{Schema: testsupport.SampleSchema()})

	typeString(m, "SELECT * FROM user")
	first := m.buf.Ghost()
	press(m, tea.KeyMsg{Type: tea.KeyDown, Alt: true})
	second := m.buf.Ghost()
	if first == second {
		t.Errorf("alt+down should cycle candidates (%q -> %q)", first, second)
	}
}

func TestHistoryBrowseKeys(t *testing.T) {
	m := newTestModel(t)
	connect(t, m, &testsupport.MockDB{Schema: testsupport.SampleSchema()})

	m.hist.Push("SELECT 1")
	m.hist.Push("SELECT 2")
	typeString(m, "draft")

	press(m, tea.KeyMsg{Type: tea.KeyCtrlUp})
	if m.buf.Content() != "SELECT 2" {
		t.Errorf("ctrl+up content = %q", m.buf.Content())
	}
	press(m, tea.KeyMsg{Type: tea.KeyCtrlUp})
	if m.buf.Content() != "SELECT 1" {
		t.Errorf("second ctrl+up content = %q", m.buf.Content())
	}
	press(m, tea.KeyMsg{Type: tea.KeyCtrlDown})
	press(m, tea.KeyMsg{Type: tea.KeyCtrlDown})
	if m.buf.Content() != "draft" {
		t.Errorf("stepping past newest should restore the draft, got %q", m.buf.Content())
	}
}

func TestTreePreviewExecutes(t *testing.T) {
	m := newTestModel(t)
	mock := &testsupport.MockDB{
		Schema:  testsupport.SampleSchema(),
		Results: []db.QueryResults{testsupport.SampleResults()},
	}
	connect(t, m, mock)
	m.setFocus(panel.TreeBrowser)

	// move to public.Tables.users and press enter
	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	drain(t, m, cmd)

	want := `SELECT * FROM "public"."users" LIMIT 100`
	if got := mock.QueryLog(); len(got) != 1 || got[0] != want {
		t.Errorf("executed = %v, want %q", got, want)
	}
	if m.buf.Content() != want {
		t.Errorf("editor content = %q", m.buf.Content())
	}
}

func TestCommandBarQuit(t *testing.T) {
	m := newTestModel(t)
	connect(t, m, &testsupport.MockDB{})

	press(m, tea.KeyMsg{Type: tea.KeyCtrlP})
	if m.focus != panel.CommandBar {
		t.Fatalf("focus = %v, want command bar", m.focus)
	}
	typeString(m, "quit")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Quitting() {
		t.Error("quit command should shut down")
	}
}

func TestCommandBarUnknownVerb(t *testing.T) {
	m := newTestModel(t)
	connect(t, m, &testsupport.MockDB{})

	press(m, tea.KeyMsg{Type: tea.KeyCtrlP})
	typeString(m, "frobnicate")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.Quitting() {
		t.Error("unknown command must not quit")
	}
	if m.status.level != StatusError || !strings.Contains(m.status.text, "frobnicate") {
		t.Errorf("status = %+v", m.status)
	}
}

func TestCommandBarRefresh(t *testing.T) {
	m := newTestModel(t)
	mock := &testsupport.MockDB{Schema: testsupport.SampleSchema()}
	connect(t, m, mock)

	press(m, tea.KeyMsg{Type: tea.KeyCtrlP})
	typeString(m, "r")
	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	msg := drain(t, m, cmd)

	if _, ok := msg.(schemaDoneMsg); !ok {
		t.Fatalf("refresh should load the schema, got %T", msg)
	}
	if m.browser.Schema() == nil {
		t.Error("schema should be set after refresh")
	}
}

func TestHelpOverlayRoundTrip(t *testing.T) {
	m := newTestModel(t)
	connect(t, m, &testsupport.MockDB{})
	m.setFocus(panel.ResultsViewer)

	press(m, tea.KeyMsg{Type: tea.KeyF1})
	if m.focus != panel.Help {
		t.Fatalf("focus = %v, want help", m.focus)
	}
	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.focus != panel.ResultsViewer {
		t.Errorf("dismiss should restore focus, got %v", m.focus)
	}
}

func TestInspectorOverlay(t *testing.T) {
	m := newTestModel(t)
	mock := &testsupport.MockDB{
		Schema:  testsupport.SampleSchema(),
		Results: []db.QueryResults{testsupport.SampleResults()},
	}
	connect(t, m, mock)
	typeString(m, "SELECT 1")
	drain(t, m, press(m, tea.KeyMsg{Type: tea.KeyF5}))

	m.setFocus(panel.ResultsViewer)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.focus != panel.Inspector {
		t.Fatalf("focus = %v, want inspector", m.focus)
	}
	if m.inspectTxt != "1" {
		t.Errorf("inspector content = %q", m.inspectTxt)
	}
	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.focus != panel.ResultsViewer {
		t.Errorf("dismiss should return to results, got %v", m.focus)
	}
}

func TestConnectFailureReopensPicker(t *testing.T) {
	m := newTestModel(t)
	m.Update(connectDoneMsg{gen: m.gen, err: &db.ConnError{Message: "refused"}})
	if m.focus != panel.Picker {
		t.Errorf("focus = %v, want picker", m.focus)
	}
	if !strings.Contains(m.picker.errMsg, "refused") {
		t.Errorf("picker banner = %q", m.picker.errMsg)
	}
}

func TestStatusExpiry(t *testing.T) {
	m := newTestModel(t)
	m.setStatus("hello", StatusInfo)
	m.status.at = m.status.at.Add(-statusLifetime * 2)
	m.Update(statusTickMsg{})
	if m.status.text != "" {
		t.Errorf("status should expire, still %q", m.status.text)
	}
}

func TestQuitClosesDatabase(t *testing.T) {
	m := newTestModel(t)
	mock := &testsupport.MockDB{}
	connect(t, m, mock)

	press(m, tea.KeyMsg{Type: tea.KeyCtrlQ})
	if !mock.Closed {
		t.Error("shutdown should close the database handle")
	}
	if !m.Quitting() {
		t.Error("model should report quitting")
	}
}

func TestErrorsAreClassified(t *testing.T) {
	var connErr error = &db.ConnError{Message: "x"}
	var qErr error = &db.QueryError{Message: "x"}
	var cTarget *db.ConnError
	var qTarget *db.QueryError
	if !errors.As(connErr, &cTarget) || !errors.As(qErr, &qTarget) {
		t.Error("error kinds should be matchable with errors.As")
	}
}
