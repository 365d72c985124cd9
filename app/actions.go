/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"vizgres/clilog"
	"vizgres/command"
	"vizgres/complete"
	"vizgres/export"
	"vizgres/keymap"
	"vizgres/panel"
	"vizgres/sqlfmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKey resolves the key through the keymap, then hands unresolved keys
// to the focused surface for raw handling.
//
// Overlays check their own table before the global one; a picker must keep
// tab for field cycling rather than lose it to cycle_focus.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	var (
		action keymap.Action
		bound  bool
	)
	if m.focus.IsOverlay() {
		action, bound = m.keys.ResolvePanelFirst(m.focus, msg)
	} else {
		action, bound = m.keys.Resolve(m.focus, msg)
	}
	if bound {
		return m.apply(action)
	}

	switch m.focus {
	case panel.QueryEditor:
		return m.editorRawKey(msg)
	case panel.CommandBar:
		var cmd tea.Cmd
		m.commandBar, cmd = m.commandBar.Update(msg)
		return cmd
	case panel.Picker:
		return m.picker.rawKey(msg)
	}
	return nil
}

// apply executes one semantic action against the current state.
func (m *Model) apply(action keymap.Action) tea.Cmd {
	clilog.Writer.Debugf("action %v (focus %v)", action, m.focus)

	// actions independent of focus
	switch action {
	case keymap.Quit:
		return m.shutdown()
	case keymap.CycleFocus:
		m.setFocus(m.focus.Next())
		return nil
	case keymap.CycleFocusReverse:
		m.setFocus(m.focus.Prev())
		return nil
	case keymap.OpenCommandBar:
		m.commandBar.SetValue("")
		m.openOverlay(panel.CommandBar)
		return nil
	case keymap.ShowHelp:
		m.openHelp()
		return nil
	case keymap.CancelQuery:
		m.cancelPending()
		return nil
	case keymap.NewTab, keymap.CloseTab, keymap.NextTab:
		m.setStatus("tabs are not available in this build", StatusInfo)
		return nil
	}

	switch m.focus {
	case panel.QueryEditor:
		return m.applyEditor(action)
	case panel.ResultsViewer:
		return m.applyResults(action)
	case panel.TreeBrowser:
		return m.applyTree(action)
	case panel.Inspector:
		m.applyScroll(&m.inspector, action)
		if action == keymap.CopyContent {
			m.copyToClipboard(m.inspectTxt, "cell content")
		}
		if action == keymap.Dismiss {
			m.dismissOverlay()
		}
		return nil
	case panel.Help:
		m.applyScroll(&m.helpView, action)
		if action == keymap.Dismiss {
			m.dismissOverlay()
		}
		return nil
	case panel.CommandBar:
		switch action {
		case keymap.Submit:
			return m.submitCommand()
		case keymap.Dismiss:
			m.dismissOverlay()
		}
		return nil
	case panel.Picker:
		switch action {
		case keymap.Submit:
			return m.submitPicker()
		case keymap.Dismiss:
			// without a live connection there is nothing to return to
			if m.database != nil {
				m.dismissOverlay()
			}
		}
		return nil
	}
	return nil
}

//#region editor actions

func (m *Model) applyEditor(action keymap.Action) tea.Cmd {
	switch action {
	case keymap.ExecuteQuery:
		sql := m.buf.Content()
		if m.settings.AutoFormat {
			if formatted := sqlfmt.Format(sql); formatted != "" {
				m.buf.SetContent(formatted)
				sql = formatted
			}
		}
		return m.startQuery(sql, false)

	case keymap.ExplainQuery:
		return m.startQuery(m.buf.Content(), true)

	case keymap.ClearEditor:
		m.buf.Clear()
		m.clearCompletion()

	case keymap.FormatQuery:
		if formatted := sqlfmt.Format(m.buf.Content()); formatted != "" {
			m.buf.SetContent(formatted)
		}
		m.clearCompletion()

	case keymap.HistoryBack:
		if entry, ok := m.hist.Back(m.buf.Content()); ok {
			m.buf.SetContent(entry)
			m.clearCompletion()
		}

	case keymap.HistoryForward:
		if entry, ok := m.hist.Forward(); ok {
			m.buf.SetContent(entry)
			m.clearCompletion()
		}

	case keymap.Undo:
		if m.buf.Undo() {
			m.recompute()
		}

	case keymap.Redo:
		if m.buf.Redo() {
			m.recompute()
		}

	case keymap.NextCompletion:
		if suffix, ok := m.completer.Next(); ok {
			m.buf.SetGhost(suffix)
		}

	case keymap.PrevCompletion:
		if suffix, ok := m.completer.Prev(); ok {
			m.buf.SetGhost(suffix)
		}
	}
	return nil
}

// editorRawKey handles keys the keymap left alone: text entry and motion.
func (m *Model) editorRawKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyRunes:
		if m.hist.Browsing() {
			m.hist.ExitBrowse()
		}
		for _, r := range msg.Runes {
			m.buf.InsertRune(r)
		}
		m.recompute()
	case tea.KeySpace:
		if m.hist.Browsing() {
			m.hist.ExitBrowse()
		}
		m.buf.InsertRune(' ')
		m.recompute()
	case tea.KeyEnter:
		if m.hist.Browsing() {
			m.hist.ExitBrowse()
		}
		m.buf.InsertNewline()
		m.clearCompletion()
	case tea.KeyBackspace:
		if m.hist.Browsing() {
			m.hist.ExitBrowse()
		}
		m.buf.DeleteBack()
		m.recompute()
	case tea.KeyUp:
		m.buf.MoveUp()
		m.clearCompletion()
	case tea.KeyDown:
		m.buf.MoveDown()
		m.clearCompletion()
	case tea.KeyLeft:
		m.buf.MoveLeft()
		m.clearCompletion()
	case tea.KeyRight:
		// right at end of line accepts the ghost text
		if m.buf.AtEndOfLine() && m.buf.Ghost() != "" {
			m.buf.AcceptGhost()
			m.clearCompletion()
		} else {
			m.buf.MoveRight()
			m.clearCompletion()
		}
	case tea.KeyHome:
		m.buf.MoveHome()
		m.clearCompletion()
	case tea.KeyEnd:
		m.buf.MoveEnd()
		m.clearCompletion()
	case tea.KeyTab:
		// tab is cycle_focus globally; unreachable here
	}
	return nil
}

// recompute rebuilds the completion candidates for the cursor position and
// refreshes the ghost text.
func (m *Model) recompute() {
	line := m.buf.CurrentLine()
	_, col := m.buf.Cursor()
	prefix := complete.WordBeforeCursor(line, col)
	qual := complete.DotQualifier(line, col-len(prefix))
	before := m.buf.TextBeforeCursor()
	ctx := complete.DetectContext(before[:len(before)-len(prefix)], qual, m.browser.Schema())
	if suffix, ok := m.completer.Recompute(prefix, ctx, m.browser.Schema()); ok {
		m.buf.SetGhost(suffix)
	} else {
		m.buf.ClearGhost()
	}
}

func (m *Model) clearCompletion() {
	m.completer.Clear()
	m.buf.ClearGhost()
}

//#endregion editor actions

//#region results actions

func (m *Model) applyResults(action keymap.Action) tea.Cmd {
	switch action {
	case keymap.MoveUp:
		m.res.MoveUp()
	case keymap.MoveDown:
		m.res.MoveDown()
	case keymap.MoveLeft:
		m.res.MoveLeft()
	case keymap.MoveRight:
		m.res.MoveRight()
	case keymap.PageUp:
		m.res.PageUp()
	case keymap.PageDown:
		m.res.PageDown()
	case keymap.GoToTop:
		m.res.GoToTop()
	case keymap.GoToBottom:
		m.res.GoToBottom()
	case keymap.Home:
		m.res.Home()
	case keymap.End:
		m.res.End()

	case keymap.OpenInspector:
		text, ok := m.res.InspectText()
		if !ok {
			return nil
		}
		m.inspectTxt = text
		m.inspector.SetContent(text)
		m.inspector.GotoTop()
		m.openOverlay(panel.Inspector)

	case keymap.CopyCell:
		if text, ok := m.res.SelectedCellExport(); ok {
			m.copyToClipboard(text, "cell")
		}

	case keymap.CopyRow:
		if cells, ok := m.res.SelectedRowExport(); ok {
			m.copyToClipboard(strings.Join(cells, "\t"), "row")
		}

	case keymap.ExportCsv:
		m.exportResults(export.Csv)

	case keymap.ExportJson:
		m.exportResults(export.Json)
	}
	return nil
}

func (m *Model) exportResults(format export.Format) {
	r := m.res.Results()
	if r == nil {
		m.setStatus("no results to export", StatusWarning)
		return
	}
	var payload string
	if format == export.Json {
		payload = export.ToJson(*r)
	} else {
		payload = export.ToCsv(*r)
	}
	name := fmt.Sprintf("vizgres_export_%s.%s", time.Now().Format("20060102_150405"), format.Extension())
	if err := os.WriteFile(name, []byte(payload), 0644); err != nil {
		m.setStatus(fmt.Sprintf("export failed: %v", err), StatusError)
		return
	}
	m.setStatus(fmt.Sprintf("exported %d rows to %s", len(r.Rows), name), StatusSuccess)
}

func (m *Model) copyToClipboard(text, what string) {
	if err := clipboard.WriteAll(text); err != nil {
		m.setStatus(fmt.Sprintf("copy failed: %v", err), StatusError)
		return
	}
	m.setStatus("copied "+what, StatusSuccess)
}

//#endregion results actions

//#region tree actions

func (m *Model) applyTree(action keymap.Action) tea.Cmd {
	switch action {
	case keymap.MoveUp:
		m.browser.MoveUp()
	case keymap.MoveDown:
		m.browser.MoveDown()
	case keymap.ToggleExpand:
		m.browser.ToggleExpand()
	case keymap.Collapse:
		m.browser.CollapseCurrent()
	case keymap.Expand:
		// enter previews tables and expands everything else
		if sql, ok := m.browser.PreviewQuery(); ok {
			m.buf.SetContent(sql)
			m.clearCompletion()
			return m.startQuery(sql, false)
		}
		m.browser.ExpandCurrent()
	}
	return nil
}

//#endregion tree actions

//#region overlays

func (m *Model) applyScroll(vp *viewport.Model, action keymap.Action) {
	switch action {
	case keymap.MoveUp:
		vp.SetYOffset(vp.YOffset - 1)
	case keymap.MoveDown:
		vp.SetYOffset(vp.YOffset + 1)
	case keymap.PageUp:
		vp.SetYOffset(vp.YOffset - vp.Height)
	case keymap.PageDown:
		vp.SetYOffset(vp.YOffset + vp.Height)
	case keymap.GoToTop:
		vp.GotoTop()
	case keymap.GoToBottom:
		vp.GotoBottom()
	}
}

func (m *Model) submitCommand() tea.Cmd {
	input := m.commandBar.Value()
	m.dismissOverlay()
	if strings.TrimSpace(input) == "" {
		return nil
	}

	verb, _, err := command.Parse(input)
	if err != nil {
		m.setStatus(err.Error(), StatusError)
		return nil
	}

	switch verb {
	case command.Refresh:
		return m.refreshSchema()
	case command.Clear:
		m.buf.Clear()
		m.clearCompletion()
	case command.Help:
		m.openHelp()
	case command.Quit:
		return m.shutdown()
	}
	return nil
}

// refreshSchema invalidates the adapter's cache when it has one, then
// reloads.
func (m *Model) refreshSchema() tea.Cmd {
	if m.database == nil {
		m.setStatus("not connected", StatusError)
		return nil
	}
	if inv, ok := m.database.(interface{ InvalidateCache() }); ok {
		inv.InvalidateCache()
	}
	m.setStatus("refreshing schema...", StatusInfo)
	return m.startSchemaLoad()
}

//#endregion overlays
