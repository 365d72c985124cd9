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
	"strings"

	"vizgres/keymap"
	"vizgres/panel"
	"vizgres/stylesheet"
)

// helpSection pairs a heading with the actions listed under it.
type helpSection struct {
	title   string
	focus   panel.Focus
	entries []helpEntry
}

type helpEntry struct {
	action keymap.Action
	desc   string
}

// the help overlay is generated from the live keymap, so user overrides
// show their actual keys
func helpSections() []helpSection {
	return []helpSection{
		{"Global", panel.QueryEditor, []helpEntry{
			{keymap.Quit, "quit"},
			{keymap.CycleFocus, "cycle pane focus"},
			{keymap.OpenCommandBar, "open command bar"},
			{keymap.ShowHelp, "show this help"},
		}},
		{"Editor", panel.QueryEditor, []helpEntry{
			{keymap.ExecuteQuery, "execute query"},
			{keymap.ExplainQuery, "explain query"},
			{keymap.ClearEditor, "clear editor"},
			{keymap.FormatQuery, "format query"},
			{keymap.HistoryBack, "older history entry"},
			{keymap.HistoryForward, "newer history entry"},
			{keymap.Undo, "undo"},
			{keymap.Redo, "redo"},
			{keymap.NextCompletion, "next completion"},
			{keymap.PrevCompletion, "previous completion"},
			{keymap.CancelQuery, "cancel running query"},
		}},
		{"Results", panel.ResultsViewer, []helpEntry{
			{keymap.MoveDown, "move selection"},
			{keymap.OpenInspector, "inspect cell"},
			{keymap.CopyCell, "copy cell"},
			{keymap.CopyRow, "copy row"},
			{keymap.ExportCsv, "export CSV"},
			{keymap.ExportJson, "export JSON"},
			{keymap.GoToTop, "first row"},
			{keymap.GoToBottom, "last row"},
			{keymap.Home, "first column"},
			{keymap.End, "last column"},
		}},
		{"Tree", panel.TreeBrowser, []helpEntry{
			{keymap.MoveDown, "move selection"},
			{keymap.Expand, "preview table / expand"},
			{keymap.ToggleExpand, "toggle expand"},
			{keymap.Collapse, "collapse / jump to parent"},
		}},
		{"Commands", panel.CommandBar, nil},
	}
}

var commandHelp = [][2]string{
	{"/refresh (/r)", "refresh schema"},
	{"/clear (/cl)", "clear editor"},
	{"/help (/h, /?)", "show help"},
	{"/quit (/q, /exit)", "quit"},
}

// openHelp renders the help text into the overlay viewport and focuses it.
func (m *Model) openHelp() {
	var out strings.Builder
	for _, section := range helpSections() {
		out.WriteString(stylesheet.Cur.Title.Render(section.title))
		out.WriteByte('\n')
		if section.entries == nil {
			for _, c := range commandHelp {
				fmt.Fprintf(&out, "%s%s %s\n", stylesheet.Indent,
					stylesheet.Cur.PrimaryText.Render(fmt.Sprintf("%-24s", c[0])), c[1])
			}
			out.WriteByte('\n')
			continue
		}
		for _, e := range section.entries {
			keys := m.keys.KeysFor(section.focus, e.action)
			if len(keys) == 0 {
				continue
			}
			fmt.Fprintf(&out, "%s%s %s\n", stylesheet.Indent,
				stylesheet.Cur.PrimaryText.Render(fmt.Sprintf("%-24s", strings.Join(keys, ", "))), e.desc)
		}
		out.WriteByte('\n')
	}

	m.helpView.SetContent(out.String())
	m.helpView.GotoTop()
	m.openOverlay(panel.Help)
}
