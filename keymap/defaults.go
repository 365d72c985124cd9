/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package keymap

import "vizgres/panel"

// Defaults builds the stock binding tables. User overrides are merged on
// top via Merge.
func Defaults() *KeyMap {
	global := map[Bind]Action{
		{Code: "q", Mods: ModCtrl}:       Quit,
		{Code: "p", Mods: ModCtrl}:       OpenCommandBar,
		{Code: "tab"}:                    CycleFocus,
		{Code: "backtab", Mods: ModShift}: CycleFocusReverse,
		{Code: "f1"}:                     ShowHelp,
		{Code: "t", Mods: ModCtrl}:       NewTab,
		{Code: "w", Mods: ModCtrl}:       CloseTab,
		{Code: "n", Mods: ModCtrl}:       NextTab,
	}

	editor := map[Bind]Action{
		{Code: "f5"}:                            ExecuteQuery,
		{Code: "enter", Mods: ModCtrl}:          ExecuteQuery,
		{Code: "e", Mods: ModCtrl}:              ExplainQuery,
		{Code: "l", Mods: ModCtrl}:              ClearEditor,
		{Code: "up", Mods: ModCtrl}:             HistoryBack,
		{Code: "down", Mods: ModCtrl}:           HistoryForward,
		{Code: "z", Mods: ModCtrl}:              Undo,
		{Code: "Z", Mods: ModCtrl | ModShift}:   Redo,
		{Code: "f", Mods: ModCtrl | ModAlt}:     FormatQuery,
		{Code: "esc"}:                           CancelQuery,
		{Code: "down", Mods: ModAlt}:            NextCompletion,
		{Code: "up", Mods: ModAlt}:              PrevCompletion,
	}

	results := map[Bind]Action{
		{Code: "enter"}:              OpenInspector,
		{Code: "y"}:                  CopyCell,
		{Code: "Y", Mods: ModShift}:  CopyRow,
		{Code: "s", Mods: ModCtrl}:   ExportCsv,
		{Code: "j", Mods: ModCtrl}:   ExportJson,
		{Code: "esc"}:                CancelQuery,
		{Code: "?"}:                  ShowHelp,
	}
	insertVimNav(results)

	tree := map[Bind]Action{
		{Code: "down"}:  MoveDown,
		{Code: "j"}:     MoveDown,
		{Code: "up"}:    MoveUp,
		{Code: "k"}:     MoveUp,
		{Code: "enter"}: Expand,
		{Code: "h"}:     Collapse,
		{Code: "space"}: ToggleExpand,
		{Code: "esc"}:   CancelQuery,
		{Code: "?"}:     ShowHelp,
	}

	inspector := map[Bind]Action{
		{Code: "esc"}: Dismiss,
		{Code: "y"}:   CopyContent,
	}
	insertScrollNav(inspector)

	help := map[Bind]Action{
		{Code: "esc"}: Dismiss,
	}
	insertScrollNav(help)

	commandBar := map[Bind]Action{
		{Code: "enter"}: Submit,
		{Code: "esc"}:   Dismiss,
	}

	picker := map[Bind]Action{
		{Code: "enter"}: Submit,
		{Code: "esc"}:   Dismiss,
	}

	return &KeyMap{
		global: global,
		panels: map[panel.Focus]map[Bind]Action{
			panel.QueryEditor:   editor,
			panel.ResultsViewer: results,
			panel.TreeBrowser:   tree,
			panel.Inspector:     inspector,
			panel.Help:          help,
			panel.CommandBar:    commandBar,
			panel.Picker:        picker,
		},
	}
}

// vim-style grid navigation: vertical nav plus h/l, arrows and Home/End on
// the column axis
func insertVimNav(m map[Bind]Action) {
	insertScrollNav(m)
	m[Bind{Code: "right"}] = MoveRight
	m[Bind{Code: "l"}] = MoveRight
	m[Bind{Code: "left"}] = MoveLeft
	m[Bind{Code: "h"}] = MoveLeft
	m[Bind{Code: "home"}] = Home
	m[Bind{Code: "end"}] = End
}

// vertical-only navigation; Home/End jump to top/bottom here and are
// overwritten by insertVimNav in horizontal contexts
func insertScrollNav(m map[Bind]Action) {
	m[Bind{Code: "down"}] = MoveDown
	m[Bind{Code: "j"}] = MoveDown
	m[Bind{Code: "up"}] = MoveUp
	m[Bind{Code: "k"}] = MoveUp
	m[Bind{Code: "pagedown"}] = PageDown
	m[Bind{Code: "pageup"}] = PageUp
	m[Bind{Code: "g"}] = GoToTop
	m[Bind{Code: "G", Mods: ModShift}] = GoToBottom
	m[Bind{Code: "home"}] = GoToTop
	m[Bind{Code: "end"}] = GoToBottom
}
