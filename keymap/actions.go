/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package keymap

import (
	"fmt"
	"strings"
)

// Action is a semantic user intent, independent of the key that triggered it.
type Action uint8

const (
	// global
	Quit Action = iota
	OpenCommandBar
	CycleFocus
	CycleFocusReverse

	// navigation, shared by tree, results and overlays
	MoveUp
	MoveDown
	MoveLeft
	MoveRight
	PageUp
	PageDown
	GoToTop
	GoToBottom
	Home
	End

	// editor
	ExecuteQuery
	ExplainQuery
	ClearEditor
	HistoryBack
	HistoryForward
	Undo
	Redo
	FormatQuery

	// cancellation, bound in editor, results and tree
	CancelQuery

	// results
	OpenInspector
	CopyCell
	CopyRow
	ExportCsv
	ExportJson

	// inspector
	CopyContent

	// tree
	ToggleExpand
	Expand
	Collapse

	// completion
	NextCompletion
	PrevCompletion

	// overlays
	ShowHelp
	Dismiss
	Submit

	// tabs
	NewTab
	CloseTab
	NextTab
)

var actionNames = map[Action]string{
	Quit:              "quit",
	OpenCommandBar:    "open_command_bar",
	CycleFocus:        "cycle_focus",
	CycleFocusReverse: "cycle_focus_reverse",
	MoveUp:            "move_up",
	MoveDown:          "move_down",
	MoveLeft:          "move_left",
	MoveRight:         "move_right",
	PageUp:            "page_up",
	PageDown:          "page_down",
	GoToTop:           "go_to_top",
	GoToBottom:        "go_to_bottom",
	Home:              "home",
	End:               "end",
	ExecuteQuery:      "execute_query",
	ExplainQuery:      "explain_query",
	ClearEditor:       "clear_editor",
	HistoryBack:       "history_back",
	HistoryForward:    "history_forward",
	Undo:              "undo",
	Redo:              "redo",
	FormatQuery:       "format_query",
	CancelQuery:       "cancel_query",
	OpenInspector:     "open_inspector",
	CopyCell:          "copy_cell",
	CopyRow:           "copy_row",
	ExportCsv:         "export_csv",
	ExportJson:        "export_json",
	CopyContent:       "copy_content",
	ToggleExpand:      "toggle_expand",
	Expand:            "expand",
	Collapse:          "collapse",
	NextCompletion:    "next_completion",
	PrevCompletion:    "prev_completion",
	ShowHelp:          "show_help",
	Dismiss:           "dismiss",
	Submit:            "submit",
	NewTab:            "new_tab",
	CloseTab:          "close_tab",
	NextTab:           "next_tab",
}

var actionsByName = func() map[string]Action {
	m := make(map[string]Action, len(actionNames)+1)
	for a, n := range actionNames {
		m[n] = a
	}
	m["command_bar"] = OpenCommandBar // accepted alias
	return m
}()

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// ParseAction parses a snake_case action name from the config grammar.
func ParseAction(s string) (Action, error) {
	if a, ok := actionsByName[strings.TrimSpace(s)]; ok {
		return a, nil
	}
	return 0, fmt.Errorf("unknown action: %s", s)
}
