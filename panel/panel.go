/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package panel enumerates the focusable surfaces so the keymap and the
// application agree on them without importing each other.
package panel

// Focus identifies which surface receives key events that did not resolve
// globally.
type Focus uint8

const (
	TreeBrowser Focus = iota
	QueryEditor
	ResultsViewer
	CommandBar
	Inspector
	Help
	Picker
)

// Primary panes cycled by cycle_focus, in order.
var Primary = [...]Focus{TreeBrowser, QueryEditor, ResultsViewer}

// IsOverlay reports whether the focus is an overlay surface entered
// explicitly rather than via focus cycling.
func (f Focus) IsOverlay() bool {
	switch f {
	case CommandBar, Inspector, Help, Picker:
		return true
	}
	return false
}

func (f Focus) String() string {
	switch f {
	case TreeBrowser:
		return "tree"
	case QueryEditor:
		return "editor"
	case ResultsViewer:
		return "results"
	case CommandBar:
		return "command bar"
	case Inspector:
		return "inspector"
	case Help:
		return "help"
	case Picker:
		return "connections"
	}
	return "unknown"
}

// Next returns the primary pane after f in cycle order. Overlays cycle to
// the editor.
func (f Focus) Next() Focus {
	for i, p := range Primary {
		if p == f {
			return Primary[(i+1)%len(Primary)]
		}
	}
	return QueryEditor
}

// Prev returns the primary pane before f in cycle order.
func (f Focus) Prev() Focus {
	for i, p := range Primary {
		if p == f {
			return Primary[(i+len(Primary)-1)%len(Primary)]
		}
	}
	return QueryEditor
}
