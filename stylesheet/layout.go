/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package stylesheet

// pane geometry for the three primary panes plus the status line

// Rect is a pane rectangle in terminal cells.
type Rect struct {
	X, Y, W, H int
}

// Layout positions the primary panes: tree on the left, editor above
// results on the right, a one-row status line at the bottom. The command
// bar overlays the status line when open.
type Layout struct {
	Tree    Rect
	Editor  Rect
	Results Rect
	Status  Rect
}

const (
	minTreeWidth = 24
	maxTreeWidth = 40
	// share of the right column given to the editor
	editorShare = 40
)

// Compute splits a width x height terminal into the pane layout.
func Compute(width, height int) Layout {
	if width < 1 {
		width = 1
	}
	if height < 2 {
		height = 2
	}

	treeW := width / 5
	if treeW < minTreeWidth {
		treeW = minTreeWidth
	}
	if treeW > maxTreeWidth {
		treeW = maxTreeWidth
	}
	if treeW > width/2 {
		treeW = width / 2
	}

	main := height - 1 // status line
	editorH := main * editorShare / 100
	if editorH < 3 && main > 3 {
		editorH = 3
	}
	resultsH := main - editorH

	rightX := treeW
	rightW := width - treeW

	return Layout{
		Tree:    Rect{X: 0, Y: 0, W: treeW, H: main},
		Editor:  Rect{X: rightX, Y: 0, W: rightW, H: editorH},
		Results: Rect{X: rightX, Y: editorH, W: rightW, H: resultsH},
		Status:  Rect{X: 0, Y: height - 1, W: width, H: 1},
	}
}
