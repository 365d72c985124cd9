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

	"vizgres/highlight"
	"vizgres/panel"
	"vizgres/stylesheet"
	"vizgres/tree"

	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
)

// View renders the whole screen: three primary panes over a status line,
// with overlays replacing the pane area while open.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading..."
	}

	var body string
	switch m.focus {
	case panel.Inspector:
		body = m.renderOverlayBox("Inspect: "+m.res.ColumnName(), m.inspector.View())
	case panel.Help:
		body = m.renderOverlayBox("Help", m.helpView.View())
	case panel.Picker:
		body = m.renderOverlayBox("Connect", m.renderPicker())
	default:
		left := m.renderTree()
		right := lipgloss.JoinVertical(lipgloss.Left, m.renderEditor(), m.renderResults())
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusLine())
}

func (m *Model) paneBorder(f panel.Focus) lipgloss.Style {
	if m.focus == f {
		return stylesheet.Cur.FocusedBorder
	}
	return stylesheet.Cur.UnfocusedBorder
}

func paneTitle(title string, focused bool) string {
	if focused {
		return stylesheet.Cur.Title.Render(title)
	}
	return stylesheet.Cur.SecondaryText.Render(title)
}

//#region tree pane

func (m *Model) renderTree() string {
	r := m.layout.Tree
	innerW, innerH := r.W-2, r.H-3 // border + title

	var out strings.Builder
	out.WriteString(paneTitle("Schema", m.focus == panel.TreeBrowser))
	out.WriteByte('\n')

	items := m.browser.Items()
	if len(items) == 0 {
		out.WriteString(stylesheet.Cur.DisabledText.Render("no schema loaded"))
	}

	// keep the selection visible
	start := 0
	if sel := m.browser.Selected(); sel >= innerH {
		start = sel - innerH + 1
	}
	for i := start; i < len(items) && i-start < innerH; i++ {
		item := items[i]
		line := strings.Repeat(stylesheet.Indent, item.Depth) + treeSigil(item) + item.Label
		line = truncate(line, innerW)
		switch {
		case i == m.browser.Selected():
			line = stylesheet.Cur.Selected.Render(line)
		case item.Kind == tree.NodeCategory:
			line = stylesheet.Cur.SecondaryText.Render(line)
		case item.Kind == tree.NodeColumn:
			line = stylesheet.Cur.DisabledText.Render(line)
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}

	return m.paneBorder(panel.TreeBrowser).
		Width(innerW).Height(r.H - 2).
		Render(out.String())
}

func treeSigil(item tree.Item) string {
	if !item.Expandable {
		return "  "
	}
	return "▸ "
}

//#endregion tree pane

//#region editor pane

func (m *Model) renderEditor() string {
	r := m.layout.Editor
	innerW, innerH := r.W-2, r.H-3

	var out strings.Builder
	out.WriteString(paneTitle("Query", m.focus == panel.QueryEditor))
	out.WriteByte('\n')

	lines := m.buf.Lines()
	curLine, curCol := m.buf.Cursor()

	// pre-scan hidden lines so the first visible one starts with the right
	// block-comment state
	start := 0
	if curLine >= innerH {
		start = curLine - innerH + 1
	}
	inBC := false
	for i := 0; i < start; i++ {
		inBC = highlight.ScanBlockComment(lines[i], inBC)
	}

	focused := m.focus == panel.QueryEditor
	for i := start; i < len(lines) && i-start < innerH; i++ {
		line := lines[i]
		cursorCol := -1
		if i == curLine && focused && curCol < len(line) {
			cursorCol = curCol
		}
		var rendered string
		if m.settings.SyntaxHighlighting {
			rendered, inBC = renderHighlighted(line, inBC, cursorCol)
		} else {
			rendered = renderPlain(line, cursorCol)
		}
		if i == curLine {
			rendered += renderCursorTail(m.buf.Ghost(), curCol == len(line), focused)
		}
		out.WriteString(truncateStyled(rendered, innerW))
		out.WriteByte('\n')
	}

	return m.paneBorder(panel.QueryEditor).
		Width(innerW).Height(r.H - 2).
		Render(out.String())
}

// renderHighlighted styles one line's tokens and threads the comment
// state. cursorCol >= 0 marks that byte with the cursor style.
func renderHighlighted(line string, inBC bool, cursorCol int) (string, bool) {
	tokens, next := highlight.Line(line, inBC)
	var out strings.Builder
	for _, tok := range tokens {
		var style lipgloss.Style
		switch tok.Kind {
		case highlight.Keyword:
			style = stylesheet.Cur.Keyword
		case highlight.String:
			style = stylesheet.Cur.String
		case highlight.Number:
			style = stylesheet.Cur.Number
		case highlight.Comment:
			style = stylesheet.Cur.Comment
		default:
			style = lipgloss.NewStyle()
		}

		if cursorCol >= tok.Start && cursorCol < tok.End {
			out.WriteString(style.Render(line[tok.Start:cursorCol]))
			out.WriteString(stylesheet.Cur.Selected.Render(string(line[cursorCol])))
			out.WriteString(style.Render(line[cursorCol+1 : tok.End]))
		} else {
			out.WriteString(style.Render(line[tok.Start:tok.End]))
		}
	}
	return out.String(), next
}

func renderPlain(line string, cursorCol int) string {
	if cursorCol < 0 || cursorCol >= len(line) {
		return line
	}
	return line[:cursorCol] +
		stylesheet.Cur.Selected.Render(string(line[cursorCol])) +
		line[cursorCol+1:]
}

// renderCursorTail draws the ghost suffix (and a block cursor when the
// editor has focus) after the cursor line.
func renderCursorTail(ghost string, cursorAtEnd, focused bool) string {
	var out strings.Builder
	if ghost != "" && cursorAtEnd {
		out.WriteString(stylesheet.Cur.GhostText.Render(ghost))
	}
	if focused && cursorAtEnd {
		out.WriteString(stylesheet.Cur.Selected.Render(" "))
	}
	return out.String()
}

//#endregion editor pane

//#region results pane

func (m *Model) renderResults() string {
	r := m.layout.Results
	innerW := r.W - 2

	title := "Results"
	if res := m.res.Results(); res != nil {
		title = fmt.Sprintf("Results (%d rows)", res.RowCount)
	}

	var content string
	switch {
	case m.querying:
		content = m.spin.View() + " executing..."
	case m.queryErrText != "":
		content = stylesheet.Cur.ErrorText.Render(m.queryErrText)
	case !m.res.HasResults():
		content = stylesheet.Cur.DisabledText.Render("no results")
	default:
		content = m.renderResultsTable(innerW, r.H-4)
	}

	var out strings.Builder
	out.WriteString(paneTitle(title, m.focus == panel.ResultsViewer))
	out.WriteByte('\n')
	out.WriteString(content)

	return m.paneBorder(panel.ResultsViewer).
		Width(innerW).Height(r.H - 2).
		Render(out.String())
}

const maxCellWidth = 32

// renderResultsTable builds a bubble-table for the visible window. The
// results model owns selection; the highlighted row gets the selection
// style directly.
func (m *Model) renderResultsTable(width, height int) string {
	res := m.res.Results()
	selRow, selCol := m.res.Selection()
	rowOff, colOff := m.res.Offsets()

	if height < 1 {
		height = 1
	}

	// column widths from the header and the visible rows
	endRow := min(len(res.Rows), rowOff+height)
	var cols []table.Column
	usedW := 0
	for c := colOff; c < len(res.Columns); c++ {
		w := len(res.Columns[c].Name)
		for r := rowOff; r < endRow; r++ {
			if cw := len(res.Rows[r].Values[c].DisplayString(maxCellWidth)); cw > w {
				w = cw
			}
		}
		w = min(w+2, maxCellWidth)
		if usedW+w+1 > width && c > colOff {
			break
		}
		usedW += w + 1
		key := fmt.Sprintf("c%d", c)
		title := res.Columns[c].Name
		if c == selCol {
			title = "▸" + title
		}
		cols = append(cols, table.NewColumn(key, title, w))
	}

	rows := make([]table.Row, 0, endRow-rowOff)
	for r := rowOff; r < endRow; r++ {
		data := table.RowData{}
		for c := colOff; c < colOff+len(cols) && c < len(res.Columns); c++ {
			data[fmt.Sprintf("c%d", c)] = res.Rows[r].Values[c].DisplayString(maxCellWidth)
		}
		row := table.NewRow(data)
		if r == selRow {
			row = row.WithStyle(stylesheet.Cur.Selected)
		}
		rows = append(rows, row)
	}

	t := table.New(cols).
		WithRows(rows).
		WithBaseStyle(stylesheet.Cur.TableEven.UnsetPadding()).
		HeaderStyle(stylesheet.Cur.TableHeader).
		BorderRounded()

	return t.View()
}

//#endregion results pane

//#region overlays and status

func overlayWidth(w int) int  { return max(20, w*3/4) }
func overlayHeight(h int) int { return max(5, h*3/4) }

func (m *Model) renderOverlayBox(title, content string) string {
	box := stylesheet.Cur.FocusedBorder.
		Width(overlayWidth(m.width)).
		Render(stylesheet.Cur.Title.Render(title) + "\n" + content)
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderPicker() string {
	p := &m.picker
	var out strings.Builder

	out.WriteString("Connection URL:\n")
	out.WriteString(p.urlInput.View())
	out.WriteString("\n\n")

	if p.errMsg != "" {
		out.WriteString(stylesheet.Cur.ErrorText.Render(p.errMsg))
		out.WriteString("\n\n")
	}

	if len(p.filtered) > 0 {
		out.WriteString(stylesheet.Cur.SecondaryText.Render("Saved connections (tab to switch, del to remove):"))
		out.WriteByte('\n')
		for i, idx := range p.filtered {
			prof := p.profiles[idx]
			line := fmt.Sprintf("%s (%s@%s:%d/%s)", prof.Name, prof.Username, prof.Host, prof.Port, prof.Database)
			if p.field == fieldList && i == p.listIdx {
				line = stylesheet.Cur.Selected.Render(line)
			}
			out.WriteString(stylesheet.Indent + line + "\n")
		}
	} else if len(p.profiles) == 0 {
		out.WriteString(stylesheet.Cur.DisabledText.Render("no saved connections yet"))
		out.WriteByte('\n')
	}

	return out.String()
}

func (m *Model) renderStatusLine() string {
	var left string
	switch m.status.level {
	case StatusError:
		left = stylesheet.Cur.ErrorText.Render(m.status.text)
	case StatusWarning:
		left = stylesheet.Cur.WarnText.Render(m.status.text)
	case StatusSuccess:
		left = stylesheet.Cur.SuccessText.Render(m.status.text)
	default:
		left = stylesheet.Cur.InfoText.Render(m.status.text)
	}

	if m.focus == panel.CommandBar {
		left = m.commandBar.View()
	}

	right := stylesheet.Cur.DisabledText.Render("not connected")
	if m.connName != "" {
		right = stylesheet.Cur.PrimaryText.Render(m.connName)
	}
	if m.querying {
		right = m.spin.View() + " " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

//#endregion overlays and status

func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= w {
		return s
	}
	if w <= 1 {
		return stylesheet.Ellipsis
	}
	return string(runes[:w-1]) + stylesheet.Ellipsis
}

// truncateStyled clips by rendered width, keeping ANSI sequences intact.
func truncateStyled(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(w).Render(s)
}
