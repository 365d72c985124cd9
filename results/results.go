/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

/*
Package results is the selection and scrolling model for the results pane.

It owns the current QueryResults, the selected (row, column) pair and the
scroll offsets, and produces the inspector payload for the selected cell.
Rendering belongs to the application view.
*/
package results

import (
	"encoding/json"

	"vizgres/db"
	"vizgres/export"
)

// cell text wider than this is truncated in the grid; the inspector shows
// the full value
const displayWidth = 40

// Model is the results pane state.
type Model struct {
	results *db.QueryResults
	row     int
	col     int
	// first visible row / column for the renderer
	rowOffset int
	colOffset int
	// viewport height in rows, set on resize; page keys move by this
	pageSize int
}

// New returns an empty model.
func New() *Model {
	return &Model{pageSize: 10}
}

// SetResults installs fresh results and resets selection and scrolling.
func (m *Model) SetResults(r db.QueryResults) {
	m.results = &r
	m.row, m.col = 0, 0
	m.rowOffset, m.colOffset = 0, 0
}

// Clear drops the results.
func (m *Model) Clear() {
	m.results = nil
	m.row, m.col = 0, 0
	m.rowOffset, m.colOffset = 0, 0
}

// Results returns the current results, or nil.
func (m *Model) Results() *db.QueryResults { return m.results }

// HasResults reports whether rows are loaded.
func (m *Model) HasResults() bool { return m.results != nil }

// SetPageSize records the viewport height used by page navigation.
func (m *Model) SetPageSize(n int) {
	if n > 0 {
		m.pageSize = n
	}
}

// Selection returns the selected (row, column).
func (m *Model) Selection() (int, int) { return m.row, m.col }

// Offsets returns the scroll offsets (first visible row, first visible
// column).
func (m *Model) Offsets() (int, int) { return m.rowOffset, m.colOffset }

func (m *Model) rowCount() int {
	if m.results == nil {
		return 0
	}
	return len(m.results.Rows)
}

func (m *Model) colCount() int {
	if m.results == nil {
		return 0
	}
	return len(m.results.Columns)
}

//#region navigation

func (m *Model) MoveUp() {
	if m.row > 0 {
		m.row--
	}
	m.scrollIntoView()
}

func (m *Model) MoveDown() {
	if m.row < m.rowCount()-1 {
		m.row++
	}
	m.scrollIntoView()
}

func (m *Model) MoveLeft() {
	if m.col > 0 {
		m.col--
	}
	m.scrollIntoView()
}

func (m *Model) MoveRight() {
	if m.col < m.colCount()-1 {
		m.col++
	}
	m.scrollIntoView()
}

func (m *Model) PageUp() {
	m.row -= m.pageSize
	if m.row < 0 {
		m.row = 0
	}
	m.scrollIntoView()
}

func (m *Model) PageDown() {
	m.row += m.pageSize
	if n := m.rowCount(); m.row > n-1 {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
	m.scrollIntoView()
}

func (m *Model) GoToTop() {
	m.row = 0
	m.scrollIntoView()
}

func (m *Model) GoToBottom() {
	if n := m.rowCount(); n > 0 {
		m.row = n - 1
	}
	m.scrollIntoView()
}

func (m *Model) Home() {
	m.col = 0
	m.scrollIntoView()
}

func (m *Model) End() {
	if n := m.colCount(); n > 0 {
		m.col = n - 1
	}
	m.scrollIntoView()
}

func (m *Model) scrollIntoView() {
	if m.row < m.rowOffset {
		m.rowOffset = m.row
	}
	if m.row >= m.rowOffset+m.pageSize {
		m.rowOffset = m.row - m.pageSize + 1
	}
	if m.col < m.colOffset {
		m.colOffset = m.col
	}
}

//#endregion navigation

// SelectedCell returns the display string of the selected cell.
func (m *Model) SelectedCell() (string, bool) {
	cell, ok := m.selected()
	if !ok {
		return "", false
	}
	return cell.DisplayString(displayWidth), true
}

// SelectedCellExport returns the full untruncated cell text for the
// clipboard.
func (m *Model) SelectedCellExport() (string, bool) {
	cell, ok := m.selected()
	if !ok {
		return "", false
	}
	return export.CellExportString(cell), true
}

// SelectedRowExport returns the selected row's cells as export strings.
func (m *Model) SelectedRowExport() ([]string, bool) {
	if m.results == nil || m.row >= len(m.results.Rows) {
		return nil, false
	}
	values := m.results.Rows[m.row].Values
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = export.CellExportString(v)
	}
	return out, true
}

// InspectText returns the full textual representation for the inspector
// overlay: pretty-printed for JSON cells, export text otherwise.
func (m *Model) InspectText() (string, bool) {
	cell, ok := m.selected()
	if !ok {
		return "", false
	}
	if cell.Kind == db.KindJson {
		if pretty, err := json.MarshalIndent(cell.Json, "", "  "); err == nil {
			return string(pretty), true
		}
	}
	if cell.Kind == db.KindNull {
		return "NULL", true
	}
	return export.CellExportString(cell), true
}

// ColumnName returns the selected column's name for the inspector title.
func (m *Model) ColumnName() string {
	if m.results == nil || m.col >= len(m.results.Columns) {
		return ""
	}
	return m.results.Columns[m.col].Name
}

func (m *Model) selected() (db.CellValue, bool) {
	if m.results == nil || m.row >= len(m.results.Rows) {
		return db.CellValue{}, false
	}
	values := m.results.Rows[m.row].Values
	if m.col >= len(values) {
		return db.CellValue{}, false
	}
	return values[m.col], true
}
