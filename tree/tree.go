/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

/*
Package tree is the schema browser model: the SchemaTree flattened into a
depth-indexed item list driven by a set of expanded path strings.

Paths are dotted ("schema", "schema.Tables", "schema.Tables.name",
"schema.Tables.name.column"); parent navigation splits the path instead of
keeping back-pointers, so the flattened list is rebuilt from scratch after
every change.
*/
package tree

import (
	"fmt"
	"strings"

	"vizgres/db"
)

// NodeKind classifies a tree row.
type NodeKind uint8

const (
	NodeSchema NodeKind = iota
	NodeCategory
	NodeTable
	NodeView
	NodeColumn
	NodeFunction
	NodeIndex
)

// Item is one visible row of the flattened tree.
type Item struct {
	Label      string
	Kind       NodeKind
	Depth      int
	Path       string
	Expandable bool
}

// Model is the tree browser state.
type Model struct {
	schema   *db.SchemaTree
	items    []Item
	selected int
	expanded map[string]struct{}
}

// New returns an empty tree.
func New() *Model {
	return &Model{expanded: make(map[string]struct{})}
}

// SetSchema installs a fresh schema tree, auto-expanding the first schema
// and, when it has tables, its Tables category.
func (m *Model) SetSchema(schema db.SchemaTree) {
	m.schema = &schema
	m.selected = 0
	m.expanded = make(map[string]struct{})
	if len(schema.Schemas) > 0 {
		first := schema.Schemas[0]
		m.expanded[first.Name] = struct{}{}
		if len(first.Tables) > 0 {
			m.expanded[first.Name+".Tables"] = struct{}{}
		}
	}
	m.rebuild()
}

// Clear drops the schema.
func (m *Model) Clear() {
	m.schema = nil
	m.items = nil
	m.selected = 0
	m.expanded = make(map[string]struct{})
}

// Schema exposes the loaded tree for the completer.
func (m *Model) Schema() *db.SchemaTree { return m.schema }

// Items returns the visible rows.
func (m *Model) Items() []Item { return m.items }

// Selected returns the selection index.
func (m *Model) Selected() int { return m.selected }

// SelectedItem returns the selected row.
func (m *Model) SelectedItem() (Item, bool) {
	if m.selected >= len(m.items) {
		return Item{}, false
	}
	return m.items[m.selected], true
}

func (m *Model) MoveUp() {
	if m.selected > 0 {
		m.selected--
	}
}

func (m *Model) MoveDown() {
	if len(m.items) > 0 && m.selected < len(m.items)-1 {
		m.selected++
	}
}

// ToggleExpand flips the selected node if it is expandable.
func (m *Model) ToggleExpand() {
	item, ok := m.SelectedItem()
	if !ok || !item.Expandable {
		return
	}
	if _, open := m.expanded[item.Path]; open {
		delete(m.expanded, item.Path)
	} else {
		m.expanded[item.Path] = struct{}{}
	}
	m.rebuild()
}

// ExpandCurrent expands the selected node; it never collapses.
func (m *Model) ExpandCurrent() {
	item, ok := m.SelectedItem()
	if !ok || !item.Expandable {
		return
	}
	if _, open := m.expanded[item.Path]; open {
		return
	}
	m.expanded[item.Path] = struct{}{}
	m.rebuild()
}

// CollapseCurrent collapses an expanded node; on an already-collapsed node
// the selection jumps to the parent path instead.
func (m *Model) CollapseCurrent() {
	item, ok := m.SelectedItem()
	if !ok {
		return
	}
	if _, open := m.expanded[item.Path]; open {
		delete(m.expanded, item.Path)
		m.rebuild()
		return
	}
	if item.Depth == 0 {
		return
	}
	parent, _, found := cutLast(item.Path)
	if !found {
		return
	}
	for i, it := range m.items {
		if it.Path == parent {
			m.selected = i
			return
		}
	}
}

// PreviewQuery returns the LIMIT-100 preview for a selected table or view.
func (m *Model) PreviewQuery() (string, bool) {
	item, ok := m.SelectedItem()
	if !ok || (item.Kind != NodeTable && item.Kind != NodeView) {
		return "", false
	}
	parts := strings.SplitN(item.Path, ".", 3)
	if len(parts) != 3 {
		return "", false
	}
	return fmt.Sprintf("SELECT * FROM %q.%q LIMIT 100", parts[0], parts[2]), true
}

// rebuild regenerates the flat item list from the schema and the expanded
// set, then clamps the selection.
func (m *Model) rebuild() {
	m.items = m.items[:0]
	if m.schema == nil {
		return
	}

	for _, schema := range m.schema.Schemas {
		hasChildren := len(schema.Tables) > 0 || len(schema.Views) > 0 ||
			len(schema.Functions) > 0 || len(schema.Indexes) > 0
		m.items = append(m.items, Item{
			Label:      schema.Name,
			Kind:       NodeSchema,
			Depth:      0,
			Path:       schema.Name,
			Expandable: hasChildren,
		})
		if !m.isExpanded(schema.Name) {
			continue
		}

		m.pushTableCategory(schema.Name, "Tables", NodeTable, schema.Tables)
		m.pushTableCategory(schema.Name, "Views", NodeView, schema.Views)

		if len(schema.Functions) > 0 {
			catPath := schema.Name + ".Functions"
			m.items = append(m.items, Item{Label: "Functions", Kind: NodeCategory, Depth: 1, Path: catPath, Expandable: true})
			if m.isExpanded(catPath) {
				for _, fn := range schema.Functions {
					label := fmt.Sprintf("%s(%s)", fn.Name, fn.Params)
					if fn.Returns != "" {
						label += " → " + fn.Returns
					}
					m.items = append(m.items, Item{
						Label: label,
						Kind:  NodeFunction,
						Depth: 2,
						Path:  catPath + "." + fn.Name,
					})
				}
			}
		}

		if len(schema.Indexes) > 0 {
			catPath := schema.Name + ".Indexes"
			m.items = append(m.items, Item{Label: "Indexes", Kind: NodeCategory, Depth: 1, Path: catPath, Expandable: true})
			if m.isExpanded(catPath) {
				for _, idx := range schema.Indexes {
					m.items = append(m.items, Item{
						Label: fmt.Sprintf("%s (%s)", idx.Name, strings.Join(idx.Columns, ", ")),
						Kind:  NodeIndex,
						Depth: 2,
						Path:  catPath + "." + idx.Name,
					})
				}
			}
		}
	}

	if len(m.items) > 0 && m.selected >= len(m.items) {
		m.selected = len(m.items) - 1
	}
}

// pushTableCategory emits the Tables or Views category and its children
func (m *Model) pushTableCategory(schemaName, category string, kind NodeKind, tables []db.Table) {
	if len(tables) == 0 {
		return
	}
	catPath := schemaName + "." + category
	m.items = append(m.items, Item{Label: category, Kind: NodeCategory, Depth: 1, Path: catPath, Expandable: true})
	if !m.isExpanded(catPath) {
		return
	}
	for _, tbl := range tables {
		tablePath := catPath + "." + tbl.Name
		m.items = append(m.items, Item{
			Label:      tbl.Name,
			Kind:       kind,
			Depth:      2,
			Path:       tablePath,
			Expandable: len(tbl.Columns) > 0,
		})
		if !m.isExpanded(tablePath) {
			continue
		}
		for _, col := range tbl.Columns {
			m.items = append(m.items, Item{
				Label: columnLabel(col),
				Kind:  NodeColumn,
				Depth: 3,
				Path:  tablePath + "." + col.Name,
			})
		}
	}
}

func (m *Model) isExpanded(path string) bool {
	_, ok := m.expanded[path]
	return ok
}

// "* name (type)" for primary keys, with the foreign-key target appended
func columnLabel(col db.Column) string {
	var out strings.Builder
	if col.PrimaryKey {
		out.WriteString("* ")
	}
	out.WriteString(col.Name)
	out.WriteString(" (")
	out.WriteString(col.Type.DisplayName())
	out.WriteString(")")
	if col.ForeignKey != nil {
		fmt.Fprintf(&out, " → %s.%s", col.ForeignKey.Table, col.ForeignKey.Column)
	}
	return out.String()
}

func cutLast(path string) (before, after string, found bool) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return path, "", false
	}
	return path[:i], path[i+1:], true
}
