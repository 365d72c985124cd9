/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

/*
Package complete is the schema-aware inline completion engine.

Given the text before the cursor it classifies the SQL clause context,
assembles a bounded candidate list (schema objects first, keywords as
fallback) and exposes the ghost-text suffix the editor renders after the
cursor. The suffix is rendering only; it never enters the buffer until the
user accepts it.
*/
package complete

import (
	"sort"
	"strings"

	"vizgres/db"
	"vizgres/highlight"
)

const maxCandidates = 5

// ContextKind classifies what may appear at the cursor.
type ContextKind uint8

const (
	// keywords only; the default when no clause is recognized
	Keyword ContextKind = iota
	// tables and views: after FROM, JOIN, INTO, UPDATE, TABLE, TRUNCATE
	Table
	// columns and functions: after SELECT, WHERE, AND, OR, ON, SET, ...
	ColumnOrFunction
	// columns only: after ORDER BY / GROUP BY
	Column
	// columns of one table: after "tablename."
	TableColumns
	// tables of one schema: after "schemaname."
	SchemaTables
)

// Context is the detected clause context; Name carries the dot qualifier
// for TableColumns and SchemaTables.
type Context struct {
	Kind ContextKind
	Name string
}

// Completer tracks the candidate list and cycling index between keystrokes.
type Completer struct {
	candidates []string
	index      int
	prefix     string
}

// New returns an empty completer.
func New() *Completer { return &Completer{} }

// Recompute rebuilds candidates for prefix under ctx. Returns the ghost
// suffix for the first candidate; ok is false when there are no candidates.
func (c *Completer) Recompute(prefix string, ctx Context, schema *db.SchemaTree) (suffix string, ok bool) {
	c.candidates = c.candidates[:0]
	c.index = 0
	c.prefix = prefix

	// a bare cursor only completes after a dot qualifier
	allowEmpty := ctx.Kind == TableColumns || ctx.Kind == SchemaTables
	if prefix == "" && !allowEmpty {
		return "", false
	}

	prefixLower := strings.ToLower(prefix)

	if schema != nil {
		switch ctx.Kind {
		case Keyword:
			// schema objects are never offered here

		case Table:
			for si := range schema.Schemas {
				s := &schema.Schemas[si]
				for i := range s.Tables {
					c.tryPush(s.Tables[i].Name, prefixLower)
				}
				for i := range s.Views {
					c.tryPush(s.Views[i].Name, prefixLower)
				}
			}

		case ColumnOrFunction:
			for si := range schema.Schemas {
				s := &schema.Schemas[si]
				for _, tbl := range [][]db.Table{s.Tables, s.Views} {
					for i := range tbl {
						for _, col := range tbl[i].Columns {
							c.tryPush(col.Name, prefixLower)
						}
					}
				}
				for i := range s.Functions {
					c.tryPush(s.Functions[i].Name, prefixLower)
				}
			}

		case Column:
			for si := range schema.Schemas {
				s := &schema.Schemas[si]
				for _, tbl := range [][]db.Table{s.Tables, s.Views} {
					for i := range tbl {
						for _, col := range tbl[i].Columns {
							c.tryPush(col.Name, prefixLower)
						}
					}
				}
			}

		case TableColumns:
			for si := range schema.Schemas {
				s := &schema.Schemas[si]
				for _, tbl := range [][]db.Table{s.Tables, s.Views} {
					for i := range tbl {
						if strings.EqualFold(tbl[i].Name, ctx.Name) {
							for _, col := range tbl[i].Columns {
								c.tryPushDot(col.Name, prefixLower)
							}
						}
					}
				}
			}

		case SchemaTables:
			for si := range schema.Schemas {
				s := &schema.Schemas[si]
				if !strings.EqualFold(s.Name, ctx.Name) {
					continue
				}
				for i := range s.Tables {
					c.tryPushDot(s.Tables[i].Name, prefixLower)
				}
				for i := range s.Views {
					c.tryPushDot(s.Views[i].Name, prefixLower)
				}
			}
		}
	}

	// keyword fallback, sorted, only for a typed prefix
	if prefix != "" && len(c.candidates) < maxCandidates {
		var matches []string
		for kw := range highlight.Keywords() {
			if len(kw) > len(prefix) && strings.HasPrefix(strings.ToLower(kw), prefixLower) {
				matches = append(matches, kw)
			}
		}
		sort.Strings(matches)
		for _, kw := range matches {
			if len(c.candidates) >= maxCandidates {
				break
			}
			if !c.contains(kw) {
				c.candidates = append(c.candidates, kw)
			}
		}
	}

	return c.suffix()
}

// Next advances to the next candidate, wrapping.
func (c *Completer) Next() (string, bool) {
	if len(c.candidates) == 0 {
		return "", false
	}
	c.index = (c.index + 1) % len(c.candidates)
	return c.suffix()
}

// Prev moves to the previous candidate, wrapping.
func (c *Completer) Prev() (string, bool) {
	if len(c.candidates) == 0 {
		return "", false
	}
	c.index--
	if c.index < 0 {
		c.index = len(c.candidates) - 1
	}
	return c.suffix()
}

// Clear drops all completion state.
func (c *Completer) Clear() {
	c.candidates = c.candidates[:0]
	c.index = 0
	c.prefix = ""
}

// Active reports whether candidates are available.
func (c *Completer) Active() bool { return len(c.candidates) > 0 }

// Candidates returns the current candidate list, owned by the completer.
func (c *Completer) Candidates() []string { return c.candidates }

// Current returns the candidate the ghost text previews.
func (c *Completer) Current() (string, bool) {
	if len(c.candidates) == 0 {
		return "", false
	}
	return c.candidates[c.index], true
}

// ghost suffix: the current candidate minus the typed prefix, preserving
// the candidate's own casing
func (c *Completer) suffix() (string, bool) {
	if c.index >= len(c.candidates) {
		return "", false
	}
	cand := c.candidates[c.index]
	if len(c.prefix) > len(cand) {
		return "", false
	}
	return cand[len(c.prefix):], true
}

func (c *Completer) contains(name string) bool {
	for _, existing := range c.candidates {
		if strings.EqualFold(existing, name) {
			return true
		}
	}
	return false
}

// push a strictly-longer case-insensitive prefix match
func (c *Completer) tryPush(name, prefixLower string) {
	if len(c.candidates) >= maxCandidates {
		return
	}
	if len(name) > len(prefixLower) &&
		strings.HasPrefix(strings.ToLower(name), prefixLower) &&
		!c.contains(name) {
		c.candidates = append(c.candidates, name)
	}
}

// dot-qualified push: empty prefix and exact-length matches are allowed
func (c *Completer) tryPushDot(name, prefixLower string) {
	if len(c.candidates) >= maxCandidates {
		return
	}
	if (prefixLower == "" || strings.HasPrefix(strings.ToLower(name), prefixLower)) &&
		!c.contains(name) {
		c.candidates = append(c.candidates, name)
	}
}

//#region context detection

const wordDelimiters = "().,;=<>!+-*/'\""

// WordBeforeCursor extracts the word immediately before byte offset col,
// bounded by whitespace or any delimiter byte.
func WordBeforeCursor(line string, col int) string {
	if col > len(line) {
		col = len(line)
	}
	start := col
	for start > 0 {
		b := line[start-1]
		if b == ' ' || b == '\t' || strings.IndexByte(wordDelimiters, b) >= 0 {
			break
		}
		start--
	}
	return line[start:col]
}

// DotQualifier returns the word before a literal dot that immediately
// precedes the prefix starting at prefixStart, or "" when there is none.
func DotQualifier(line string, prefixStart int) string {
	if prefixStart == 0 || prefixStart > len(line) {
		return ""
	}
	if line[prefixStart-1] != '.' {
		return ""
	}
	return WordBeforeCursor(line, prefixStart-1)
}

// clause keywords that pin the context when scanning backward
var tableClause = map[string]struct{}{
	"FROM": {}, "JOIN": {}, "INTO": {}, "UPDATE": {}, "TABLE": {}, "TRUNCATE": {},
}

var columnClause = map[string]struct{}{
	"SELECT": {}, "WHERE": {}, "AND": {}, "OR": {}, "ON": {}, "SET": {},
	"HAVING": {}, "CASE": {}, "WHEN": {}, "THEN": {}, "ELSE": {}, "RETURNING": {},
}

// DetectContext classifies the cursor position. With a dot qualifier the
// qualifier is checked against schema then table/view names; otherwise the
// text before the prefix is tokenized and scanned backward for the nearest
// clause keyword.
func DetectContext(textBeforePrefix, dotQual string, schema *db.SchemaTree) Context {
	if dotQual != "" {
		if schema != nil {
			if schema.FindSchema(dotQual) != nil {
				return Context{Kind: SchemaTables, Name: dotQual}
			}
			if schema.FindTable(dotQual) != nil {
				return Context{Kind: TableColumns, Name: dotQual}
			}
		}
		return Context{Kind: Keyword}
	}

	tokens := strings.FieldsFunc(textBeforePrefix, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' ||
			strings.ContainsRune(wordDelimiters, r)
	})

	for i := len(tokens) - 1; i >= 0; i-- {
		upper := strings.ToUpper(tokens[i])
		if _, ok := tableClause[upper]; ok {
			return Context{Kind: Table}
		}
		if _, ok := columnClause[upper]; ok {
			return Context{Kind: ColumnOrFunction}
		}
		if upper == "BY" && i > 0 {
			prev := strings.ToUpper(tokens[i-1])
			if prev == "ORDER" || prev == "GROUP" {
				return Context{Kind: Column}
			}
		}
	}

	return Context{Kind: Keyword}
}

//#endregion context detection
