/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package sqlfmt

import (
	"strings"
	"testing"
)

func TestSimpleSelect(t *testing.T) {
	got := Format("select * from users where id=1")
	want := "SELECT *\nFROM users\nWHERE id = 1"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestKeywordsUppercased(t *testing.T) {
	got := Format("select a from t order by a")
	for _, kw := range []string{"SELECT", "FROM", "ORDER BY"} {
		if !strings.Contains(got, kw) {
			t.Errorf("missing %q in %q", kw, got)
		}
	}
	if strings.Contains(got, "select") {
		t.Errorf("lowercase keyword survived: %q", got)
	}
}

func TestGroupByStaysTogether(t *testing.T) {
	got := Format("select a, count(*) from t group by a")
	if !strings.Contains(got, "GROUP BY a") {
		t.Errorf("BY should stay glued to GROUP: %q", got)
	}
	if !strings.Contains(got, "count(*)") {
		t.Errorf("function call mangled: %q", got)
	}
}

func TestAndIndented(t *testing.T) {
	got := Format("select * from t where a=1 and b=2 or c=3")
	lines := strings.Split(got, "\n")
	var found int
	for _, l := range lines {
		if strings.HasPrefix(l, "  AND") || strings.HasPrefix(l, "  OR") {
			found++
		}
	}
	if found != 2 {
		t.Errorf("AND/OR should sit on indented lines:\n%s", got)
	}
}

func TestBlankLineBetweenStatements(t *testing.T) {
	got := Format("select 1; select 2")
	if !strings.Contains(got, ";\n\nSELECT 2") {
		t.Errorf("statements should be separated by a blank line: %q", got)
	}
}

func TestTrailingSemicolonNoBlankLine(t *testing.T) {
	got := Format("select 1;")
	if strings.HasSuffix(got, "\n") {
		t.Errorf("trailing semicolon should not add a blank line: %q", got)
	}
}

func TestStringsUntouched(t *testing.T) {
	got := Format("select 'from WHERE select' from t")
	if !strings.Contains(got, "'from WHERE select'") {
		t.Errorf("string literal must pass through unchanged: %q", got)
	}
}

func TestDottedNamesGlued(t *testing.T) {
	got := Format("select * from public.users")
	if !strings.Contains(got, "public.users") {
		t.Errorf("dotted reference split: %q", got)
	}
}

func TestLeftJoinOneLine(t *testing.T) {
	got := Format("select * from a left join b on a.id=b.id")
	if !strings.Contains(got, "LEFT JOIN b") {
		t.Errorf("LEFT JOIN should stay on one line: %q", got)
	}
	foundOn := false
	for _, l := range strings.Split(got, "\n") {
		if strings.HasPrefix(strings.TrimSpace(l), "ON ") {
			foundOn = true
		}
	}
	if !foundOn {
		t.Errorf("ON should start its own line: %q", got)
	}
}

func TestEmptyInput(t *testing.T) {
	if got := Format("  \n\t "); got != "" {
		t.Errorf("whitespace input = %q, want empty", got)
	}
}
