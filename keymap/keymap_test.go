/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package keymap

import (
	"strings"
	"testing"

	"vizgres/panel"

	tea "github.com/charmbracelet/bubbletea"
)

func key(t tea.KeyType) tea.KeyMsg          { return tea.KeyMsg{Type: t} }
func char(r rune) tea.KeyMsg                { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }
func altKey(t tea.KeyType) tea.KeyMsg       { return tea.KeyMsg{Type: t, Alt: true} }

func resolve(t *testing.T, km *KeyMap, f panel.Focus, msg tea.KeyMsg) (Action, bool) {
	t.Helper()
	return km.Resolve(f, msg)
}

func TestGlobalQuit(t *testing.T) {
	km := Defaults()
	for _, f := range []panel.Focus{panel.QueryEditor, panel.ResultsViewer, panel.TreeBrowser} {
		a, ok := resolve(t, km, f, key(tea.KeyCtrlQ))
		if !ok || a != Quit {
			t.Errorf("ctrl+q in %v = (%v, %v), want Quit", f, a, ok)
		}
	}
}

func TestGlobalOverridesPanel(t *testing.T) {
	km := Defaults()
	a, ok := resolve(t, km, panel.ResultsViewer, key(tea.KeyTab))
	if !ok || a != CycleFocus {
		t.Errorf("tab should resolve globally to cycle_focus, got (%v, %v)", a, ok)
	}
}

func TestPanelSpecificEnter(t *testing.T) {
	km := Defaults()
	if a, _ := resolve(t, km, panel.ResultsViewer, key(tea.KeyEnter)); a != OpenInspector {
		t.Errorf("enter in results = %v, want open_inspector", a)
	}
	if a, _ := resolve(t, km, panel.TreeBrowser, key(tea.KeyEnter)); a != Expand {
		t.Errorf("enter in tree = %v, want expand", a)
	}
}

func TestEscapeByFocus(t *testing.T) {
	km := Defaults()
	for _, f := range []panel.Focus{panel.QueryEditor, panel.ResultsViewer, panel.TreeBrowser} {
		if a, _ := resolve(t, km, f, key(tea.KeyEsc)); a != CancelQuery {
			t.Errorf("esc in %v = %v, want cancel_query", f, a)
		}
	}
	for _, f := range []panel.Focus{panel.Inspector, panel.CommandBar, panel.Help} {
		if a, _ := resolve(t, km, f, key(tea.KeyEsc)); a != Dismiss {
			t.Errorf("esc in %v = %v, want dismiss", f, a)
		}
	}
}

func TestUnboundKey(t *testing.T) {
	km := Defaults()
	if _, ok := resolve(t, km, panel.QueryEditor, char('x')); ok {
		t.Error("plain x in the editor should be unbound (raw text insertion)")
	}
}

func TestShiftLetterUppercase(t *testing.T) {
	km := Defaults()
	// terminals report shift+g as an uppercase rune
	if a, ok := resolve(t, km, panel.ResultsViewer, char('G')); !ok || a != GoToBottom {
		t.Errorf("G in results = (%v, %v), want go_to_bottom", a, ok)
	}
	if a, ok := resolve(t, km, panel.ResultsViewer, char('Y')); !ok || a != CopyRow {
		t.Errorf("Y in results = (%v, %v), want copy_row", a, ok)
	}
}

func TestAltCompletionCycle(t *testing.T) {
	km := Defaults()
	if a, _ := resolve(t, km, panel.QueryEditor, altKey(tea.KeyDown)); a != NextCompletion {
		t.Errorf("alt+down in editor = %v, want next_completion", a)
	}
	if a, _ := resolve(t, km, panel.QueryEditor, altKey(tea.KeyUp)); a != PrevCompletion {
		t.Errorf("alt+up in editor = %v, want prev_completion", a)
	}
}

func TestCtrlArrowHistory(t *testing.T) {
	km := Defaults()
	if a, _ := resolve(t, km, panel.QueryEditor, key(tea.KeyCtrlUp)); a != HistoryBack {
		t.Error("ctrl+up in editor should be history_back")
	}
	if a, _ := resolve(t, km, panel.QueryEditor, key(tea.KeyCtrlDown)); a != HistoryForward {
		t.Error("ctrl+down in editor should be history_forward")
	}
}

func TestParseBind(t *testing.T) {
	tests := []struct {
		in   string
		want Bind
	}{
		{"ctrl+q", Bind{Code: "q", Mods: ModCtrl}},
		{"ctrl+shift+z", Bind{Code: "Z", Mods: ModCtrl | ModShift}},
		{"alt+down", Bind{Code: "down", Mods: ModAlt}},
		{"f5", Bind{Code: "f5"}},
		{"esc", Bind{Code: "esc"}},
		{"escape", Bind{Code: "esc"}},
		{"pgdn", Bind{Code: "pagedown"}},
		{"space", Bind{Code: "space"}},
		{"y", Bind{Code: "y"}},
		{" Ctrl+S ", Bind{Code: "s", Mods: ModCtrl}},
	}
	for _, tc := range tests {
		got, err := ParseBind(tc.in)
		if err != nil {
			t.Errorf("ParseBind(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseBind(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestParseBindErrors(t *testing.T) {
	for _, in := range []string{"", "meta+x", "f13", "f0", "foo", "ctrl+"} {
		if _, err := ParseBind(in); err == nil {
			t.Errorf("ParseBind(%q) should fail", in)
		}
	}
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("execute_query")
	if err != nil || a != ExecuteQuery {
		t.Errorf("ParseAction(execute_query) = (%v, %v)", a, err)
	}
	// accepted alias
	a, err = ParseAction("command_bar")
	if err != nil || a != OpenCommandBar {
		t.Errorf("ParseAction(command_bar) = (%v, %v)", a, err)
	}
	if _, err := ParseAction("warp_drive"); err == nil {
		t.Error("unknown action should fail")
	}
}

func TestMergeOverrides(t *testing.T) {
	km := Defaults()
	warnings := km.Merge(Overrides{
		Global: map[string]string{"f2": "show_help"},
		Editor: map[string]string{"ctrl+r": "execute_query"},
	})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if a, ok := resolve(t, km, panel.TreeBrowser, key(tea.KeyF2)); !ok || a != ShowHelp {
		t.Error("merged global binding did not take")
	}
	if a, ok := resolve(t, km, panel.QueryEditor, key(tea.KeyCtrlR)); !ok || a != ExecuteQuery {
		t.Error("merged editor binding did not take")
	}
}

func TestMergeCollectsWarnings(t *testing.T) {
	km := Defaults()
	warnings := km.Merge(Overrides{
		Global:  map[string]string{"bogus+x": "quit", "f3": "warp_drive"},
		Results: map[string]string{"f4": "quit"},
	})
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want 2 entries", warnings)
	}
	// the valid entry still applied
	if a, ok := resolve(t, km, panel.ResultsViewer, key(tea.KeyF4)); !ok || a != Quit {
		t.Error("valid entry should apply despite sibling warnings")
	}
}

func TestKeysForReverseLookup(t *testing.T) {
	km := Defaults()
	keys := km.KeysFor(panel.QueryEditor, ExecuteQuery)
	if len(keys) != 2 {
		t.Fatalf("KeysFor(editor, execute_query) = %v, want two binds", keys)
	}
	joined := strings.Join(keys, " ")
	if !strings.Contains(joined, "F5") || !strings.Contains(joined, "Ctrl+Enter") {
		t.Errorf("unexpected key names: %v", keys)
	}
}

func TestDisplayFormatting(t *testing.T) {
	tests := []struct {
		bind Bind
		want string
	}{
		{Bind{Code: "Z", Mods: ModCtrl | ModShift}, "Ctrl+Z"},
		{Bind{Code: "g", Mods: 0}, "g"},
		{Bind{Code: "space"}, "Space"},
		{Bind{Code: "pageup"}, "PgUp"},
		{Bind{Code: "f5"}, "F5"},
		{Bind{Code: "up", Mods: ModShift}, "Shift+Up"},
	}
	for _, tc := range tests {
		if got := tc.bind.Display(); got != tc.want {
			t.Errorf("Display(%+v) = %q, want %q", tc.bind, got, tc.want)
		}
	}
}

func TestFocusCycleReturnsToStart(t *testing.T) {
	start := panel.TreeBrowser
	f := start
	for i := 0; i < len(panel.Primary); i++ {
		f = f.Next()
	}
	if f != start {
		t.Errorf("cycling %d times ended at %v, want %v", len(panel.Primary), f, start)
	}
	for i := 0; i < len(panel.Primary); i++ {
		f = f.Prev()
	}
	if f != start {
		t.Errorf("reverse cycling ended at %v, want %v", f, start)
	}
}
