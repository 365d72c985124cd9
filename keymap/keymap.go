/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

/*
Package keymap resolves raw key events into semantic actions.

All bindings are data: a global table checked first, then a per-panel table.
Components never see keys that resolved to an action; they only handle the
leftovers (text insertion, cursor motion). User overrides from the config
file are merged on top of the defaults; invalid entries become warnings,
never startup failures.
*/
package keymap

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"vizgres/panel"

	tea "github.com/charmbracelet/bubbletea"
)

// Mod is a bitset of key modifiers.
type Mod uint8

const (
	ModCtrl Mod = 1 << iota
	ModAlt
	ModShift
)

// Bind is a key combination: a canonical code plus modifiers. Codes are the
// named keys of the config grammar ("enter", "up", "f5", ...) or a single
// character, case-sensitive.
type Bind struct {
	Code string
	Mods Mod
}

// KeyMap is the two-level binding table. Global lookup wins over
// panel-specific lookup.
type KeyMap struct {
	global map[Bind]Action
	panels map[panel.Focus]map[Bind]Action
}

// Resolve maps a bubbletea key event to a semantic action for the given
// focus. The second return is false when the key is unbound.
func (km *KeyMap) Resolve(focus panel.Focus, msg tea.KeyMsg) (Action, bool) {
	bind, ok := FromTea(msg)
	if !ok {
		return 0, false
	}
	if a, ok := km.global[bind]; ok {
		return a, true
	}
	if m, ok := km.panels[focus]; ok {
		if a, ok := m[bind]; ok {
			return a, true
		}
	}
	return 0, false
}

// ResolvePanelFirst checks the panel's table before the global one. Used
// for overlays, which must keep their own bindings (tab cycles a dialog's
// fields, not the panes) while still honoring unshadowed globals.
func (km *KeyMap) ResolvePanelFirst(focus panel.Focus, msg tea.KeyMsg) (Action, bool) {
	bind, ok := FromTea(msg)
	if !ok {
		return 0, false
	}
	if m, ok := km.panels[focus]; ok {
		if a, ok := m[bind]; ok {
			return a, true
		}
	}
	// tab/backtab stay with the overlay for field cycling
	if bind.Code == "tab" || bind.Code == "backtab" {
		return 0, false
	}
	if a, ok := km.global[bind]; ok {
		return a, true
	}
	return 0, false
}

// Overrides carries the user's keybinding sections from the config file.
type Overrides struct {
	Global  map[string]string
	Editor  map[string]string
	Results map[string]string
	Tree    map[string]string
}

// Merge applies user overrides on top of the current bindings. Invalid key
// strings or action names are collected as warnings and skipped.
func (km *KeyMap) Merge(ov Overrides) (warnings []string) {
	apply := func(dst map[Bind]Action, section string, binds map[string]string) {
		// deterministic warning order
		keys := make([]string, 0, len(binds))
		for k := range binds {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, keyStr := range keys {
			bind, err := ParseBind(keyStr)
			if err != nil {
				warnings = append(warnings,
					fmt.Sprintf("[keybindings.%s] invalid key %q: %v", section, keyStr, err))
				continue
			}
			action, err := ParseAction(binds[keyStr])
			if err != nil {
				warnings = append(warnings,
					fmt.Sprintf("[keybindings.%s] invalid action %q for key %q: %v", section, binds[keyStr], keyStr, err))
				continue
			}
			dst[bind] = action
		}
	}

	apply(km.global, "global", ov.Global)
	apply(km.panels[panel.QueryEditor], "editor", ov.Editor)
	apply(km.panels[panel.ResultsViewer], "results", ov.Results)
	apply(km.panels[panel.TreeBrowser], "tree", ov.Tree)
	return warnings
}

// KeysFor returns the human-readable key strings bound to action, searching
// the global table and the given panel's table. Sorted for stable display.
func (km *KeyMap) KeysFor(focus panel.Focus, action Action) []string {
	var keys []string
	for bind, a := range km.global {
		if a == action {
			keys = append(keys, bind.Display())
		}
	}
	if m, ok := km.panels[focus]; ok {
		for bind, a := range m {
			if a == action {
				keys = append(keys, bind.Display())
			}
		}
	}
	sort.Strings(keys)
	return keys
}

//#region key-string grammar

// ParseBind parses a config key string like "ctrl+shift+z": zero or more
// modifiers joined by +, then a terminal key name or single character.
// Shift on a letter produces the uppercase letter and keeps the modifier.
func ParseBind(s string) (Bind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Bind{}, fmt.Errorf("empty key string")
	}

	parts := strings.Split(s, "+")
	var mods Mod
	for _, part := range parts[:len(parts)-1] {
		switch strings.TrimSpace(part) {
		case "ctrl":
			mods |= ModCtrl
		case "alt":
			mods |= ModAlt
		case "shift":
			mods |= ModShift
		default:
			return Bind{}, fmt.Errorf("unknown modifier: %s", part)
		}
	}

	code, err := parseKeyCode(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil {
		return Bind{}, err
	}

	if mods&ModShift != 0 && len(code) == 1 {
		if r := rune(code[0]); unicode.IsLetter(r) {
			code = strings.ToUpper(code)
		}
	}

	return Bind{Code: code, Mods: mods}, nil
}

func parseKeyCode(s string) (string, error) {
	switch s {
	case "":
		return "", fmt.Errorf("empty key name")
	case "enter", "esc", "space", "tab", "backtab", "backspace", "delete",
		"up", "down", "left", "right", "home", "end", "pageup", "pagedown":
		return s, nil
	case "escape":
		return "esc", nil
	case "del":
		return "delete", nil
	case "pgup":
		return "pageup", nil
	case "pgdn", "pgdown":
		return "pagedown", nil
	}
	if len(s) >= 2 && s[0] == 'f' {
		n, err := strconv.Atoi(s[1:])
		if err != nil {
			return "", fmt.Errorf("invalid function key: %s", s)
		}
		if n < 1 || n > 12 {
			return "", fmt.Errorf("function key out of range: %s", s)
		}
		return s, nil
	}
	if len([]rune(s)) == 1 {
		return s, nil
	}
	return "", fmt.Errorf("unknown key: %s", s)
}

// Display renders a bind for the help overlay ("Ctrl+Shift+Z"). Shift is
// implied by an uppercase letter and omitted there.
func (b Bind) Display() string {
	var parts []string
	if b.Mods&ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if b.Mods&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if b.Mods&ModShift != 0 {
		upperChar := len(b.Code) == 1 && b.Code[0] >= 'A' && b.Code[0] <= 'Z'
		if !upperChar {
			parts = append(parts, "Shift")
		}
	}

	var name string
	switch b.Code {
	case "space":
		name = "Space"
	case "enter":
		name = "Enter"
	case "esc":
		name = "Esc"
	case "tab":
		name = "Tab"
	case "backtab":
		name = "Shift+Tab"
	case "backspace":
		name = "Backspace"
	case "delete":
		name = "Delete"
	case "up":
		name = "Up"
	case "down":
		name = "Down"
	case "left":
		name = "Left"
	case "right":
		name = "Right"
	case "home":
		name = "Home"
	case "end":
		name = "End"
	case "pageup":
		name = "PgUp"
	case "pagedown":
		name = "PgDn"
	default:
		if len(b.Code) >= 2 && b.Code[0] == 'f' {
			name = "F" + b.Code[1:]
		} else {
			name = b.Code
		}
	}

	parts = append(parts, name)
	return strings.Join(parts, "+")
}

//#endregion key-string grammar

//#region bubbletea normalization

// named tea key types and the modifiers they imply
var teaKeyCodes = map[tea.KeyType]Bind{
	tea.KeyEnter:          {Code: "enter"},
	tea.KeyTab:            {Code: "tab"},
	tea.KeyShiftTab:       {Code: "backtab", Mods: ModShift},
	tea.KeyEsc:            {Code: "esc"},
	tea.KeySpace:          {Code: "space"},
	tea.KeyBackspace:      {Code: "backspace"},
	tea.KeyDelete:         {Code: "delete"},
	tea.KeyUp:             {Code: "up"},
	tea.KeyDown:           {Code: "down"},
	tea.KeyLeft:           {Code: "left"},
	tea.KeyRight:          {Code: "right"},
	tea.KeyCtrlUp:         {Code: "up", Mods: ModCtrl},
	tea.KeyCtrlDown:       {Code: "down", Mods: ModCtrl},
	tea.KeyCtrlLeft:       {Code: "left", Mods: ModCtrl},
	tea.KeyCtrlRight:      {Code: "right", Mods: ModCtrl},
	tea.KeyShiftUp:        {Code: "up", Mods: ModShift},
	tea.KeyShiftDown:      {Code: "down", Mods: ModShift},
	tea.KeyShiftLeft:      {Code: "left", Mods: ModShift},
	tea.KeyShiftRight:     {Code: "right", Mods: ModShift},
	tea.KeyCtrlShiftUp:    {Code: "up", Mods: ModCtrl | ModShift},
	tea.KeyCtrlShiftDown:  {Code: "down", Mods: ModCtrl | ModShift},
	tea.KeyCtrlShiftLeft:  {Code: "left", Mods: ModCtrl | ModShift},
	tea.KeyCtrlShiftRight: {Code: "right", Mods: ModCtrl | ModShift},
	tea.KeyHome:           {Code: "home"},
	tea.KeyEnd:            {Code: "end"},
	tea.KeyCtrlHome:       {Code: "home", Mods: ModCtrl},
	tea.KeyCtrlEnd:        {Code: "end", Mods: ModCtrl},
	tea.KeyPgUp:           {Code: "pageup"},
	tea.KeyPgDown:         {Code: "pagedown"},
	tea.KeyF1:             {Code: "f1"},
	tea.KeyF2:             {Code: "f2"},
	tea.KeyF3:             {Code: "f3"},
	tea.KeyF4:             {Code: "f4"},
	tea.KeyF5:             {Code: "f5"},
	tea.KeyF6:             {Code: "f6"},
	tea.KeyF7:             {Code: "f7"},
	tea.KeyF8:             {Code: "f8"},
	tea.KeyF9:             {Code: "f9"},
	tea.KeyF10:            {Code: "f10"},
	tea.KeyF11:            {Code: "f11"},
	tea.KeyF12:            {Code: "f12"},
}

func init() {
	// control letters arrive as the ASCII control codes; tab (ctrl+i),
	// enter (ctrl+m) and esc (ctrl+[) stay under their own names above
	for c := byte(1); c <= 26; c++ {
		kt := tea.KeyType(c)
		if _, taken := teaKeyCodes[kt]; taken {
			continue
		}
		teaKeyCodes[kt] = Bind{Code: string(rune('a' + c - 1)), Mods: ModCtrl}
	}
}

// FromTea normalizes a bubbletea key message into a Bind. Uppercase runes
// imply shift; the Alt flag maps to the alt modifier. Returns false for key
// types the binding grammar cannot express.
func FromTea(msg tea.KeyMsg) (Bind, bool) {
	var bind Bind
	if msg.Type == tea.KeyRunes {
		if len(msg.Runes) != 1 {
			return Bind{}, false // paste or multi-rune input is never a binding
		}
		r := msg.Runes[0]
		bind.Code = string(r)
		if unicode.IsUpper(r) {
			bind.Mods |= ModShift
		}
	} else {
		named, ok := teaKeyCodes[msg.Type]
		if !ok {
			return Bind{}, false
		}
		bind.Code = named.Code
		bind.Mods = named.Mods
	}
	if msg.Alt {
		bind.Mods |= ModAlt
	}
	return bind, true
}

//#endregion bubbletea normalization
