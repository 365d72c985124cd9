/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package killer provides a consistent interface for checking a uniform set
// of kill keys. These fire above the keymap so a broken binding table can
// never lock the user in.
package killer

import tea "github.com/charmbracelet/bubbletea"

type Kill = uint

const (
	None Kill = iota
	// Global kills terminate the program unconditionally.
	Global
)

// keys that kill the program in Update no matter its other states
var globalKillKeys = [...]tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlD}

// GlobalKillKeys returns the bubbletea key types that act as global kills.
func GlobalKillKeys() [2]tea.KeyType {
	return globalKillKeys
}

// CheckKillKeys returns whether the given message is a kill key (or even a
// key message at all).
func CheckKillKeys(msg tea.Msg) Kill {
	keyMsg, isKeyMsg := msg.(tea.KeyMsg)
	if !isKeyMsg {
		return None
	}
	for _, kKey := range globalKillKeys {
		if keyMsg.Type == kKey {
			return Global
		}
	}
	return None
}
