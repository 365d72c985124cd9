/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package killer_test

import (
	"testing"

	"vizgres/internal/testsupport"
	. "vizgres/utilities/killer"

	tea "github.com/charmbracelet/bubbletea"
)

func TestCheckKillKeys(t *testing.T) {
	t.Run("global kill keys", func(t *testing.T) {
		for _, typ := range GlobalKillKeys() {
			msg := tea.KeyMsg(tea.Key{Type: typ})
			if CheckKillKeys(msg) != Global {
				t.Error("global kill key did not return a global kill enum")
			}
		}
	})

	t.Run("not a kill key", func(t *testing.T) {
		for _, r := range "abcXYZ019?/" {
			msg := tea.KeyMsg(tea.Key{Type: tea.KeyRunes, Runes: []rune{r}})
			if kill := CheckKillKeys(msg); kill != None {
				t.Error("non kill key returned a kill", testsupport.ExpectedActual(None, kill))
			}
		}
	})

	t.Run("not a key msg", func(t *testing.T) {
		msg := tea.WindowSizeMsg{Width: 300, Height: 100}
		if kill := CheckKillKeys(msg); kill != None {
			t.Error("non key message returned a kill", testsupport.ExpectedActual(None, kill))
		}
	})
}
