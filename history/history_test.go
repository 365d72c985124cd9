/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package history

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mustNew(t *testing.T, capacity int) *QueryHistory {
	t.Helper()
	h, err := New(capacity)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestZeroCapacity(t *testing.T) {
	if _, err := New(0); err != ErrZeroCapacity {
		t.Errorf("New(0) err = %v, want ErrZeroCapacity", err)
	}
}

func TestPushBasics(t *testing.T) {
	h := mustNew(t, 10)
	h.Push("SELECT 1")
	h.Push("  SELECT 2  \n")
	if h.Len() != 2 {
		t.Fatalf("len = %d, want 2", h.Len())
	}
	if got := h.Entries()[1]; got != "SELECT 2" {
		t.Errorf("entry not trimmed: %q", got)
	}
}

func TestPushIgnoresEmpty(t *testing.T) {
	h := mustNew(t, 10)
	h.Push("")
	h.Push("   \n\t ")
	if h.Len() != 0 {
		t.Errorf("len = %d, want 0", h.Len())
	}
}

func TestPushDedupsConsecutive(t *testing.T) {
	h := mustNew(t, 10)
	h.Push("SELECT 1")
	h.Push("SELECT 1")
	h.Push(" SELECT 1 ")
	h.Push("SELECT 2")
	h.Push("SELECT 1")
	if h.Len() != 3 {
		t.Errorf("len = %d, want 3 (non-adjacent dups allowed)", h.Len())
	}
}

func TestCapacityDropsOldest(t *testing.T) {
	h := mustNew(t, 3)
	for _, q := range []string{"a", "b", "c", "d"} {
		h.Push(q)
	}
	want := []string{"b", "c", "d"}
	got := h.Entries()
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entries = %v, want %v", got, want)
		}
	}
}

// file round-trip followed by a full browse walk
func TestRoundTripAndBrowse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	h, err := Load(path, 3)
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range []string{"a", "b", "c", "d"} {
		h.Push(q)
	}

	h, err = Load(path, 3)
	if err != nil {
		t.Fatal(err)
	}
	got := h.Entries()
	want := []string{"b", "c", "d"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("reloaded entries = %v, want %v", got, want)
		}
	}

	steps := []struct {
		back bool
		want string
		ok   bool
	}{
		{true, "d", true},
		{true, "c", true},
		{true, "b", true},
		{true, "", false},
		{false, "c", true},
		{false, "d", true},
		{false, "x", true}, // past newest: the draft comes back
	}
	for i, s := range steps {
		var got string
		var ok bool
		if s.back {
			got, ok = h.Back("x")
		} else {
			got, ok = h.Forward()
		}
		if got != s.want || ok != s.ok {
			t.Fatalf("step %d: (%q, %v), want (%q, %v)", i, got, ok, s.want, s.ok)
		}
	}
	if h.Browsing() {
		t.Error("walking past newest should exit browse mode")
	}
}

func TestDraftSavedOnFirstBackOnly(t *testing.T) {
	h := mustNew(t, 10)
	h.Push("old")
	h.Push("new")
	if got, _ := h.Back("draft one"); got != "new" {
		t.Fatalf("first back = %q", got)
	}
	if got, _ := h.Back("ignored"); got != "old" {
		t.Fatalf("second back = %q", got)
	}
	h.Forward()
	if got, _ := h.Forward(); got != "draft one" {
		t.Errorf("draft = %q, want the content from the first Back", got)
	}
}

func TestPushClearsBrowseMode(t *testing.T) {
	h := mustNew(t, 10)
	h.Push("a")
	h.Back("draft")
	h.Push("b")
	if h.Browsing() {
		t.Error("push should exit browse mode")
	}
	if _, ok := h.Forward(); ok {
		t.Error("forward after push should report not browsing")
	}
}

func TestBackOnEmptyHistory(t *testing.T) {
	h := mustNew(t, 5)
	if _, ok := h.Back("draft"); ok {
		t.Error("back on empty history should return false")
	}
	if h.Browsing() {
		t.Error("failed back must not enter browse mode")
	}
}

func TestPersistsMultilineSQL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	h, _ := Load(path, 10)
	query := "SELECT *\nFROM users\nWHERE id = 1"
	h.Push(query)
	h.Push("SELECT 2")

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "\x00") {
		t.Error("entries should be null-separated on disk")
	}

	h, _ = Load(path, 10)
	if h.Len() != 2 || h.Entries()[0] != query {
		t.Errorf("multi-line entry mangled: %q", h.Entries())
	}
}

func TestLoadMissingFile(t *testing.T) {
	h, err := Load(filepath.Join(t.TempDir(), "nope", "history"), 5)
	if err != nil || h.Len() != 0 {
		t.Errorf("missing file should give empty history, got (%v, %d)", err, h.Len())
	}
}

// bounded length, no adjacent duplicates, newest
// non-empty push present
func TestPushInvariants(t *testing.T) {
	const capacity = 7
	h := mustNew(t, capacity)
	rng := rand.New(rand.NewSource(42))
	pool := []string{"", "  ", "a", "b", "c", "d", "e", " a ", "multi\nline"}

	var lastNonEmpty string
	for i := 0; i < 500; i++ {
		q := pool[rng.Intn(len(pool))]
		h.Push(q)
		if trimmed := strings.TrimSpace(q); trimmed != "" {
			lastNonEmpty = trimmed
		}

		if h.Len() > capacity {
			t.Fatalf("len %d exceeds capacity", h.Len())
		}
		entries := h.Entries()
		for j := 1; j < len(entries); j++ {
			if entries[j] == entries[j-1] {
				t.Fatalf("adjacent duplicates at %d: %v", j, entries)
			}
		}
		if lastNonEmpty != "" && entries[len(entries)-1] != lastNonEmpty {
			t.Fatalf("newest push %q missing, tail is %q", lastNonEmpty, entries[len(entries)-1])
		}
	}
}
