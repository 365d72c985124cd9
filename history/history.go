/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

/*
Package history keeps the ring of executed queries and its shell-like
browse mode.

Entering browse mode saves the editor content as a draft; stepping past the
newest entry restores it. Entries persist to disk joined by null bytes, which
never occur in SQL, so multi-line queries survive without escaping. All file
I/O is best-effort: the application never surfaces a history write failure.
*/
package history

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const entrySeparator = "\x00"

// ErrZeroCapacity is returned when constructing a history with capacity 0.
var ErrZeroCapacity = errors.New("history capacity must be > 0")

// QueryHistory is a bounded ring of executed query strings.
// Not safe for concurrent use; the event loop is the only writer.
type QueryHistory struct {
	entries  []string
	capacity int
	// browse position; -1 when not browsing
	position int
	draft    string
	// empty path disables persistence
	path string
}

// New creates an in-memory history.
func New(capacity int) (*QueryHistory, error) {
	return load("", capacity)
}

// Load reads the history file at path, trimming to capacity by dropping the
// oldest entries. A missing or unreadable file yields an empty history.
func Load(path string, capacity int) (*QueryHistory, error) {
	return load(path, capacity)
}

func load(path string, capacity int) (*QueryHistory, error) {
	if capacity <= 0 {
		return nil, ErrZeroCapacity
	}
	h := &QueryHistory{capacity: capacity, position: -1, path: path}
	if path == "" {
		return h, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return h, nil
	}
	for _, e := range strings.Split(string(raw), entrySeparator) {
		if e != "" {
			h.entries = append(h.entries, e)
		}
	}
	if n := len(h.entries) - capacity; n > 0 {
		h.entries = h.entries[n:]
	}
	return h, nil
}

// Push records an executed query: trims whitespace, skips empties and
// consecutive duplicates, drops the oldest at capacity, persists, and exits
// browse mode.
func (h *QueryHistory) Push(query string) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == trimmed {
		h.resetPosition()
		return
	}
	if len(h.entries) == h.capacity {
		h.entries = h.entries[1:]
	}
	h.entries = append(h.entries, trimmed)
	h.resetPosition()
	h.save()
}

// Back steps toward older entries. The first call enters browse mode and
// saves current as the draft. Returns false once already at the oldest entry.
func (h *QueryHistory) Back(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.position < 0:
		h.draft = current
		h.position = len(h.entries) - 1
	case h.position == 0:
		return "", false
	default:
		h.position--
	}
	return h.entries[h.position], true
}

// Forward steps toward newer entries. Stepping past the newest exits browse
// mode and returns the saved draft. Returns false when not browsing.
func (h *QueryHistory) Forward() (string, bool) {
	if h.position < 0 {
		return "", false
	}
	if h.position+1 < len(h.entries) {
		h.position++
		return h.entries[h.position], true
	}
	h.position = -1
	return h.draft, true
}

// ExitBrowse leaves browse mode without restoring the draft; called when
// the user edits while browsing.
func (h *QueryHistory) ExitBrowse() { h.resetPosition() }

// Browsing reports whether the history is in browse mode.
func (h *QueryHistory) Browsing() bool { return h.position >= 0 }

// Len returns the number of stored entries.
func (h *QueryHistory) Len() int { return len(h.entries) }

// Entries returns the stored entries, oldest first. The slice is shared;
// callers must not mutate it.
func (h *QueryHistory) Entries() []string { return h.entries }

func (h *QueryHistory) resetPosition() {
	h.position = -1
	h.draft = ""
}

// whole-file rewrite on every push; failures are deliberately dropped
func (h *QueryHistory) save() {
	if h.path == "" {
		return
	}
	if dir := filepath.Dir(h.path); dir != "" {
		_ = os.MkdirAll(dir, 0700)
	}
	_ = os.WriteFile(h.path, []byte(strings.Join(h.entries, entrySeparator)), 0600)
}
