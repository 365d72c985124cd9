/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package command

import (
	"errors"
	"testing"
)

func TestVerbsAndAliases(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"/refresh", Refresh},
		{"/r", Refresh},
		{"/clear", Clear},
		{"/cl", Clear},
		{"/help", Help},
		{"/h", Help},
		{"/?", Help},
		{"/quit", Quit},
		{"/q", Quit},
		{"/exit", Quit},
		{":quit", Quit},
		{":help", Help},
		{"quit", Quit},
		{"  /quit  ", Quit},
	}
	for _, tc := range tests {
		got, _, err := Parse(tc.input)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestUnknownVerb(t *testing.T) {
	_, _, err := Parse("/foobar")
	var unknown *UnknownError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownError", err)
	}
	if unknown.Verb != "foobar" {
		t.Errorf("verb = %q", unknown.Verb)
	}
}

func TestEmptyInput(t *testing.T) {
	for _, input := range []string{"", "/", ":", "   "} {
		if _, _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) should fail", input)
		}
	}
}

func TestArgumentsSplit(t *testing.T) {
	_, args, err := Parse(`/refresh "my schema" extra`)
	if err != nil {
		t.Fatal(err)
	}
	if len(args) != 2 || args[0] != "my schema" || args[1] != "extra" {
		t.Errorf("args = %v", args)
	}
}

func TestVerbsAreCaseSensitive(t *testing.T) {
	if _, _, err := Parse("/QUIT"); err == nil {
		t.Error("uppercase verb should be unknown")
	}
}
