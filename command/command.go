/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package command parses command-bar input into structured commands.
// Input uses a / prefix (a : prefix is also accepted); the first token is
// the verb, the rest are arguments.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/shlex"
)

// Command is a parsed command-bar action.
type Command uint8

const (
	Refresh Command = iota
	Clear
	Help
	Quit
)

func (c Command) String() string {
	switch c {
	case Refresh:
		return "refresh"
	case Clear:
		return "clear"
	case Help:
		return "help"
	case Quit:
		return "quit"
	}
	return "unknown"
}

var (
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")
)

// UnknownError reports an unrecognized verb.
type UnknownError struct {
	Verb string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unknown command: %s", e.Verb)
}

// Parse splits input into a verb and arguments and maps the verb to a
// Command. Arguments are shell-split so quoted file names survive; none of
// the current verbs take arguments, but the split result is returned for
// the ones that will.
func Parse(input string) (Command, []string, error) {
	input = trimPrefix(input)

	fields, err := shlex.Split(input)
	if err != nil {
		// unbalanced quotes; treat the raw input as the verb
		fields = []string{input}
	}
	if len(fields) == 0 {
		return 0, nil, &UnknownError{Verb: ""}
	}

	verb, args := fields[0], fields[1:]
	switch verb {
	case "refresh", "r":
		return Refresh, args, nil
	case "clear", "cl":
		return Clear, args, nil
	case "help", "h", "?":
		return Help, args, nil
	case "quit", "q", "exit":
		return Quit, args, nil
	}
	return 0, nil, &UnknownError{Verb: verb}
}

func trimPrefix(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 0 && (s[0] == '/' || s[0] == ':') {
		s = s[1:]
	}
	return s
}
