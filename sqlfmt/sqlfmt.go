/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

/*
Package sqlfmt pretty-prints SQL for the editor's format-query action.

Keywords are uppercased, clause keywords start new lines indented two
spaces per paren depth, and statements separated by ; get a blank line
between them. String literals and comments pass through untouched.
*/
package sqlfmt

import (
	"strings"

	"vizgres/highlight"
)

// clause keywords that begin a new line at the current depth
var clauseStart = map[string]struct{}{
	"SELECT": {}, "FROM": {}, "WHERE": {}, "GROUP": {}, "ORDER": {},
	"HAVING": {}, "LIMIT": {}, "OFFSET": {}, "UNION": {}, "INTERSECT": {},
	"EXCEPT": {}, "VALUES": {}, "SET": {}, "RETURNING": {},
	"INSERT": {}, "UPDATE": {}, "DELETE": {},
	"JOIN": {}, "LEFT": {}, "RIGHT": {}, "INNER": {}, "FULL": {}, "CROSS": {},
}

// keywords continuing a clause on an indented line
var clauseContinue = map[string]struct{}{
	"AND": {}, "OR": {}, "ON": {},
}

// keywords that never break the line even though they are in clauseStart
// when they follow another clause starter (LEFT JOIN, GROUP BY, ...)
var glued = map[string]struct{}{
	"JOIN": {}, "BY": {}, "INTO": {}, "OUTER": {},
}

type token struct {
	kind highlight.TokenKind
	text string
}

// Format pretty-prints sql. Input that is only whitespace comes back empty.
func Format(sql string) string {
	tokens := scan(sql)
	if len(tokens) == 0 {
		return ""
	}

	var out strings.Builder
	depth := 0
	atLineStart := true
	suppressSpace := false
	prevWord := ""

	newline := func(extra int) {
		out.WriteByte('\n')
		out.WriteString(strings.Repeat("  ", depth+extra))
		atLineStart = true
		suppressSpace = false
	}

	for i, tok := range tokens {
		text := tok.text
		upperWord := ""
		if tok.kind == highlight.Keyword {
			text = strings.ToUpper(text)
			upperWord = text
		}

		switch {
		case text == ";":
			out.WriteString(";")
			// blank line between statements
			if i < len(tokens)-1 {
				out.WriteString("\n\n")
				atLineStart = true
				depth = 0
			}
			prevWord = ""
			continue
		case text == "(":
			if !atLineStart && !suppressSpace && !isOpenGlue(tokens, i) {
				out.WriteByte(' ')
			}
			out.WriteString("(")
			depth++
			atLineStart = false
			suppressSpace = true
			prevWord = ""
			continue
		case text == ")":
			if depth > 0 {
				depth--
			}
			out.WriteString(")")
			atLineStart = false
			suppressSpace = false
			prevWord = ""
			continue
		case text == ",":
			out.WriteString(",")
			atLineStart = false
			suppressSpace = false
			prevWord = ""
			continue
		case text == ".":
			out.WriteString(".")
			atLineStart = false
			suppressSpace = true
			prevWord = ""
			continue
		}

		if upperWord != "" && i > 0 {
			_, starts := clauseStart[upperWord]
			_, continues := clauseContinue[upperWord]
			_, glue := glued[upperWord]
			_, prevStarts := clauseStart[prevWord]
			if !prevStarts {
				// LEFT OUTER JOIN: OUTER glues, and JOIN glues to it
				_, prevStarts = glued[prevWord]
			}
			if glue && prevStarts {
				starts = false
			}
			switch {
			case starts && !atLineStart:
				newline(0)
			case continues && !atLineStart:
				newline(1)
			}
		}

		if !atLineStart && !suppressSpace {
			out.WriteByte(' ')
		}
		out.WriteString(text)
		atLineStart = false
		suppressSpace = false
		if upperWord != "" {
			prevWord = upperWord
		} else {
			prevWord = ""
		}
	}

	return out.String()
}

// isOpenGlue reports whether the ( should attach directly to the previous
// token, as in a function call or a dotted reference.
func isOpenGlue(tokens []token, i int) bool {
	if i == 0 {
		return false
	}
	prev := tokens[i-1]
	return prev.kind == highlight.Normal && isWord(prev.text)
}

func isWord(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		ok := b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') ||
			('0' <= b && b <= '9')
		if !ok {
			return false
		}
	}
	return len(s) > 0
}

// scan tokenizes the whole text with the highlighter, dropping whitespace
// and merging adjacent block-comment spans
func scan(sql string) []token {
	var tokens []token
	inBC := false
	for _, line := range strings.Split(sql, "\n") {
		var lineTokens []highlight.Token
		lineTokens, inBC = highlight.Line(line, inBC)
		for _, lt := range lineTokens {
			text := line[lt.Start:lt.End]
			if lt.Kind == highlight.Normal && strings.TrimSpace(text) == "" {
				continue
			}
			tokens = append(tokens, token{kind: lt.Kind, text: text})
		}
	}
	return tokens
}
