// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package structure turns a free-form solution returned by the solving
// backend into a final answer and an ordered list of titled explanation
// steps. Every function in this package is pure: no I/O, no shared state,
// and no error outcomes. Each stage falls back to a documented default
// rather than failing.
package structure

import (
	"regexp"
	"strings"
)

// Emphasis markers removed by Strip. Each pattern is non-greedy and bounded
// to a single line. \boxed{X} is handled by unbox since X may hold braces.
var (
	// boldRe matches **X**.
	boldRe = regexp.MustCompile(`\*\*(.+?)\*\*`)

	// italicRe matches *X*. It runs after boldRe so that leftover single
	// asterisks are unwrapped too.
	italicRe = regexp.MustCompile(`\*(.+?)\*`)

	// codeRe matches `X`.
	codeRe = regexp.MustCompile("`(.+?)`")

	// blankRunRe matches two or more newlines with optional whitespace
	// between them.
	blankRunRe = regexp.MustCompile(`\n\s*\n`)
)

var markerPatterns = []*regexp.Regexp{boldRe, italicRe, codeRe}

const boxedOpen = `\boxed{`

// Strip replaces emphasis markers (**X**, *X*, `X`, \boxed{X}) with their
// inner content, collapses runs of blank lines to a single newline, and
// trims surrounding whitespace. Unwrapping one marker can expose another
// (\boxed{\boxed{x}}), so the passes repeat until the text stops changing,
// which makes Strip idempotent.
func Strip(s string) string {
	for {
		next := stripOnce(s)
		if next == s {
			return next
		}
		s = next
	}
}

// stripOnce applies every marker pattern once, then normalizes whitespace.
// Any change shortens the string, so repeated application terminates.
func stripOnce(s string) string {
	for _, re := range markerPatterns {
		s = re.ReplaceAllString(s, "$1")
	}
	s = unbox(s)
	s = blankRunRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

// unbox replaces \boxed{X} with X. X runs to the brace that balances the
// opening one, so \boxed{\frac{1}{2}} keeps its inner groups. A marker
// that is empty or not closed on the same line is left as is.
func unbox(s string) string {
	if !strings.Contains(s, boxedOpen) {
		return s
	}
	var sb strings.Builder
	for {
		i := strings.Index(s, boxedOpen)
		if i < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		start := i + len(boxedOpen)
		end := closingBrace(s[start:])
		if end <= 0 {
			sb.WriteString(s[:start])
			s = s[start:]
			continue
		}
		sb.WriteString(s[:i])
		sb.WriteString(s[start : start+end])
		s = s[start+end+1:]
	}
}

// closingBrace returns the index of the "}" closing an already opened
// group in s, or -1 if a newline or the end of s comes first.
func closingBrace(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		case '\n':
			return -1
		}
	}
	return -1
}
