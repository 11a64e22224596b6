// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"regexp"
	"strings"

	"github.com/pdiddy/equalearn/pkg/types"
)

// Rule names reported in Extraction.Rule.
const (
	RuleFinalAnswerBold = "final-answer-bold"
	RuleFinalAnswer     = "final-answer"
	RuleAnswerBold      = "answer-bold"
	RuleAnswer          = "answer"
	RuleTherefore       = "therefore"
	RuleThus            = "thus"
	RuleSolutionIs      = "solution-is"
	RuleResult          = "result"
	RuleEquationLine    = "equation-line"
	RulePlaceholder     = "placeholder"
)

// Capture suffixes appended to each label.
const (
	// paragraphCapture takes the rest of the label's line plus every
	// directly following line that is not blank.
	paragraphCapture = `[ \t]*([^\n]*(?:\n[^\n]*\S[^\n]*)*)`

	// lineCapture takes the rest of the label's line only.
	lineCapture = `[ \t]*([^\n]*)`
)

// Extraction is the outcome of locating a final answer in a raw solution.
type Extraction struct {
	// Answer is the located answer with markers stripped, or
	// types.PlaceholderAnswer.
	Answer string

	// Residual is the raw text with the matched span removed. Markup is
	// left intact so step headings can still be recognized.
	Residual string

	// Rule names the matcher that produced Answer.
	Rule string
}

// answerRule locates a candidate answer span. find returns the span to
// remove from the text and the stripped answer, or ok=false.
type answerRule struct {
	name string
	find func(text string) (start, end int, answer string, ok bool)
}

// answerRules is evaluated in order; the first rule that finds a non-empty
// answer wins.
var answerRules = []answerRule{
	labelRule(RuleFinalAnswerBold, `\*\*final answer:?\*\*:?`, paragraphCapture),
	labelRule(RuleFinalAnswer, `final answer:(?:\*\*)?`, paragraphCapture),
	labelRule(RuleAnswerBold, `\*\*answer:?\*\*:?`, paragraphCapture),
	labelRule(RuleAnswer, `\banswer:(?:\*\*)?`, paragraphCapture),
	labelRule(RuleTherefore, `\btherefore,`, lineCapture),
	labelRule(RuleThus, `\bthus,`, lineCapture),
	labelRule(RuleSolutionIs, `\bthe solution is:`, lineCapture),
	labelRule(RuleResult, `\bresult:`, lineCapture),
	{name: RuleEquationLine, find: findEquationLine},
}

// labelRule builds a case-insensitive rule for label followed by capture.
// Occurrences whose capture strips to nothing are skipped in favor of a
// later occurrence of the same label.
func labelRule(name, label, capture string) answerRule {
	re := regexp.MustCompile(`(?i)` + label + capture)
	return answerRule{
		name: name,
		find: func(text string) (int, int, string, bool) {
			for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
				answer := Strip(text[loc[2]:loc[3]])
				if answer == "" {
					continue
				}
				return loc[0], loc[1], answer, true
			}
			return 0, 0, "", false
		},
	}
}

// findEquationLine treats the first line containing "=" as the answer.
// The line and its trailing newline are removed from the text.
func findEquationLine(text string) (int, int, string, bool) {
	start := 0
	for start <= len(text) {
		end := strings.IndexByte(text[start:], '\n')
		lineEnd := len(text)
		if end >= 0 {
			lineEnd = start + end
		}
		line := text[start:lineEnd]
		if strings.Contains(line, "=") {
			if answer := Strip(line); answer != "" {
				cut := lineEnd
				if cut < len(text) {
					cut++
				}
				return start, cut, answer, true
			}
		}
		if end < 0 {
			break
		}
		start = lineEnd + 1
	}
	return 0, 0, "", false
}

// ExtractFinalAnswer searches raw for a final answer using the ordered
// label rules, then the first "=" line. When nothing matches, Answer is
// types.PlaceholderAnswer and Residual is raw unchanged.
func ExtractFinalAnswer(raw string) Extraction {
	for _, rule := range answerRules {
		start, end, answer, ok := rule.find(raw)
		if !ok {
			continue
		}
		return Extraction{
			Answer:   answer,
			Residual: raw[:start] + raw[end:],
			Rule:     rule.name,
		}
	}
	return Extraction{
		Answer:   types.PlaceholderAnswer,
		Residual: raw,
		Rule:     RulePlaceholder,
	}
}
