// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/equalearn/pkg/types"
)

// headingStyle is one way a solution may mark step boundaries. Capture
// group 1 of re is the step title.
type headingStyle struct {
	name string
	re   *regexp.Regexp
}

// headingStyles is tried in order. A style is accepted only when it finds
// at least two headings; a lone match is treated as prose.
var headingStyles = []headingStyle{
	// **1. Isolate the variable**
	{name: "numbered-bold", re: regexp.MustCompile(`\*\*(\d+\.[ \t]*[^*\n]+)\*\*`)},
	// **Isolate the variable**
	{name: "bold", re: regexp.MustCompile(`\*\*([^*\n]+)\*\*`)},
	// 1. Isolate the variable
	{name: "numbered", re: regexp.MustCompile(`(?m)^[ \t]*(\d+\.[ \t]+\S[^\n]*)$`)},
	// Step 1: isolate the variable
	{name: "colon", re: regexp.MustCompile(`(?m)^[ \t]*([A-Z][^:\n]*:[^\n]*)$`)},
}

var (
	// sectionSplitRe splits text on blank lines.
	sectionSplitRe = regexp.MustCompile(`\n\s*\n`)

	// sectionTitleRes recognize a title on a section's first line.
	sectionTitleRes = []*regexp.Regexp{
		regexp.MustCompile(`^[A-Z][^:]*:`),
		regexp.MustCompile(`^\*\*[^*]+\*\*`),
	}
)

// Segment splits an explanation into titled steps. It first looks for a
// heading style with two or more headings; failing that it splits on
// blank lines and synthesizes "Step N" titles where a section has no title
// line. Titles have markers stripped; content keeps its markup and is only
// trimmed. A blank explanation yields zero steps.
func Segment(text string) []types.Step {
	if strings.TrimSpace(text) == "" {
		return []types.Step{}
	}

	for _, style := range headingStyles {
		matches := style.re.FindAllStringSubmatchIndex(text, -1)
		if len(matches) < 2 {
			continue
		}
		return stepsFromHeadings(text, matches)
	}

	return stepsFromSections(text)
}

// stepsFromHeadings pairs each heading with the text up to the next
// heading. Non-blank text before the first heading becomes a leading
// "Step 1" so no explanation is lost.
func stepsFromHeadings(text string, matches [][]int) []types.Step {
	steps := make([]types.Step, 0, len(matches)+1)
	if lead := strings.TrimSpace(text[:matches[0][0]]); lead != "" {
		steps = append(steps, types.Step{Title: "Step 1", Content: lead})
	}
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		steps = append(steps, types.Step{
			Title:   Strip(text[m[2]:m[3]]),
			Content: strings.TrimSpace(text[m[1]:end]),
		})
	}
	return steps
}

// stepsFromSections treats every non-blank paragraph as a step.
func stepsFromSections(text string) []types.Step {
	sections := sectionSplitRe.Split(strings.TrimSpace(text), -1)
	steps := make([]types.Step, 0, len(sections))

	n := 0
	for _, sec := range sections {
		sec = strings.TrimSpace(sec)
		if sec == "" {
			continue
		}
		n++

		first, rest, _ := strings.Cut(sec, "\n")
		if isSectionTitle(first) {
			steps = append(steps, types.Step{
				Title:   Strip(first),
				Content: strings.TrimSpace(rest),
			})
			continue
		}

		steps = append(steps, types.Step{
			Title:   fmt.Sprintf("Step %d", n),
			Content: sec,
		})
	}
	return steps
}

func isSectionTitle(line string) bool {
	line = strings.TrimSpace(line)
	for _, re := range sectionTitleRes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
