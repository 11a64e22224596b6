// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for equalearn: structured
// solutions, solved-problem records, and configuration for each command.
package types

// PlaceholderAnswer is used as the final answer when no answer could be
// located in a raw solution.
const PlaceholderAnswer = "See explanation below"

// Step is one titled unit of explanation within a structured solution.
type Step struct {
	// Title is a short heading: a numbered label, a capitalized phrase
	// ending in ":", or a synthesized "Step N".
	Title string `json:"title" yaml:"title"`

	// Content is the text belonging to the step. Markdown and LaTeX markup
	// are preserved for downstream math rendering.
	Content string `json:"content" yaml:"content"`
}

// StructuredSolution is the {final answer, steps} decomposition of a raw
// solution returned by the solving backend.
type StructuredSolution struct {
	// FinalAnswer is never empty; it falls back to PlaceholderAnswer.
	FinalAnswer string `json:"finalAnswer" yaml:"final_answer"`

	// Steps preserves source order. It is empty, never nil, when the
	// explanation is blank.
	Steps []Step `json:"steps" yaml:"steps"`
}

// HasPlaceholderAnswer reports whether no final answer was found.
func (s StructuredSolution) HasPlaceholderAnswer() bool {
	return s.FinalAnswer == PlaceholderAnswer
}
