// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ProblemSource records how a problem entered the client.
type ProblemSource string

const (
	SourceText  ProblemSource = "text"
	SourceImage ProblemSource = "image"
	SourceVideo ProblemSource = "video"
	SourceBatch ProblemSource = "batch"
)

// Valid reports whether s is one of the known sources.
func (s ProblemSource) Valid() bool {
	switch s {
	case SourceText, SourceImage, SourceVideo, SourceBatch:
		return true
	}
	return false
}

// Record is one solved problem as kept in the local history.
type Record struct {
	// ID is a UUID assigned when the record is stored.
	ID string `json:"id" yaml:"id"`

	// Problem is the problem text that was sent for solving.
	Problem string `json:"problem" yaml:"problem"`

	// Source tells whether the problem was typed, extracted from media, or batched.
	Source ProblemSource `json:"source" yaml:"source"`

	// RawSolution is the unmodified solution text from the backend.
	RawSolution string `json:"raw_solution" yaml:"raw_solution"`

	// Solution is the structured form of RawSolution.
	Solution StructuredSolution `json:"solution" yaml:"solution"`

	// Message is the optional informational message from the backend.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// CreatedAt is when the record was stored.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
