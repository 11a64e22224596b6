// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pdiddy/equalearn/internal/solver"
)

// State is the lifecycle position of a Selection.
type State int

const (
	StateEmpty State = iota
	StateSelected
	StateExtracting
	StateExtracted
	StateFailed
)

var stateNames = [...]string{"empty", "selected", "extracting", "extracted", "failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	// ErrInvalidState is returned when an operation is not allowed in the
	// selection's current state.
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrNoText means extraction succeeded but produced only whitespace.
	ErrNoText = errors.New("no text could be extracted from the file")
)

// Extractor uploads media and returns the text found in it.
type Extractor interface {
	SolveMedia(ctx context.Context, filename string, r io.Reader) (solver.ExtractResult, error)
}

// TextSolver solves problem text.
type TextSolver interface {
	SolveText(ctx context.Context, text string) (solver.SolveResult, error)
}

// Selection tracks one chosen media file: Empty → Selected → Extracting →
// Extracted or Failed. Remove returns to Empty from any state. It is safe
// for concurrent use; a Remove during extraction discards the late result.
type Selection struct {
	maxSize int64

	mu    sync.Mutex
	state State
	gen   uint64
	file  File
	text  string
	err   error
}

// NewSelection returns an empty selection enforcing maxSize (0 for the
// default limit).
func NewSelection(maxSize int64) *Selection {
	return &Selection{maxSize: maxSize}
}

// Select validates path and makes it the current file, replacing any
// previous selection. An invalid file leaves the selection unchanged.
func (s *Selection) Select(path string) (File, error) {
	f, err := Inspect(path, s.maxSize)
	if err != nil {
		return File{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateExtracting {
		return File{}, fmt.Errorf("select while %s: %w", s.state, ErrInvalidState)
	}
	s.gen++
	s.state = StateSelected
	s.file = f
	s.text = ""
	s.err = nil
	return f, nil
}

// Extract uploads the selected file and stores the extracted text. It is
// allowed from Selected, and from Failed to retry.
func (s *Selection) Extract(ctx context.Context, ex Extractor) (string, error) {
	s.mu.Lock()
	if s.state != StateSelected && s.state != StateFailed {
		st := s.state
		s.mu.Unlock()
		return "", fmt.Errorf("extract while %s: %w", st, ErrInvalidState)
	}
	s.state = StateExtracting
	s.err = nil
	gen := s.gen
	f := s.file
	s.mu.Unlock()

	text, err := extract(ctx, ex, f)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return "", fmt.Errorf("selection changed during extraction: %w", ErrInvalidState)
	}
	if err != nil {
		s.state = StateFailed
		s.err = err
		return "", err
	}
	s.state = StateExtracted
	s.text = text
	return text, nil
}

func extract(ctx context.Context, ex Extractor, f File) (string, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", f.Path, err)
	}
	defer fh.Close()

	res, err := ex.SolveMedia(ctx, f.Name, fh)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(res.ExtractedText) == "" {
		return "", ErrNoText
	}
	return res.ExtractedText, nil
}

// Solve sends the extracted text to ts. It is only allowed once
// extraction has produced text; the selection stays Extracted.
func (s *Selection) Solve(ctx context.Context, ts TextSolver) (solver.SolveResult, error) {
	s.mu.Lock()
	st, text := s.state, s.text
	s.mu.Unlock()

	if st != StateExtracted || strings.TrimSpace(text) == "" {
		return solver.SolveResult{}, fmt.Errorf("solve while %s: %w", st, ErrInvalidState)
	}
	return ts.SolveText(ctx, text)
}

// Remove clears the selection.
func (s *Selection) Remove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.state = StateEmpty
	s.file = File{}
	s.text = ""
	s.err = nil
}

// State returns the current state.
func (s *Selection) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// File returns the selected file, or the zero File when empty.
func (s *Selection) File() File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file
}

// Text returns the extracted text.
func (s *Selection) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Err returns the failure from the last extraction, if any.
func (s *Selection) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
