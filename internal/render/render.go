// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render formats structured solutions for the terminal and for
// files.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/equalearn/pkg/types"
)

// DefaultWidth is the word-wrap width for terminal output.
const DefaultWidth = 80

// Document is one solved problem ready for output.
type Document struct {
	Problem     string
	RawSolution string
	Solution    types.StructuredSolution

	// GeneratedAt is stamped into Markdown frontmatter. Zero means now.
	GeneratedAt time.Time
}

// Options control rendering.
type Options struct {
	// Frontmatter adds a YAML header to Markdown output.
	Frontmatter bool

	// Width is the terminal word-wrap width (0 for DefaultWidth).
	Width int

	// Style is a glamour style name ("dark", "light", "notty"); empty
	// detects from the terminal.
	Style string
}

// encoded is the JSON and YAML shape of a document.
type encoded struct {
	Problem                  string `json:"problem,omitempty" yaml:"problem,omitempty"`
	types.StructuredSolution `yaml:",inline"`
}

// Formats lists the accepted output format names.
func Formats() []types.OutputFormat {
	return []types.OutputFormat{
		types.OutputTerminal, types.OutputMarkdown, types.OutputJSON, types.OutputYAML, types.OutputLaTeX,
	}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (types.OutputFormat, error) {
	for _, f := range Formats() {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Write renders doc in format to w.
func Write(w io.Writer, doc Document, format types.OutputFormat, opts Options) error {
	switch format {
	case types.OutputMarkdown:
		_, err := io.WriteString(w, Markdown(doc, opts.Frontmatter))
		return err
	case types.OutputTerminal, "":
		out, err := Terminal(Markdown(doc, false), opts)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	case types.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(encoded{Problem: doc.Problem, StructuredSolution: doc.Solution})
	case types.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(encoded{Problem: doc.Problem, StructuredSolution: doc.Solution}); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	case types.OutputLaTeX:
		raw := doc.RawSolution
		if !strings.HasSuffix(raw, "\n") {
			raw += "\n"
		}
		_, err := io.WriteString(w, raw)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Markdown lays out the answer first, then one section per step. Step
// content is emitted unchanged so math markup survives.
func Markdown(doc Document, frontmatter bool) string {
	var b strings.Builder
	if frontmatter {
		ts := doc.GeneratedAt
		if ts.IsZero() {
			ts = time.Now()
		}
		b.WriteString("---\n")
		fmt.Fprintf(&b, "problem: %q\n", doc.Problem)
		fmt.Fprintf(&b, "generated_at: %q\n", ts.UTC().Format(time.RFC3339))
		b.WriteString("---\n\n")
	}

	b.WriteString("## Final Answer\n\n")
	b.WriteString(doc.Solution.FinalAnswer)
	b.WriteString("\n")

	for _, step := range doc.Solution.Steps {
		fmt.Fprintf(&b, "\n### %s\n", step.Title)
		if step.Content != "" {
			b.WriteString("\n")
			b.WriteString(step.Content)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Terminal renders Markdown with glamour.
func Terminal(md string, opts Options) (string, error) {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}

	styleOpt := glamour.WithAutoStyle()
	if opts.Style != "" {
		styleOpt = glamour.WithStandardStyle(opts.Style)
	}

	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
