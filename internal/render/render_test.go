// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/equalearn/pkg/types"
)

var sampleDoc = Document{
	Problem:     "Solve 2x + 3 = 7",
	RawSolution: "**Step 1: Subtract 3**\n2x = 4\n\n**Step 2: Divide**\n$x = 2$\n\n**Final Answer:** x = 2",
	Solution: types.StructuredSolution{
		FinalAnswer: "x = 2",
		Steps: []types.Step{
			{Title: "Step 1: Subtract 3", Content: "2x = 4"},
			{Title: "Step 2: Divide", Content: "$x = 2$"},
		},
	},
	GeneratedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
}

func TestMarkdown(t *testing.T) {
	want := "## Final Answer\n\nx = 2\n" +
		"\n### Step 1: Subtract 3\n\n2x = 4\n" +
		"\n### Step 2: Divide\n\n$x = 2$\n"
	assert.Equal(t, want, Markdown(sampleDoc, false))
}

func TestMarkdown_Frontmatter(t *testing.T) {
	md := Markdown(sampleDoc, true)
	assert.True(t, strings.HasPrefix(md, "---\nproblem: \"Solve 2x + 3 = 7\"\ngenerated_at: \"2026-03-01T09:30:00Z\"\n---\n\n## Final Answer"), md)
}

func TestMarkdown_NoSteps(t *testing.T) {
	doc := Document{Solution: types.StructuredSolution{FinalAnswer: types.PlaceholderAnswer, Steps: []types.Step{}}}
	assert.Equal(t, "## Final Answer\n\nSee explanation below\n", Markdown(doc, false))
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleDoc, types.OutputJSON, Options{}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Solve 2x + 3 = 7", got["problem"])
	assert.Equal(t, "x = 2", got["finalAnswer"])
	assert.Len(t, got["steps"], 2)
}

func TestWrite_JSONEmptyStepsIsArray(t *testing.T) {
	var buf bytes.Buffer
	doc := Document{Solution: types.StructuredSolution{FinalAnswer: "1", Steps: []types.Step{}}}
	require.NoError(t, Write(&buf, doc, types.OutputJSON, Options{}))
	assert.Contains(t, buf.String(), `"steps": []`)
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleDoc, types.OutputYAML, Options{}))

	var got struct {
		Problem     string       `yaml:"problem"`
		FinalAnswer string       `yaml:"final_answer"`
		Steps       []types.Step `yaml:"steps"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleDoc.Problem, got.Problem)
	assert.Equal(t, "x = 2", got.FinalAnswer)
	assert.Equal(t, sampleDoc.Solution.Steps, got.Steps)
}

func TestWrite_LaTeX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleDoc, types.OutputLaTeX, Options{}))
	assert.Equal(t, sampleDoc.RawSolution+"\n", buf.String())
}

func TestWrite_Terminal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleDoc, types.OutputTerminal, Options{Style: "notty", Width: 60}))
	out := buf.String()
	assert.Contains(t, out, "Final Answer")
	assert.Contains(t, out, "Subtract 3")
	assert.Contains(t, out, "2x = 4")
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, sampleDoc, "html", Options{})
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, types.OutputJSON, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestStatusLines(t *testing.T) {
	var buf bytes.Buffer
	Success(&buf, "saved %d records", 3)
	Error(&buf, "failed: %s", "timeout")
	Info(&buf, "backend %s", "ok")
	Muted(&buf, "detail")

	out := buf.String()
	assert.Contains(t, out, "saved 3 records")
	assert.Contains(t, out, "failed: timeout")
	assert.Contains(t, out, "backend ok")
	assert.Contains(t, out, "detail")
	assert.Equal(t, 4, strings.Count(out, "\n"))
}
