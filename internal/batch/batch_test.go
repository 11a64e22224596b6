// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/equalearn/internal/solver"
)

// fakeSolver answers "Final Answer: <text>" after a delay that shrinks with
// each call, so later problems finish first.
type fakeSolver struct {
	calls    int32
	inFlight int32
	maxSeen  int32
	fail     map[string]error
}

func (f *fakeSolver) SolveText(ctx context.Context, text string) (solver.SolveResult, error) {
	n := atomic.AddInt32(&f.calls, 1)
	cur := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		old := atomic.LoadInt32(&f.maxSeen)
		if cur <= old || atomic.CompareAndSwapInt32(&f.maxSeen, old, cur) {
			break
		}
	}

	delay := time.Duration(20-n) * 2 * time.Millisecond
	if delay < 0 {
		delay = 0
	}
	select {
	case <-ctx.Done():
		return solver.SolveResult{}, ctx.Err()
	case <-time.After(delay):
	}

	if err := f.fail[text]; err != nil {
		return solver.SolveResult{}, err
	}
	return solver.SolveResult{OriginalText: text, LaTeX: "Work.\n\nFinal Answer: " + text}, nil
}

func problems(n int) []Problem {
	var ps []Problem
	for i := 0; i < n; i++ {
		ps = append(ps, Problem{ID: fmt.Sprintf("p%02d", i), Text: fmt.Sprintf("q%d", i)})
	}
	return ps
}

func TestRun_PreservesInputOrder(t *testing.T) {
	fs := &fakeSolver{}
	ps := problems(12)

	var buf bytes.Buffer
	out, err := Run(context.Background(), fs, ps, 4, &buf)
	require.NoError(t, err)

	require.Len(t, out.Results, len(ps))
	for i, r := range out.Results {
		assert.Equal(t, ps[i].ID, r.ID)
		assert.Equal(t, ps[i].Text, r.FinalAnswer)
		assert.Equal(t, "Work.", r.Steps[0].Content)
	}
	assert.Equal(t, Summary{Total: 12, Solved: 12, Failed: 0, Timestamp: out.Summary.Timestamp}, out.Summary)
	assert.Equal(t, 12, strings.Count(buf.String(), "solved  "))
}

func TestRun_BoundsConcurrency(t *testing.T) {
	fs := &fakeSolver{}
	_, err := Run(context.Background(), fs, problems(10), 3, &bytes.Buffer{})
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&fs.maxSeen), int32(3))
	assert.Equal(t, int32(10), atomic.LoadInt32(&fs.calls))
}

func TestRun_FailuresDoNotStopBatch(t *testing.T) {
	fs := &fakeSolver{fail: map[string]error{"q1": errors.New("backend returned HTTP 500")}}

	var buf bytes.Buffer
	out, err := Run(context.Background(), fs, problems(3), 2, &buf)
	require.NoError(t, err)

	assert.True(t, out.Results[0].OK())
	assert.False(t, out.Results[1].OK())
	assert.Equal(t, "backend returned HTTP 500", out.Results[1].Error)
	assert.True(t, out.Results[2].OK())
	assert.Equal(t, 2, out.Summary.Solved)
	assert.Equal(t, 1, out.Summary.Failed)
	assert.Contains(t, buf.String(), "failed  p01: backend returned HTTP 500")
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := Run(ctx, &fakeSolver{}, problems(3), 1, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, out.Summary.Failed)
}

func TestRunner_OnResult(t *testing.T) {
	var (
		mu  sync.Mutex
		got []string
	)
	r := &Runner{
		Solver:      &fakeSolver{},
		Concurrency: 2,
		OnResult: func(res Result) {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, res.ID)
		},
	}
	_, err := r.Run(context.Background(), problems(5), &bytes.Buffer{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p00", "p01", "p02", "p03", "p04"}, got)
}

func TestProblemFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "problems.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`problems:
  - id: linear
    text: "2x + 3 = 7"
  - text: "x^2 = 9"
`), 0o644))

	pf, err := ReadProblemFile(path)
	require.NoError(t, err)
	require.Len(t, pf.Problems, 2)
	assert.Equal(t, "linear", pf.Problems[0].ID)
	assert.Len(t, pf.Problems[1].ID, 36)

	out, err := Run(context.Background(), &fakeSolver{}, pf.Problems, 2, &bytes.Buffer{})
	require.NoError(t, err)
	pf.Results = out.Results
	pf.Summary = &out.Summary

	outPath := filepath.Join(dir, "results.yaml")
	require.NoError(t, WriteProblemFile(outPath, pf))

	back, err := ReadProblemFile(outPath)
	require.NoError(t, err)
	require.Len(t, back.Results, 2)
	assert.Equal(t, "2x + 3 = 7", back.Results[0].FinalAnswer)
	assert.Equal(t, 2, back.Summary.Solved)
}

func TestReadProblemFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"empty.yaml":     "problems: []\n",
		"blank.yaml":     "problems:\n  - text: \"  \"\n",
		"duplicate.yaml": "problems:\n  - id: a\n    text: x\n  - id: a\n    text: y\n",
		"broken.yaml":    "problems: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := ReadProblemFile(path)
			assert.Error(t, err)
		})
	}

	_, err := ReadProblemFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
