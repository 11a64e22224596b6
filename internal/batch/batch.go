// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch solves many problems concurrently and keeps the results in
// a YAML problem file.
package batch

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/equalearn/internal/logger"
	"github.com/pdiddy/equalearn/internal/solver"
	"github.com/pdiddy/equalearn/internal/structure"
)

// DefaultConcurrency bounds in-flight solve requests when none is set.
const DefaultConcurrency = 4

// TextSolver solves problem text.
type TextSolver interface {
	SolveText(ctx context.Context, text string) (solver.SolveResult, error)
}

// Output holds the results in input order and the summary counts.
type Output struct {
	Results []Result
	Summary Summary
}

// Runner solves a batch.
type Runner struct {
	Solver      TextSolver
	Concurrency int
	Log         *logger.Logger

	// OnResult, if set, is called once per finished problem. Calls are
	// serialized.
	OnResult func(Result)
}

// Run solves problems with at most concurrency requests in flight. A
// failed problem is recorded in its Result and does not stop the others.
// Progress lines are written to w.
func Run(ctx context.Context, s TextSolver, problems []Problem, concurrency int, w io.Writer) (Output, error) {
	r := &Runner{Solver: s, Concurrency: concurrency}
	return r.Run(ctx, problems, w)
}

// Run solves problems; see the package-level Run. When ctx is cancelled,
// problems not yet started are marked failed and ctx.Err() is returned
// with the partial output.
func (r *Runner) Run(ctx context.Context, problems []Problem, w io.Writer) (Output, error) {
	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]Result, len(problems))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(limit)

	for i, p := range problems {
		g.Go(func() error {
			res := r.solveOne(ctx, p)
			results[i] = res

			mu.Lock()
			defer mu.Unlock()
			if res.OK() {
				fmt.Fprintf(w, "solved  %s: %s\n", res.ID, res.FinalAnswer)
			} else {
				fmt.Fprintf(w, "failed  %s: %s\n", res.ID, res.Error)
			}
			if r.OnResult != nil {
				r.OnResult(res)
			}
			return nil
		})
	}
	_ = g.Wait()

	out := Output{Results: results, Summary: summarize(results)}
	return out, ctx.Err()
}

func (r *Runner) solveOne(ctx context.Context, p Problem) Result {
	res := Result{ID: p.ID, Problem: p.Text}
	if err := ctx.Err(); err != nil {
		res.Error = err.Error()
		return res
	}

	start := time.Now()
	sr, err := r.Solver.SolveText(ctx, p.Text)
	res.Duration = time.Since(start).Round(time.Millisecond)
	if err != nil {
		r.Log.Warn("batch problem failed", "id", p.ID, "error", err)
		res.Error = err.Error()
		return res
	}

	sol := structure.Structure(sr.LaTeX)
	res.FinalAnswer = sol.FinalAnswer
	res.Steps = sol.Steps
	res.RawSolution = sr.LaTeX
	res.Message = sr.Message
	r.Log.Debug("batch problem solved", "id", p.ID, "elapsed", res.Duration)
	return res
}

func summarize(results []Result) Summary {
	s := Summary{Total: len(results), Timestamp: time.Now()}
	for _, r := range results {
		if r.OK() {
			s.Solved++
		} else {
			s.Failed++
		}
	}
	return s
}
