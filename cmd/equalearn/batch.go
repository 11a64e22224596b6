// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/equalearn/internal/batch"
	"github.com/pdiddy/equalearn/internal/i18n"
	"github.com/pdiddy/equalearn/internal/render"
	"github.com/pdiddy/equalearn/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch <problems.yaml>",
	Short: "Solve every problem in a YAML file",
	Long: `Batch reads a problem file, solves the problems concurrently, and writes
the file back with a results section and a summary. A failed problem is
recorded with its error and does not stop the rest.

Problem file format:

  problems:
    - id: linear
      text: "2x + 3 = 7"
    - text: "Factor x^2 - 9"`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().Int("concurrency", 0, "maximum problems solved at once (default 4)")
	batchCmd.Flags().String("out", "", "results file (default: overwrite the input file)")
	batchCmd.Flags().Bool("no-history", false, "do not record solutions in history")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := clientConfig()
	if n, _ := cmd.Flags().GetInt("concurrency"); n > 0 {
		cfg.Batch.Concurrency = n
	}
	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		outPath = args[0]
	}

	pf, err := batch.ReadProblemFile(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &batch.Runner{
		Solver:      newSolverClient(cfg),
		Concurrency: cfg.Batch.Concurrency,
		Log:         appLog,
	}
	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory {
		runner.OnResult = func(r batch.Result) {
			if !r.OK() {
				return
			}
			record(context.WithoutCancel(ctx), cfg, types.Record{
				Problem:     r.Problem,
				Source:      types.SourceBatch,
				RawSolution: r.RawSolution,
				Solution:    types.StructuredSolution{FinalAnswer: r.FinalAnswer, Steps: r.Steps},
				Message:     r.Message,
			})
		}
	}

	out, runErr := runner.Run(ctx, pf.Problems, cmd.OutOrStdout())
	pf.Results = out.Results
	pf.Summary = &out.Summary
	if err := batch.WriteProblemFile(outPath, pf); err != nil {
		return err
	}

	summary := tr.T(i18n.KeyBatchSummary, out.Summary.Solved, out.Summary.Failed)
	if out.Summary.Failed > 0 {
		render.Error(cmd.OutOrStdout(), "%s", summary)
	} else {
		render.Success(cmd.OutOrStdout(), "%s", summary)
	}
	render.Muted(cmd.ErrOrStderr(), "results written to %s", outPath)

	if runErr != nil {
		return runErr
	}
	if out.Summary.Failed > 0 {
		return fmt.Errorf("%d problem(s) failed", out.Summary.Failed)
	}
	return nil
}
