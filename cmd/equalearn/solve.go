// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/equalearn/internal/i18n"
	"github.com/pdiddy/equalearn/internal/solver"
	"github.com/pdiddy/equalearn/pkg/types"
)

var solveCmd = &cobra.Command{
	Use:   "solve [problem...]",
	Short: "Solve a typed math problem",
	Long: `Solve sends a problem to the solving service and prints the final answer
followed by the explanation steps. The problem is taken from the arguments,
from --file, or from stdin when the only argument is "-".

The solution is recorded in history unless --no-history is set.`,
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().StringP("file", "f", "", "read the problem from a file (- for stdin)")
	solveCmd.Flags().Bool("no-history", false, "do not record the solution in history")
	outputFlags(solveCmd)

	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg := clientConfig()

	text, err := problemText(cmd, args)
	if err != nil {
		return localize(err, cfg.Media.MaxFileSize)
	}
	if _, _, err := outputSettings(cmd); err != nil {
		return err
	}

	client := newSolverClient(cfg)
	res, err := withSpinner(tr.T(i18n.KeyProcessing), func() (solver.SolveResult, error) {
		return client.SolveText(cmd.Context(), text)
	})
	if err != nil {
		return localize(err, cfg.Media.MaxFileSize)
	}

	problem := res.OriginalText
	if problem == "" {
		problem = text
	}
	return present(cmd.Context(), cmd, cfg, solved{
		Problem: problem,
		Raw:     res.LaTeX,
		Message: res.Message,
		Source:  types.SourceText,
	})
}
