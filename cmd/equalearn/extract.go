// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/equalearn/internal/i18n"
	"github.com/pdiddy/equalearn/internal/media"
	"github.com/pdiddy/equalearn/internal/render"
	"github.com/pdiddy/equalearn/internal/solver"
	"github.com/pdiddy/equalearn/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <image-or-video>",
	Short: "Extract a problem from an image or video",
	Long: `Extract checks that the file is a supported image or video within the size
limit, uploads it, and prints the problem text the service recognized.
With --solve the extracted text is solved right away.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().Bool("solve", false, "solve the extracted problem")
	extractCmd.Flags().Bool("no-history", false, "do not record the solution in history")
	outputFlags(extractCmd)

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := clientConfig()
	ctx := cmd.Context()
	client := newSolverClient(cfg)

	sel := media.NewSelection(cfg.Media.MaxFileSize)
	f, err := sel.Select(args[0])
	if err != nil {
		return localize(err, cfg.Media.MaxFileSize)
	}
	render.Info(cmd.ErrOrStderr(), "%s (%s, %s)", f.Name, f.MIME, f.HumanSize())

	text, err := withSpinner(tr.T(i18n.KeyProcessing), func() (string, error) {
		return sel.Extract(ctx, client)
	})
	if err != nil {
		return localize(err, cfg.Media.MaxFileSize)
	}

	doSolve, _ := cmd.Flags().GetBool("solve")
	if !doSolve {
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}

	res, err := withSpinner(tr.T(i18n.KeyProcessing), func() (solver.SolveResult, error) {
		return sel.Solve(ctx, client)
	})
	if err != nil {
		return localize(err, cfg.Media.MaxFileSize)
	}
	return present(ctx, cmd, cfg, solved{
		Problem: text,
		Raw:     res.LaTeX,
		Message: res.Message,
		Source:  sourceFor(f.Kind),
	})
}

func sourceFor(k media.Kind) types.ProblemSource {
	if k == media.KindVideo {
		return types.SourceVideo
	}
	return types.SourceImage
}
