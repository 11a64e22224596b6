// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/pdiddy/equalearn/internal/i18n"
	"github.com/pdiddy/equalearn/internal/render"
	"github.com/pdiddy/equalearn/internal/solver"
	"github.com/pdiddy/equalearn/internal/worksheet"
)

var practiceCmd = &cobra.Command{
	Use:   "practice [problem...]",
	Short: "Generate a practice worksheet similar to a problem",
	Long: `Practice asks the service for a worksheet of problems like the given one
and downloads the PDF into the worksheets directory.`,
	RunE: runPractice,
}

func init() {
	practiceCmd.Flags().StringP("file", "f", "", "read the problem from a file (- for stdin)")
	practiceCmd.Flags().String("out-dir", "", "directory for downloaded worksheets (default from config)")

	rootCmd.AddCommand(practiceCmd)
}

func runPractice(cmd *cobra.Command, args []string) error {
	cfg := clientConfig()
	ctx := cmd.Context()

	text, err := problemText(cmd, args)
	if err != nil {
		return localize(err, cfg.Media.MaxFileSize)
	}
	outDir, _ := cmd.Flags().GetString("out-dir")
	if outDir == "" {
		outDir = cfg.Worksheet.Dir
	}

	client := newSolverClient(cfg)
	res, err := withSpinner(tr.T(i18n.KeyProcessing), func() (solver.PracticeResult, error) {
		return client.GeneratePractice(ctx, text)
	})
	if err != nil {
		return localize(err, cfg.Media.MaxFileSize)
	}
	if res.Message != "" {
		render.Muted(cmd.ErrOrStderr(), "%s", res.Message)
	}
	if res.PDFFilename == "" {
		return errors.New("the service did not return a worksheet")
	}

	info, err := worksheet.Save(ctx, client, res.PDFFilename, outDir)
	if err != nil {
		return err
	}
	render.Success(cmd.OutOrStdout(), "%s", tr.T(i18n.KeyWorksheetSaved, info.Path, info.Pages))
	return nil
}
