// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/equalearn/internal/render"
	"github.com/pdiddy/equalearn/internal/structure"
)

var structureCmd = &cobra.Command{
	Use:   "structure [file|-]",
	Short: "Split a saved raw solution into a final answer and steps",
	Long: `Structure reads raw solution text from a file or stdin and prints it as a
final answer plus explanation steps. It does not contact the service.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStructure,
}

func init() {
	structureCmd.Flags().Bool("explain", false, "report which rule located the final answer")
	outputFlags(structureCmd)

	rootCmd.AddCommand(structureCmd)
}

func runStructure(cmd *cobra.Command, args []string) error {
	format, opts, err := outputSettings(cmd)
	if err != nil {
		return err
	}

	var data []byte
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("reading solution: %w", err)
	}

	raw := string(data)
	sol, rule := structure.Explain(raw)
	if explain, _ := cmd.Flags().GetBool("explain"); explain {
		render.Muted(cmd.ErrOrStderr(), "final answer rule: %s, %d step(s)", rule, len(sol.Steps))
	}
	return render.Write(cmd.OutOrStdout(), render.Document{RawSolution: raw, Solution: sol}, format, opts)
}
