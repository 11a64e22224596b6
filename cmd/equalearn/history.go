// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pdiddy/equalearn/internal/history"
	"github.com/pdiddy/equalearn/internal/render"
	"github.com/pdiddy/equalearn/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and manage previously solved problems",
	Long: `History manages the local SQLite archive of solved problems. Records are
identified by ID; any unique ID prefix shown by list can be used.`,
}

// --- list / search subcommands ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent solutions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historySearchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Find solutions whose problem, answer or solution contains text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := historyStore()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := historyQueryOpts(cmd, args)
	records, err := store.List(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	return formatHistoryTable(cmd.OutOrStdout(), records)
}

func formatHistoryTable(w io.Writer, records []types.Record) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No solutions found.")
		return nil
	}

	fmt.Fprintf(w, "%-8s  %-14s  %-5s  %-36s  %s\n", "ID", "Solved", "From", "Problem", "Answer")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range records {
		fmt.Fprintf(w, "%-8s  %-14s  %-5s  %-36s  %s\n",
			shorten(r.ID, 8), humanize.Time(r.CreatedAt), r.Source,
			shorten(oneLine(r.Problem), 36), shorten(oneLine(r.Solution.FinalAnswer), 30))
	}
	fmt.Fprintf(w, "\n%d solution(s)\n", len(records))
	return nil
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored solution",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	format, opts, err := outputSettings(cmd)
	if err != nil {
		return err
	}
	store, err := historyStore()
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Lookup(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	render.Muted(cmd.ErrOrStderr(), "%s  %s  %s", rec.ID, rec.Source, humanize.Time(rec.CreatedAt))
	if format == types.OutputTerminal || format == types.OutputMarkdown {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n", rec.Problem)
	}
	doc := render.Document{
		Problem:     rec.Problem,
		RawSolution: rec.RawSolution,
		Solution:    rec.Solution,
		GeneratedAt: rec.CreatedAt,
	}
	return render.Write(cmd.OutOrStdout(), doc, format, opts)
}

// --- delete subcommand ---

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete stored solutions",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHistoryDelete,
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	store, err := historyStore()
	if err != nil {
		return err
	}
	defer store.Close()

	failed := 0
	for _, id := range args {
		rec, err := store.Lookup(cmd.Context(), id)
		if err == nil {
			err = store.Delete(cmd.Context(), rec.ID)
		}
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "failed  %s: %v\n", id, err)
			failed++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", rec.ID)
	}
	if failed > 0 {
		return fmt.Errorf("%d record(s) not deleted", failed)
	}
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export history to YAML or JSON",
	Long: `Export writes stored solutions (or a filtered subset) to a YAML or JSON
file. Supports the same filter flags as list.`,
	Args: cobra.NoArgs,
	RunE: runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = "history-export." + format
	}

	store, err := historyStore()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := historyQueryOpts(cmd, args)

	var n int
	switch format {
	case "yaml":
		n, err = store.ExportYAML(cmd.Context(), opts, out)
	case "json":
		n, err = store.ExportJSON(cmd.Context(), opts, out)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d solution(s) to %s\n", n, out)
	return nil
}

// --- shared helpers ---

func historyStore() (*history.Store, error) {
	cfg := clientConfig()
	store, err := openHistory(cfg)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("history is disabled (history.enabled: false)")
	}
	return store, nil
}

func historyQueryOpts(cmd *cobra.Command, args []string) history.QueryOptions {
	search, _ := cmd.Flags().GetString("search")
	if search == "" && len(args) > 0 {
		search = strings.Join(args, " ")
	}
	source, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")

	return history.QueryOptions{
		Search:     search,
		Source:     types.ProblemSource(source),
		MaxResults: limit,
	}
}

func init() {
	for _, c := range []*cobra.Command{historyListCmd, historySearchCmd, historyExportCmd} {
		c.Flags().String("source", "", "filter by source: text, image, video, batch")
		c.Flags().Int("limit", 0, "maximum records (0 = use default)")
	}
	historyListCmd.Flags().String("search", "", "substring filter")
	historyListCmd.Flags().Bool("json", false, "output records as JSON")
	historySearchCmd.Flags().Bool("json", false, "output records as JSON")

	outputFlags(historyShowCmd)

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("search", "", "substring filter for partial export")
	historyExportCmd.Flags().String("out", "", "output file (default history-export.<format>)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
