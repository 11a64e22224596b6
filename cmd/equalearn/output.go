// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/pdiddy/equalearn/internal/i18n"
	"github.com/pdiddy/equalearn/internal/media"
	"github.com/pdiddy/equalearn/internal/render"
	"github.com/pdiddy/equalearn/internal/solver"
	"github.com/pdiddy/equalearn/internal/structure"
	"github.com/pdiddy/equalearn/pkg/types"
)

// withSpinner runs fn while a spinner with label is shown on stderr.
func withSpinner[T any](label string, fn func() (T, error)) (T, error) {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return fn()
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + label
	s.Start()
	defer s.Stop()
	return fn()
}

// localize turns known failures into the user-facing message for the
// current language, keeping the cause for errors.Is.
func localize(err error, maxSize int64) error {
	var rejected *solver.RejectedError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, solver.ErrEmptyProblem):
		return fmt.Errorf("%s: %w", tr.T(i18n.KeyEmptyProblem), err)
	case errors.Is(err, media.ErrUnsupported):
		return fmt.Errorf("%s: %w", tr.T(i18n.KeyInvalidFile), err)
	case errors.Is(err, media.ErrTooLarge):
		return fmt.Errorf("%s: %w", tr.T(i18n.KeyFileTooLarge, media.FormatSize(maxSize)), err)
	case errors.Is(err, media.ErrNoText):
		return fmt.Errorf("%s: %w", tr.T(i18n.KeyNoTextExtracted), err)
	case errors.As(err, &rejected):
		return err
	case errors.Is(err, context.Canceled):
		return err
	}
	return fmt.Errorf("%s: %w", tr.T(i18n.KeySolveFailed), err)
}

// problemText reads the problem from --file, "-" (stdin), or the joined args.
func problemText(cmd *cobra.Command, args []string) (string, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" && len(args) == 1 && args[0] == "-" {
		path = "-"
	}

	var text string
	switch {
	case path == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading problem file: %w", err)
		}
		text = string(data)
	default:
		text = strings.Join(args, " ")
	}

	if strings.TrimSpace(text) == "" {
		return "", solver.ErrEmptyProblem
	}
	return text, nil
}

// solved is a backend answer ready to be structured, recorded and shown.
type solved struct {
	Problem string
	Raw     string
	Message string
	Source  types.ProblemSource
}

// outputFlags registers the flags shared by commands that print a solution.
func outputFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", string(types.OutputTerminal), "output format: terminal, markdown, json, yaml, latex")
	cmd.Flags().Bool("raw", false, "print the raw solution text without structuring (same as --format latex)")
	cmd.Flags().Bool("frontmatter", false, "add a YAML header to markdown output")
	cmd.Flags().Int("width", render.DefaultWidth, "terminal word-wrap width")
}

func outputSettings(cmd *cobra.Command) (types.OutputFormat, render.Options, error) {
	name, _ := cmd.Flags().GetString("format")
	raw, _ := cmd.Flags().GetBool("raw")
	if raw {
		name = string(types.OutputLaTeX)
	}
	format, err := render.ParseFormat(name)
	if err != nil {
		return "", render.Options{}, err
	}
	frontmatter, _ := cmd.Flags().GetBool("frontmatter")
	width, _ := cmd.Flags().GetInt("width")
	return format, render.Options{Frontmatter: frontmatter, Width: width}, nil
}

// present structures s, records it in history when enabled, and writes it.
func present(ctx context.Context, cmd *cobra.Command, cfg types.ClientConfig, s solved) error {
	format, opts, err := outputSettings(cmd)
	if err != nil {
		return err
	}

	sol := structure.Structure(s.Raw)
	if s.Message != "" {
		render.Muted(cmd.ErrOrStderr(), "%s", s.Message)
	}

	noHistory, _ := cmd.Flags().GetBool("no-history")
	if !noHistory {
		record(ctx, cfg, types.Record{
			Problem:     s.Problem,
			Source:      s.Source,
			RawSolution: s.Raw,
			Solution:    sol,
			Message:     s.Message,
		})
	}

	doc := render.Document{Problem: s.Problem, RawSolution: s.Raw, Solution: sol}
	return render.Write(cmd.OutOrStdout(), doc, format, opts)
}

// record stores rec in history. Failures are logged, not returned: a
// solved problem is still shown when the archive is unavailable.
func record(ctx context.Context, cfg types.ClientConfig, rec types.Record) {
	store, err := openHistory(cfg)
	if err != nil {
		appLog.Warn("history unavailable", "error", err)
		return
	}
	if store == nil {
		return
	}
	defer store.Close()

	saved, err := store.Add(ctx, rec)
	if err != nil {
		appLog.Warn("recording history failed", "error", err)
		return
	}
	appLog.Debug("recorded solution", "id", saved.ID)
}
