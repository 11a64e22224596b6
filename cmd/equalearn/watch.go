// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/equalearn/internal/media"
	"github.com/pdiddy/equalearn/internal/render"
	"github.com/pdiddy/equalearn/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Extract problems from images and videos dropped into a directory",
	Long: `Watch monitors an inbox directory. Each image or video written there is
validated, uploaded, and its extracted problem printed once the file has
stopped changing. With --solve (or watch.auto_solve) the problem is solved
and recorded in history too. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("dir", "", "inbox directory (default from config)")
	watchCmd.Flags().Bool("solve", false, "solve each extracted problem")
	watchCmd.Flags().Duration("debounce", 0, "quiet period before a file is processed (default 500ms)")
	watchCmd.Flags().Bool("no-history", false, "do not record solutions in history")
	outputFlags(watchCmd)

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := clientConfig()
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		cfg.Watch.Dir = dir
	}
	if d, _ := cmd.Flags().GetDuration("debounce"); d > 0 {
		cfg.Watch.Debounce = d
	}
	if s, _ := cmd.Flags().GetBool("solve"); s {
		cfg.Watch.AutoSolve = true
	}
	if _, _, err := outputSettings(cmd); err != nil {
		return err
	}

	client := newSolverClient(cfg)
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	handler := watch.HandlerFunc(func(ctx context.Context, f media.File) error {
		sel := media.NewSelection(cfg.Media.MaxFileSize)
		if _, err := sel.Select(f.Path); err != nil {
			return err
		}
		render.Info(errOut, "%s (%s, %s)", f.Name, f.MIME, f.HumanSize())

		text, err := sel.Extract(ctx, client)
		if err != nil {
			render.Error(errOut, "%s: %v", f.Name, localize(err, cfg.Media.MaxFileSize))
			return err
		}
		if !cfg.Watch.AutoSolve {
			fmt.Fprintf(out, "%s\n%s\n\n", f.Name, text)
			return nil
		}

		res, err := sel.Solve(ctx, client)
		if err != nil {
			render.Error(errOut, "%s: %v", f.Name, localize(err, cfg.Media.MaxFileSize))
			return err
		}
		return present(ctx, cmd, cfg, solved{
			Problem: text,
			Raw:     res.LaTeX,
			Message: res.Message,
			Source:  sourceFor(f.Kind),
		})
	})

	reject := func(path string, err error) {
		render.Muted(errOut, "skipped %s: %v", filepath.Base(path), localize(err, cfg.Media.MaxFileSize))
	}

	w, err := watch.New(cfg.Watch, handler,
		watch.WithLogger(appLog),
		watch.WithRejectFunc(reject),
		watch.WithMaxFileSize(cfg.Media.MaxFileSize),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Start(ctx); err != nil {
		return err
	}
	render.Info(errOut, "watching %s (Ctrl-C to stop)", w.Dir())

	<-ctx.Done()
	w.Stop()

	st := w.Stats()
	render.Muted(errOut, "processed %d, rejected %d, failed %d", st.Processed, st.Rejected, st.Failed)
	return nil
}
