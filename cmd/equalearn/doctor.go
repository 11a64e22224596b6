// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/equalearn/internal/container"
	"github.com/pdiddy/equalearn/internal/i18n"
	"github.com/pdiddy/equalearn/internal/render"
	"github.com/pdiddy/equalearn/internal/solver"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the solving service, its model server, and local history",
	Long: `Doctor checks that the solving service answers, that it can reach its
Ollama model server, and that the history database opens. With
--start-ollama a stopped or missing Ollama container is started first
using docker or podman.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().Bool("start-ollama", false, "start a local Ollama container if it is not running")

	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg := clientConfig()
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	client := newSolverClient(cfg)
	failed := 0

	health, err := client.Health(ctx)
	if err != nil {
		render.Error(out, "%s", tr.T(i18n.KeyCheckFailed, err.Error()))
		failed++
	} else {
		render.Success(out, "%s", tr.T(i18n.KeyBackendHealthy, client.BaseURL(), health.Status))
	}

	if start, _ := cmd.Flags().GetBool("start-ollama"); start {
		rt, err := container.DetectRuntime()
		if err == nil {
			err = container.EnsureOllama(ctx, rt, cfg.Ollama, nil, cmd.ErrOrStderr(), appLog)
		}
		if err != nil {
			render.Error(out, "%s", tr.T(i18n.KeyCheckFailed, err.Error()))
			failed++
		}
	}

	status, err := withSpinner(tr.T(i18n.KeyProcessing), func() (solver.ConnectionStatus, error) {
		return client.TestOllamaConnection(ctx)
	})
	switch {
	case err != nil:
		render.Error(out, "%s", tr.T(i18n.KeyCheckFailed, err.Error()))
		failed++
	case !status.OK:
		render.Error(out, "%s", tr.T(i18n.KeyCheckFailed, status.Error))
		failed++
	default:
		render.Success(out, "%s", tr.T(i18n.KeyServiceOK))
	}

	store, err := openHistory(cfg)
	switch {
	case err != nil:
		render.Error(out, "history: %v", err)
		failed++
	case store == nil:
		render.Muted(out, "history: disabled")
	default:
		n, err := store.Count(ctx)
		store.Close()
		if err != nil {
			render.Error(out, "history: %v", err)
			failed++
		} else {
			render.Info(out, "history: %d record(s) in %s", n, store.Path())
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}
