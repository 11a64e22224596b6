// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/pdiddy/equalearn/internal/batch"
	"github.com/pdiddy/equalearn/internal/container"
	"github.com/pdiddy/equalearn/internal/history"
	"github.com/pdiddy/equalearn/internal/media"
	"github.com/pdiddy/equalearn/internal/secrets"
	"github.com/pdiddy/equalearn/internal/solver"
	"github.com/pdiddy/equalearn/internal/watch"
	"github.com/pdiddy/equalearn/pkg/types"
)

func setDefaults() {
	viper.SetDefault("server.url", solver.DefaultBaseURL)
	viper.SetDefault("server.timeout", solver.DefaultTimeout)
	viper.SetDefault("server.max_retries", 0)
	viper.SetDefault("media.max_file_size", media.DefaultMaxFileSize)
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.dir", dataDir())
	viper.SetDefault("history.max_results", 20)
	viper.SetDefault("worksheets.dir", "worksheets")
	viper.SetDefault("watch.dir", "inbox")
	viper.SetDefault("watch.debounce", watch.DefaultDebounce)
	viper.SetDefault("watch.auto_solve", false)
	viper.SetDefault("batch.concurrency", batch.DefaultConcurrency)
	viper.SetDefault("ollama.url", container.DefaultOllamaURL)
	viper.SetDefault("ollama.container", container.DefaultOllamaContainer)
	viper.SetDefault("ollama.image", container.DefaultOllamaImage)
	viper.SetDefault("ollama.start_timeout", container.DefaultStartTimeout)
	viper.SetDefault("log.mode", "dev")
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("secrets_dir", ".secrets")
}

// dataDir is the default home of history.db.
func dataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "equalearn")
	}
	return ".equalearn"
}

// clientConfig folds viper settings (file, env, bound flags) into typed
// configuration.
func clientConfig() types.ClientConfig {
	return types.ClientConfig{
		Solver: types.SolverConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:    viper.GetDuration("server.timeout"),
				UserAgent:  "equalearn/" + version,
				MaxRetries: viper.GetInt("server.max_retries"),
			},
			BaseURL:  viper.GetString("server.url"),
			APIToken: secretDefault(secrets.APITokenKey, viper.GetString("server.api_token")),
		},
		Media: types.MediaConfig{
			MaxFileSize: viper.GetInt64("media.max_file_size"),
		},
		History: types.HistoryConfig{
			Enabled:    viper.GetBool("history.enabled"),
			Dir:        viper.GetString("history.dir"),
			MaxResults: viper.GetInt("history.max_results"),
		},
		Worksheet: types.WorksheetConfig{
			Dir: viper.GetString("worksheets.dir"),
		},
		Watch: types.WatchConfig{
			Dir:       viper.GetString("watch.dir"),
			Debounce:  viper.GetDuration("watch.debounce"),
			AutoSolve: viper.GetBool("watch.auto_solve"),
		},
		Batch: types.BatchConfig{
			Concurrency: viper.GetInt("batch.concurrency"),
		},
		Ollama: types.OllamaConfig{
			URL:          viper.GetString("ollama.url"),
			Container:    viper.GetString("ollama.container"),
			Image:        viper.GetString("ollama.image"),
			StartTimeout: viper.GetDuration("ollama.start_timeout"),
		},
		Language: tr.Lang(),
	}
}

func newSolverClient(cfg types.ClientConfig) *solver.Client {
	return solver.New(cfg.Solver, solver.WithLogger(appLog))
}

// openHistory returns nil when history is disabled.
func openHistory(cfg types.ClientConfig) (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	return history.NewStore(cfg.History)
}
