// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/equalearn/internal/logger"
	"github.com/pdiddy/equalearn/pkg/types"
)

// Ollama defaults.
const (
	DefaultOllamaURL       = "http://localhost:11434"
	DefaultOllamaContainer = "ollama"
	DefaultOllamaImage     = "ollama/ollama"
	DefaultStartTimeout    = 60 * time.Second
)

// PollInterval is the delay between readiness probes. Tests shorten it.
var PollInterval = 500 * time.Millisecond

// Probe reports whether the model server answers.
type Probe func(ctx context.Context) error

// HTTPProbe returns a Probe that GETs {url}/api/tags.
func HTTPProbe(client *http.Client, url string) Probe {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Second}
	}
	endpoint := strings.TrimRight(url, "/") + "/api/tags"
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("ollama returned HTTP %d", resp.StatusCode)
		}
		return nil
	}
}

// EnsureOllama makes sure an Ollama server is reachable. If probe fails it
// starts the configured container, creating it when start fails, then waits
// for probe to succeed. Progress lines are written to w.
func EnsureOllama(ctx context.Context, rt Runtime, cfg types.OllamaConfig, probe Probe, w io.Writer, log *logger.Logger) error {
	cfg = withOllamaDefaults(cfg)
	if probe == nil {
		probe = HTTPProbe(nil, cfg.URL)
	}

	if err := probe(ctx); err == nil {
		return nil
	}

	fmt.Fprintf(w, "ollama not running, starting %s container %s\n", rt.Name(), cfg.Container)
	if err := rt.Start(cfg.Container); err != nil {
		log.Debug("container start failed, creating", "container", cfg.Container, "error", err)
		fmt.Fprintf(w, "creating container %s from %s\n", cfg.Container, cfg.Image)
		rs := RunSpec{
			Name:    cfg.Container,
			Image:   cfg.Image,
			Ports:   []string{"11434:11434"},
			Volumes: []string{"ollama:/root/.ollama"},
			Restart: "unless-stopped",
		}
		if err := rt.RunDetached(rs); err != nil {
			return err
		}
	}

	if err := waitReady(ctx, probe, cfg.StartTimeout); err != nil {
		return err
	}
	fmt.Fprintln(w, "ollama is ready")
	return nil
}

func waitReady(ctx context.Context, probe Probe, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	var last error
	for {
		if last = probe(ctx); last == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for ollama after %s: %w", timeout, last)
		case <-ticker.C:
		}
	}
}

func withOllamaDefaults(cfg types.OllamaConfig) types.OllamaConfig {
	if cfg.URL == "" {
		cfg.URL = DefaultOllamaURL
	}
	if cfg.Container == "" {
		cfg.Container = DefaultOllamaContainer
	}
	if cfg.Image == "" {
		cfg.Image = DefaultOllamaImage
	}
	if cfg.StartTimeout <= 0 {
		cfg.StartTimeout = DefaultStartTimeout
	}
	return cfg
}
