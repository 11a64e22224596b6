// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that talk to the
// solving backend.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Solving can take minutes on a
	// local model, so the default is generous (120s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "equalearn/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds retries on 429/503 responses (0 uses the default).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SolverConfig holds settings for the backend client.
type SolverConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the backend root, e.g. "http://localhost:5000".
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIToken is sent as a bearer token when set.
	APIToken string `json:"api_token,omitempty" yaml:"api_token,omitempty"`
}

// MediaConfig holds limits for uploaded problem images and videos.
type MediaConfig struct {
	// MaxFileSize is the largest accepted upload in bytes (default 32 MiB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`
}

// HistoryConfig holds settings for the local solution archive.
type HistoryConfig struct {
	// Enabled controls whether solved problems are recorded.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Dir is the directory holding history.db.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default number of records listed (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// WorksheetConfig holds settings for practice worksheet downloads.
type WorksheetConfig struct {
	// Dir is where downloaded PDFs are written.
	Dir string `json:"dir" yaml:"dir"`
}

// WatchConfig holds settings for the inbox watcher.
type WatchConfig struct {
	// Dir is the inbox directory where media files are dropped.
	Dir string `json:"dir" yaml:"dir"`

	// Debounce is how long a file must be quiet before it is processed.
	Debounce time.Duration `json:"debounce" yaml:"debounce"`

	// AutoSolve solves extracted text immediately.
	AutoSolve bool `json:"auto_solve" yaml:"auto_solve"`
}

// BatchConfig holds settings for concurrent problem-file solving.
type BatchConfig struct {
	// Concurrency bounds in-flight solve requests (default 4).
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// OllamaConfig holds settings for starting a local Ollama container.
type OllamaConfig struct {
	// URL is the Ollama API root probed for readiness.
	URL string `json:"url" yaml:"url"`

	// Container is the container name (default "ollama").
	Container string `json:"container" yaml:"container"`

	// Image is the image used when the container must be created.
	Image string `json:"image" yaml:"image"`

	// StartTimeout bounds how long to wait for the API to come up.
	StartTimeout time.Duration `json:"start_timeout" yaml:"start_timeout"`
}

// OutputFormat selects how a structured solution is rendered.
type OutputFormat string

const (
	OutputTerminal OutputFormat = "terminal"
	OutputMarkdown OutputFormat = "markdown"
	OutputJSON     OutputFormat = "json"
	OutputYAML     OutputFormat = "yaml"
	OutputLaTeX    OutputFormat = "latex"
)

// ClientConfig groups all configuration sections.
type ClientConfig struct {
	Solver    SolverConfig    `json:"server" yaml:"server"`
	Media     MediaConfig     `json:"media" yaml:"media"`
	History   HistoryConfig   `json:"history" yaml:"history"`
	Worksheet WorksheetConfig `json:"worksheets" yaml:"worksheets"`
	Watch     WatchConfig     `json:"watch" yaml:"watch"`
	Batch     BatchConfig     `json:"batch" yaml:"batch"`
	Ollama    OllamaConfig    `json:"ollama" yaml:"ollama"`
	Language  string          `json:"language" yaml:"language"`
}
