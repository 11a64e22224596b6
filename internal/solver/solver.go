// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package solver is the HTTP client for the math-solving backend. It posts
// text and media problems, requests practice worksheets, and checks that
// the backend and its local model are reachable.
package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/pdiddy/equalearn/internal/httputil"
	"github.com/pdiddy/equalearn/internal/logger"
	"github.com/pdiddy/equalearn/pkg/types"
)

// Defaults applied by New for zero config values.
const (
	DefaultBaseURL   = "http://localhost:5000"
	DefaultTimeout   = 120 * time.Second
	DefaultUserAgent = "equalearn"
)

// maxResponseSize bounds JSON bodies read from the backend.
const maxResponseSize = 16 << 20

// SolveResult is a successful /solve_text response.
type SolveResult struct {
	OriginalText string `json:"original_text"`
	LaTeX        string `json:"latex"`
	Message      string `json:"message,omitempty"`
}

// ExtractResult is a successful /solve_image response.
type ExtractResult struct {
	ExtractedText string `json:"extracted_text"`
	Message       string `json:"message,omitempty"`
}

// PracticeResult is a successful /generate_practice response.
type PracticeResult struct {
	OriginalText string `json:"original_text"`
	Message      string `json:"message,omitempty"`
	PDFFilename  string `json:"pdf_filename,omitempty"`
}

// ConnectionStatus is the outcome of /test_ollama_connection.
type ConnectionStatus struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// HealthStatus is the /health response.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Client talks to one backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	cfg     types.SolverConfig
	http    *http.Client
	log     *logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger attaches a logger for request events.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithToken sets the bearer token, overriding cfg.APIToken.
func WithToken(token string) Option {
	return func(c *Client) { c.cfg.APIToken = token }
}

// New creates a Client for cfg.
func New(cfg types.SolverConfig, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// SolveText posts a typed problem and returns the backend's solution.
func (c *Client) SolveText(ctx context.Context, text string) (SolveResult, error) {
	if strings.TrimSpace(text) == "" {
		return SolveResult{}, ErrEmptyProblem
	}

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		SolveResult
	}
	if err := c.postForm(ctx, "/solve_text", url.Values{"text": {text}}, &body); err != nil {
		return SolveResult{}, err
	}
	if !body.Success {
		return SolveResult{}, rejection(body.Message, body.Error, "failed to solve problem")
	}
	return body.SolveResult, nil
}

// SolveMedia uploads an image or video and returns the text the backend
// extracted from it. The part's Content-Type is sniffed from the content.
func (c *Client) SolveMedia(ctx context.Context, filename string, r io.Reader) (ExtractResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ExtractResult{}, fmt.Errorf("reading %s: %w", filename, err)
	}
	if len(data) == 0 {
		return ExtractResult{}, ErrEmptyFile
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	h.Set("Content-Type", mimetype.Detect(data).String())
	part, err := mw.CreatePart(h)
	if err != nil {
		return ExtractResult{}, fmt.Errorf("creating multipart part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return ExtractResult{}, fmt.Errorf("writing multipart part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return ExtractResult{}, fmt.Errorf("closing multipart body: %w", err)
	}

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		ExtractResult
	}
	if err := c.do(ctx, http.MethodPost, "/solve_image", buf.Bytes(), mw.FormDataContentType(), &body); err != nil {
		return ExtractResult{}, err
	}
	if !body.Success {
		return ExtractResult{}, rejection(body.Message, body.Error, "failed to process file")
	}
	return body.ExtractResult, nil
}

// GeneratePractice asks the backend for a practice worksheet similar to
// text. The returned PDFFilename is passed to DownloadPDF.
func (c *Client) GeneratePractice(ctx context.Context, text string) (PracticeResult, error) {
	if strings.TrimSpace(text) == "" {
		return PracticeResult{}, ErrEmptyProblem
	}

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		PracticeResult
	}
	if err := c.postForm(ctx, "/generate_practice", url.Values{"text": {text}}, &body); err != nil {
		return PracticeResult{}, err
	}
	if !body.Success {
		return PracticeResult{}, rejection(body.Message, body.Error, "failed to generate practice worksheet")
	}
	return body.PracticeResult, nil
}

// DownloadPDF streams /download_pdf/{filename} into w and returns the
// number of bytes written.
func (c *Client) DownloadPDF(ctx context.Context, filename string, w io.Writer) (int64, error) {
	if strings.TrimSpace(filename) == "" {
		return 0, fmt.Errorf("empty worksheet filename")
	}

	resp, err := c.send(ctx, http.MethodGet, "/download_pdf/"+url.PathEscape(filename), nil, "")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		return 0, newAPIError(resp.StatusCode, data)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("downloading %s: %w", filename, err)
	}
	return n, nil
}

// TestOllamaConnection asks the backend whether its local model service
// responds. A reachable backend reporting a failure is not an error; the
// reason is returned in ConnectionStatus.Error.
func (c *Client) TestOllamaConnection(ctx context.Context) (ConnectionStatus, error) {
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/test_ollama_connection", []byte("{}"), "application/json", &body); err != nil {
		return ConnectionStatus{}, err
	}
	if body.Success {
		return ConnectionStatus{OK: true}, nil
	}
	reason := body.Error
	if reason == "" {
		reason = body.Message
	}
	return ConnectionStatus{OK: false, Error: reason}, nil
}

// Health queries the backend liveness endpoint.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var hs HealthStatus
	if err := c.do(ctx, http.MethodGet, "/health", nil, "", &hs); err != nil {
		return HealthStatus{}, err
	}
	return hs, nil
}

func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, []byte(form.Encode()), "application/x-www-form-urlencoded", out)
}

// do sends a request and decodes a 2xx JSON body into out. Non-2xx
// responses become *APIError.
func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte, contentType string, out any) error {
	resp, err := c.send(ctx, method, endpoint, payload, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("reading %s response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, data)
		c.log.Warn("backend error", "endpoint", endpoint, "status", resp.StatusCode, "detail", apiErr.Detail)
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte, contentType string) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	}

	start := time.Now()
	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries, c.log)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	c.log.Debug("backend request", "method", method, "endpoint", endpoint, "status", resp.StatusCode, "elapsed", time.Since(start))
	return resp, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }
