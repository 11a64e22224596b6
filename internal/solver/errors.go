// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package solver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrEmptyProblem is returned before any request when the problem text is
// blank.
var ErrEmptyProblem = errors.New("problem text is empty")

// ErrEmptyFile is returned by SolveMedia when the upload has no content.
var ErrEmptyFile = errors.New("media file is empty")

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned HTTP %d: %s", e.StatusCode, e.Detail)
}

// RejectedError is a 2xx response whose body reports success=false.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return "backend rejected request: " + e.Message
}

// errorBody covers the error shapes the backend produces: FastAPI's
// {"detail": ...} (a string, or a list for validation errors) and the
// {"success": false, "error": ...} form.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Error  string          `json:"error"`
}

// newAPIError builds an APIError from a response status and body.
func newAPIError(status int, body []byte) *APIError {
	detail := ""
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		detail = detailText(eb.Detail)
		if detail == "" {
			detail = eb.Error
		}
	}
	if detail == "" {
		detail = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Detail: detail}
}

func detailText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var buf bytes.Buffer
	if json.Compact(&buf, raw) == nil {
		return buf.String()
	}
	return string(raw)
}

// rejection picks the most specific message for a success=false body.
func rejection(message, errText, fallback string) *RejectedError {
	switch {
	case strings.TrimSpace(message) != "":
		return &RejectedError{Message: message}
	case strings.TrimSpace(errText) != "":
		return &RejectedError{Message: errText}
	default:
		return &RejectedError{Message: fallback}
	}
}
