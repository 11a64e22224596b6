// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials kept outside the config file, one per
// file, under a single directory. A file named equalearn-api-token holds the
// bearer token sent to the solver backend.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/equalearn/internal/logger"
)

// APITokenKey names the file holding the backend bearer token.
const APITokenKey = "equalearn-api-token"

// Load returns the non-empty credentials found in dir, keyed by file name.
// Hidden files and subdirectories are ignored. An absent dir yields an empty
// map; a file that cannot be read is reported to log and left out.
func Load(dir string, log *logger.Logger) (map[string]string, error) {
	out := map[string]string{}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing credentials in %s: %w", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		v, err := readValue(filepath.Join(dir, e.Name()))
		if err != nil {
			log.Warn("could not read secret", "name", e.Name(), "error", err)
			continue
		}
		if v != "" {
			out[e.Name()] = v
		}
	}
	return out, nil
}

func readValue(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// APIToken returns the stored backend token, or "" if dir has none.
func APIToken(dir string, log *logger.Logger) (string, error) {
	creds, err := Load(dir, log)
	if err != nil {
		return "", err
	}
	return creds[APITokenKey], nil
}
