// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package worksheet saves practice worksheets produced by the backend and
// reads basic facts back out of them.
package worksheet

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Downloader fetches a generated worksheet by name.
type Downloader interface {
	DownloadPDF(ctx context.Context, filename string, w io.Writer) (int64, error)
}

// Info describes a worksheet PDF on disk.
type Info struct {
	Path  string `json:"path" yaml:"path"`
	Pages int    `json:"pages" yaml:"pages"`
	Size  int64  `json:"size" yaml:"size"`
}

// Save downloads filename into dir. The download lands in a temp file that
// is checked to be a readable PDF before it is renamed into place, so a
// failed or corrupt download leaves nothing behind.
func Save(ctx context.Context, d Downloader, filename, dir string) (Info, error) {
	name, err := localName(filename)
	if err != nil {
		return Info{}, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Info{}, fmt.Errorf("creating worksheet dir: %w", err)
	}
	destPath := filepath.Join(dir, name)

	tmpFile, err := os.CreateTemp(dir, ".worksheet-*.tmp")
	if err != nil {
		return Info{}, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, dlErr := d.DownloadPDF(ctx, filename, tmpFile)
	closeErr := tmpFile.Close()
	if dlErr != nil {
		os.Remove(tmpPath)
		return Info{}, fmt.Errorf("downloading worksheet: %w", dlErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return Info{}, fmt.Errorf("closing temp file: %w", closeErr)
	}

	info, err := Inspect(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return Info{}, err
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return Info{}, fmt.Errorf("renaming temp file: %w", err)
	}
	info.Path = destPath
	return info, nil
}

// localName reduces a backend-supplied name to a safe base name with a
// .pdf extension.
func localName(filename string) (string, error) {
	name := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(filename, "\\", "/")))
	if name == "/" || name == "." || name == ".." || name == "" {
		return "", fmt.Errorf("invalid worksheet filename %q", filename)
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		name += ".pdf"
	}
	return name, nil
}

// Inspect opens the PDF at path and returns its page count and size.
func Inspect(path string) (info Info, err error) {
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("inspecting %s: %w", path, err)
	}
	if st.IsDir() {
		return Info{}, fmt.Errorf("%s is a directory", path)
	}

	// The PDF reader panics on some malformed cross-reference data.
	defer func() {
		if r := recover(); r != nil {
			info, err = Info{}, fmt.Errorf("reading %s: malformed PDF: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	return Info{
		Path:  path,
		Pages: r.NumPage(),
		Size:  st.Size(),
	}, nil
}
