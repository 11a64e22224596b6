// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package media validates problem images and videos before upload and
// tracks the selected file through text extraction.
package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxFileSize is the largest upload the backend accepts.
const DefaultMaxFileSize int64 = 32 << 20

var (
	// ErrUnsupported means the content is not an accepted image or video.
	ErrUnsupported = errors.New("unsupported media type")

	// ErrTooLarge means the file exceeds the upload limit.
	ErrTooLarge = errors.New("file too large")
)

// Kind is the broad media category of a file.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// allowedTypes are the MIME types the backend accepts. The video/x-* and
// quicktime entries are the names the content sniffer reports for AVI,
// MOV and WMV.
var allowedTypes = map[string]Kind{
	"image/jpeg":      KindImage,
	"image/jpg":       KindImage,
	"image/png":       KindImage,
	"image/gif":       KindImage,
	"image/bmp":       KindImage,
	"image/webp":      KindImage,
	"video/mp4":       KindVideo,
	"video/avi":       KindVideo,
	"video/mov":       KindVideo,
	"video/wmv":       KindVideo,
	"video/webm":      KindVideo,
	"video/x-msvideo": KindVideo,
	"video/quicktime": KindVideo,
	"video/x-ms-wmv":  KindVideo,
	"video/x-ms-asf":  KindVideo,
}

// File describes a validated media file.
type File struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	MIME string `json:"mime"`
	Kind Kind   `json:"kind"`
}

// HumanSize returns the file size in human-readable form.
func (f File) HumanSize() string { return FormatSize(f.Size) }

// KindOf reports the media kind for a MIME type, ignoring parameters and
// case. ok is false for types that are not accepted.
func KindOf(mime string) (Kind, bool) {
	mime, _, _ = strings.Cut(mime, ";")
	k, ok := allowedTypes[strings.ToLower(strings.TrimSpace(mime))]
	return k, ok
}

// Inspect sniffs the file at path and checks it against the accepted
// types and maxSize. A maxSize of 0 uses DefaultMaxFileSize. The file
// extension is not consulted.
func Inspect(path string, maxSize int64) (File, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("inspecting %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory: %w", path, ErrUnsupported)
	}
	if info.Size() > maxSize {
		return File{}, fmt.Errorf("%s is %s, limit is %s: %w",
			filepath.Base(path), FormatSize(info.Size()), FormatSize(maxSize), ErrTooLarge)
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return File{}, fmt.Errorf("detecting type of %s: %w", path, err)
	}

	kind, mime, ok := match(mt)
	if !ok {
		return File{}, fmt.Errorf("%s (%s): %w", filepath.Base(path), mt.String(), ErrUnsupported)
	}

	return File{
		Path: path,
		Name: filepath.Base(path),
		Size: info.Size(),
		MIME: mime,
		Kind: kind,
	}, nil
}

// match walks the detected type and its parents until one is accepted.
func match(mt *mimetype.MIME) (Kind, string, bool) {
	for m := mt; m != nil; m = m.Parent() {
		if k, ok := KindOf(m.String()); ok {
			return k, m.String(), true
		}
	}
	return "", "", false
}

// FormatSize renders a byte count with binary units ("0 B", "1.5 KiB").
func FormatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
