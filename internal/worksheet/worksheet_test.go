// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package worksheet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalPDF builds a syntactically valid PDF with the given number of
// empty pages.
func minimalPDF(pages int) []byte {
	var objs []string
	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", i+3)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages),
	)
	for i := 0; i < pages; i++ {
		objs = append(objs, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

type fakeDownloader struct {
	data []byte
	err  error
	got  string
}

func (f *fakeDownloader) DownloadPDF(_ context.Context, filename string, w io.Writer) (int64, error) {
	f.got = filename
	n, err := w.Write(f.data)
	if err != nil {
		return int64(n), err
	}
	return int64(n), f.err
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.pdf")
	data := minimalPDF(3)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	info, err := Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, 3, info.Pages)
	assert.Equal(t, int64(len(data)), info.Size)
	assert.Equal(t, path, info.Path)
}

func TestInspect_NotPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o644))

	_, err := Inspect(path)
	assert.Error(t, err)

	_, err = Inspect(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "worksheets")
	d := &fakeDownloader{data: minimalPDF(2)}

	info, err := Save(context.Background(), d, "practice_42.pdf", dir)
	require.NoError(t, err)

	assert.Equal(t, "practice_42.pdf", d.got)
	assert.Equal(t, filepath.Join(dir, "practice_42.pdf"), info.Path)
	assert.Equal(t, 2, info.Pages)
	assert.Equal(t, []string{"practice_42.pdf"}, listDir(t, dir))
}

func TestSave_DownloadErrorLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	d := &fakeDownloader{data: []byte("%PDF-1.4 partial"), err: errors.New("connection reset")}

	_, err := Save(context.Background(), d, "practice.pdf", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Empty(t, listDir(t, dir))
}

func TestSave_CorruptPDFLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	d := &fakeDownloader{data: []byte("<html>error page</html>")}

	_, err := Save(context.Background(), d, "practice.pdf", dir)
	require.Error(t, err)
	assert.Empty(t, listDir(t, dir))
}

func TestLocalName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "practice.pdf", want: "practice.pdf"},
		{in: "PRACTICE.PDF", want: "PRACTICE.PDF"},
		{in: "practice", want: "practice.pdf"},
		{in: "../../etc/passwd", want: "passwd.pdf"},
		{in: `..\..\sheet.pdf`, want: "sheet.pdf"},
		{in: "", wantErr: true},
		{in: "..", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := localName(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
