package file_test

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/file"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("detects type from extension", func(t *testing.T) {
		t.Parallel()
		f := file.New("photo.PNG", "", pngHeader)
		assert.Equal(t, "image/png", f.MIMEType)
		assert.Equal(t, int64(len(pngHeader)), f.Size)
		assert.True(t, f.IsImage())
		assert.Equal(t, ".png", f.Extension())
	})

	t.Run("sniffs content without extension", func(t *testing.T) {
		t.Parallel()
		f := file.New("blob", "", pngHeader)
		assert.Equal(t, "image/png", f.MIMEType)
	})

	t.Run("text drops charset", func(t *testing.T) {
		t.Parallel()
		f := file.New("notes.txt", "", []byte("hello"))
		assert.Equal(t, "text/plain", f.MIMEType)
		assert.False(t, f.IsImage())
	})

	t.Run("declared type wins", func(t *testing.T) {
		t.Parallel()
		f := file.New("a.bin", "application/pdf", []byte("x"))
		assert.Equal(t, "application/pdf", f.MIMEType)
	})

	t.Run("path components stripped", func(t *testing.T) {
		t.Parallel()
		f := file.New("../../etc/passwd", "text/plain", nil)
		assert.Equal(t, "passwd", f.Name)
	})
}

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "cv.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	f, err := file.Open(path)
	require.NoError(t, err)
	assert.Equal(t, "cv.pdf", f.Name)
	assert.Equal(t, "application/pdf", f.MIMEType)
	assert.Equal(t, int64(8), f.Size)

	_, err = file.Open(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, file.ErrFailedToReadFile)

	_, err = file.Open("")
	assert.ErrorIs(t, err, file.ErrEmptyPath)
}

func TestDataURL(t *testing.T) {
	t.Parallel()

	f := file.New("a.png", "", pngHeader)
	url := f.DataURL()
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
}

func TestHash(t *testing.T) {
	t.Parallel()

	f := file.New("a.txt", "", []byte("hello world"))
	sum, err := file.Hash(f, nil)
	require.NoError(t, err)
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", sum)

	again, err := file.Hash(f, sha256.New())
	require.NoError(t, err)
	assert.Equal(t, sum, again)
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"../../../etc/passwd":   "passwd",
		"C:\\Windows\\file.txt": "file.txt",
		"":                      "unnamed",
		"..":                    "unnamed",
		"a\x00b.txt":            "ab.txt",
	}
	for in, want := range tests {
		assert.Equal(t, want, file.SanitizeFilename(in), in)
	}
}
