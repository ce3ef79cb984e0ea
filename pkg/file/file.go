package file

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// File is a chosen file held in memory: the equivalent of a browser File
// handle.
type File struct {
	Name     string
	Size     int64
	MIMEType string
	Data     []byte
}

// New builds a File from raw bytes. An empty mimeType is detected from the
// name and content.
func New(name, mimeType string, data []byte) File {
	if mimeType == "" {
		mimeType = DetectMIMEType(name, data)
	}
	return File{
		Name:     SanitizeFilename(name),
		Size:     int64(len(data)),
		MIMEType: mimeType,
		Data:     data,
	}
}

// Open reads the file at path.
//
// Example:
//
//	f, err := file.Open("./avatar.png")
func Open(path string) (File, error) {
	if path == "" {
		return File{}, ErrEmptyPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	return New(filepath.Base(path), "", data), nil
}

// FromHeader reads an uploaded multipart file. The declared Content-Type
// wins over detection.
func FromHeader(fh *multipart.FileHeader) (File, error) {
	if fh == nil {
		return File{}, ErrNilFileHeader
	}

	src, err := fh.Open()
	if err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	defer func() { _ = src.Close() }()

	data, err := io.ReadAll(src)
	if err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}

	return New(fh.Filename, fh.Header.Get("Content-Type"), data), nil
}

// Reader returns a reader over the file content.
func (f File) Reader() io.Reader {
	return bytes.NewReader(f.Data)
}

// Extension returns the lower-cased extension including the dot.
func (f File) Extension() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// IsImage reports whether the MIME type belongs to the image family.
func (f File) IsImage() bool {
	return strings.HasPrefix(f.MIMEType, "image/")
}

// DataURL encodes the content as a data: URL, the form used for image
// thumbnails.
func (f File) DataURL() string {
	mimeType := f.MIMEType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

// DetectMIMEType resolves a MIME type from the extension, falling back to
// content sniffing of the first 512 bytes.
func DetectMIMEType(name string, data []byte) string {
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		// Drop parameters such as charset; allow-lists compare bare types.
		if mt, _, err := mime.ParseMediaType(byExt); err == nil {
			return mt
		}
		return byExt
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	mt := http.DetectContentType(head)
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		return parsed
	}
	return mt
}

// Hash returns the hex digest of the content, SHA-256 when h is nil.
func Hash(f File, h hash.Hash) (string, error) {
	if h == nil {
		h = sha256.New()
	}
	if _, err := io.Copy(h, f.Reader()); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToHashFile, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SanitizeFilename removes any path components and NUL bytes from a
// filename. Returns "unnamed" for empty names and directory references.
//
// Example:
//
//	safe := file.SanitizeFilename("../../../etc/passwd") // "passwd"
//	safe = file.SanitizeFilename("C:\\Windows\\file.txt") // "file.txt"
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "\x00", "")

	if filename == "." || filename == ".." || filename == "" || filename == "/" {
		filename = "unnamed"
	}

	return filename
}
