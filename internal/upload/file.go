package upload

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ImageExtensions are the file extensions offered by default when picking an
// image.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".svg", ".avif", ".heic"}

// File is a handle on one file picked for upload. The content is read when
// the upload starts, not when the file is picked.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Path        string // empty for in-memory files

	open func() (io.ReadCloser, error)
}

// Open returns a fresh reader over the file content.
func (f File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("upload: file %q has no content", f.Name)
	}
	return f.open()
}

// IsZero reports whether f is the zero handle.
func (f File) IsZero() bool {
	return f.Name == "" && f.open == nil
}

// Open builds a handle for the regular file at path.
func Open(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if !info.Mode().IsRegular() {
		return File{}, fmt.Errorf("%w: %s", ErrNotFile, path)
	}
	ct, err := detectContentType(path)
	if err != nil {
		return File{}, err
	}
	return File{
		Name:        filepath.Base(path),
		ContentType: ct,
		Size:        info.Size(),
		Path:        path,
		open:        func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FromBytes builds an in-memory handle. An empty contentType is sniffed from
// the name, then the data.
func FromBytes(name, contentType string, data []byte) File {
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	buf := append([]byte(nil), data...)
	return File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(buf)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(buf)), nil
		},
	}
}

func detectContentType(path string) (string, error) {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}
