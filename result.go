package pdfnarrator

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

const (
	// ExportFilename is the name under which extracted text is exported.
	ExportFilename = "extracted_text.txt"
	// ExportContentType is the media type of exported text.
	ExportContentType = "text/plain; charset=utf-8"
)

// Result holds exported text and provides helpers for common output targets
// such as raw bytes, streaming readers and files.
//
// The content is byte-for-byte the extracted text at the moment of export.
// It is safe to call its methods multiple times; the data is never modified.
type Result struct {
	data []byte
}

func newResult(text string) *Result {
	return &Result{data: []byte(text)}
}

// Export returns text as an [ExportFilename] result, or [ErrEmptyText] when
// text is empty.
func Export(text string) (*Result, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	return newResult(text), nil
}

// Bytes returns a copy of the exported content.
func (r *Result) Bytes() []byte {
	return bytes.Clone(r.data)
}

// String returns the exported content as a string.
func (r *Result) String() string {
	return string(r.data)
}

// Reader returns an [*bytes.Reader] over the content.
func (r *Result) Reader() *bytes.Reader {
	return bytes.NewReader(r.data)
}

// WriteTo writes the full content to w. It implements [io.WriterTo].
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.data)
	return int64(n), err
}

// WriteToFile writes the content to the file at path, creating it if needed.
func (r *Result) WriteToFile(path string, perm os.FileMode) error {
	return os.WriteFile(path, r.data, perm)
}

// WriteToDir writes the content to [ExportFilename] inside dir and returns
// the path written.
func (r *Result) WriteToDir(dir string) (string, error) {
	path := filepath.Join(dir, ExportFilename)
	if err := r.WriteToFile(path, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Len returns the size of the content in bytes.
func (r *Result) Len() int {
	return len(r.data)
}

// Filename returns [ExportFilename].
func (r *Result) Filename() string {
	return ExportFilename
}

// ContentType returns [ExportContentType].
func (r *Result) ContentType() string {
	return ExportContentType
}
