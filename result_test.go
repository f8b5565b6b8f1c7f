package pdfnarrator

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const sampleText = "Hello world\n\nSecond page\n\n"

func TestResult_Bytes(t *testing.T) {
	r := newResult(sampleText)
	if !bytes.Equal(r.Bytes(), []byte(sampleText)) {
		t.Error("Bytes() did not return original text")
	}
	if r.String() != sampleText {
		t.Errorf("String() = %q, want %q", r.String(), sampleText)
	}
}

func TestResult_BytesIsCopy(t *testing.T) {
	r := newResult(sampleText)
	b := r.Bytes()
	b[0] = 'J'
	if r.String() != sampleText {
		t.Errorf("String() = %q after mutating Bytes(), want %q", r.String(), sampleText)
	}
	if !bytes.Equal(r.Bytes(), []byte(sampleText)) {
		t.Error("Bytes() changed after mutating an earlier copy")
	}
}

func TestResult_Reader(t *testing.T) {
	r := newResult(sampleText)
	reader := r.Reader()
	if reader.Len() != len(sampleText) {
		t.Errorf("Reader().Len() = %d, want %d", reader.Len(), len(sampleText))
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		t.Fatalf("reading: %v", err)
	}
	if buf.String() != sampleText {
		t.Error("Reader() produced different content")
	}
}

func TestResult_WriteTo(t *testing.T) {
	r := newResult(sampleText)
	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(len(sampleText)) {
		t.Errorf("WriteTo wrote %d bytes, want %d", n, len(sampleText))
	}
	if buf.String() != sampleText {
		t.Error("WriteTo produced different content")
	}
}

func TestResult_WriteToDir(t *testing.T) {
	r := newResult(sampleText)
	dir := t.TempDir()
	path, err := r.WriteToDir(dir)
	if err != nil {
		t.Fatalf("WriteToDir: %v", err)
	}
	if want := filepath.Join(dir, "extracted_text.txt"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(data) != sampleText {
		t.Error("WriteToDir produced different content")
	}
}

func TestResult_Metadata(t *testing.T) {
	r := newResult(sampleText)
	if r.Len() != len(sampleText) {
		t.Errorf("Len() = %d, want %d", r.Len(), len(sampleText))
	}
	if r.Filename() != ExportFilename {
		t.Errorf("Filename() = %q", r.Filename())
	}
	if r.ContentType() != "text/plain; charset=utf-8" {
		t.Errorf("ContentType() = %q", r.ContentType())
	}
}

func TestExport(t *testing.T) {
	if _, err := Export(""); err != ErrEmptyText {
		t.Errorf("Export(\"\") error = %v, want ErrEmptyText", err)
	}
	r, err := Export(sampleText)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if r.String() != sampleText {
		t.Errorf("Export content = %q, want %q", r.String(), sampleText)
	}
}
