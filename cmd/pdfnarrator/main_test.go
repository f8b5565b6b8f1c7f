package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	pdfnarrator "github.com/porticus-lab/go-pdf-narrator"
	"github.com/porticus-lab/go-pdf-narrator/internal/pdftest"
	"github.com/porticus-lab/go-pdf-narrator/pdf"
)

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func writePDF(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.pdf")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestExportCommand(t *testing.T) {
	// Keep config discovery away from the developer's files.
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	t.Run("no pages", func(t *testing.T) {
		dir := t.TempDir()
		_, err := runCLI(t, "export", writePDF(t, pdftest.Build()), "--dir", dir)
		require.ErrorIs(t, err, pdfnarrator.ErrEmptyText)
		assert.NoFileExists(t, filepath.Join(dir, pdfnarrator.ExportFilename))
	})

	t.Run("blank page keeps its separator", func(t *testing.T) {
		dir := t.TempDir()
		_, err := runCLI(t, "export", writePDF(t, pdftest.Build("")), "--dir", dir)
		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(dir, pdfnarrator.ExportFilename))
		require.NoError(t, err)
		assert.Equal(t, "\n\n", string(data))
	})

	t.Run("writes text", func(t *testing.T) {
		dir := t.TempDir()
		out, err := runCLI(t, "export", writePDF(t, pdftest.Build(pdftest.Text("Hello"))), "--dir", dir)
		require.NoError(t, err)

		want := filepath.Join(dir, pdfnarrator.ExportFilename)
		assert.Equal(t, want+"\n", out)
		data, err := os.ReadFile(want)
		require.NoError(t, err)
		assert.Equal(t, "Hello\n\n", string(data))
	})
}

func TestWriteExtract(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeExtract(&buf, "text", "a.pdf", "Hello\n\n"))
	assert.Equal(t, "Hello\n\n", buf.String())

	buf.Reset()
	require.NoError(t, writeExtract(&buf, "json", "a.pdf", "Hello\n\n"))
	var got extractResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, extractResult{File: "a.pdf", Text: "Hello\n\n"}, got)

	assert.Error(t, writeExtract(&buf, "markdown", "a.pdf", ""))
}

func TestWriteInfo(t *testing.T) {
	info := &pdf.Info{Version: "1.4", Pages: 2, Sizes: []pdf.PageSize{{Width: 612, Height: 792}, {Width: 595, Height: 842}}}

	var buf bytes.Buffer
	require.NoError(t, writeInfo(&buf, "text", "a.pdf", info))
	assert.Contains(t, buf.String(), "Version: PDF-1.4")
	assert.Contains(t, buf.String(), "Page 2: 595 x 842 pt")

	buf.Reset()
	require.NoError(t, writeInfo(&buf, "yaml", "a.pdf", info))
	var fromYAML pdf.Info
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, *info, fromYAML)

	buf.Reset()
	require.NoError(t, writeInfo(&buf, "json", "a.pdf", info))
	assert.JSONEq(t, `{"version":"1.4","pages":2,"sizes":[{"width":612,"height":792},{"width":595,"height":842}]}`, buf.String())

	assert.Error(t, writeInfo(&buf, "xml", "a.pdf", info))
}
