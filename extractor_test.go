package pdfnarrator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdfnarrator "github.com/porticus-lab/go-pdf-narrator"
	"github.com/porticus-lab/go-pdf-narrator/internal/pdftest"
	"github.com/porticus-lab/go-pdf-narrator/pdf"
)

// fakeOpener serves a fixed document regardless of input.
type fakeOpener struct {
	pages   [][]pdf.Fragment
	openErr error
	pageErr map[int]error
	opened  int
}

func (o *fakeOpener) Open(data []byte) (pdf.Document, error) {
	o.opened++
	if o.openErr != nil {
		return nil, o.openErr
	}
	return &fakeDocument{o: o}, nil
}

type fakeDocument struct{ o *fakeOpener }

func (d *fakeDocument) NumPages() int { return len(d.o.pages) }

func (d *fakeDocument) Page(i int) (pdf.Page, error) {
	if err := d.o.pageErr[i]; err != nil {
		return nil, err
	}
	return fakePage(d.o.pages[i-1]), nil
}

type fakePage []pdf.Fragment

func (p fakePage) Fragments() ([]pdf.Fragment, error) { return p, nil }

func text(s string) pdf.Fragment { return pdf.Fragment{Text: s, HasText: true} }

var input = []byte("%PDF-")

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		pages [][]pdf.Fragment
		want  string
	}{
		{
			name:  "fragments joined with spaces",
			pages: [][]pdf.Fragment{{text("Hello"), text("world")}},
			want:  "Hello world\n\n",
		},
		{
			name:  "page without text still separated",
			pages: [][]pdf.Fragment{{text("Hello"), text("world")}, {}},
			want:  "Hello world\n\n\n\n",
		},
		{
			name:  "non-text fragments skipped",
			pages: [][]pdf.Fragment{{text("A"), {}, text("B"), {Text: "ignored"}}},
			want:  "A B\n\n",
		},
		{
			name:  "empty strings are text",
			pages: [][]pdf.Fragment{{text("A"), text(""), text("B")}},
			want:  "A  B\n\n",
		},
		{
			name:  "pages in order",
			pages: [][]pdf.Fragment{{text("one")}, {text("two")}, {text("three")}},
			want:  "one\n\ntwo\n\nthree\n\n",
		},
		{
			name:  "no pages",
			pages: nil,
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := pdfnarrator.NewExtractor(&fakeOpener{pages: tt.pages})
			got, err := ext.Extract(input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_Deterministic(t *testing.T) {
	ext := pdfnarrator.NewExtractor(&fakeOpener{pages: [][]pdf.Fragment{{text("a")}, {text("b")}}})
	first, err := ext.Extract(input)
	require.NoError(t, err)
	second, err := ext.Extract(input)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExtract_EmptyInput(t *testing.T) {
	o := &fakeOpener{}
	_, err := pdfnarrator.NewExtractor(o).Extract(nil)

	var failure *pdfnarrator.ExtractionFailure
	require.ErrorAs(t, err, &failure)
	assert.ErrorIs(t, err, pdfnarrator.ErrEmptyDocument)
	assert.Zero(t, o.opened)
}

func TestExtract_OpenFailure(t *testing.T) {
	cause := errors.New("bad xref")
	got, err := pdfnarrator.NewExtractor(&fakeOpener{openErr: cause}).Extract(input)

	assert.Empty(t, got)
	var failure *pdfnarrator.ExtractionFailure
	require.ErrorAs(t, err, &failure)
	assert.Zero(t, failure.Page)
	assert.ErrorIs(t, err, cause)
}

func TestExtract_PageFailure(t *testing.T) {
	cause := errors.New("bad content stream")
	o := &fakeOpener{
		pages:   [][]pdf.Fragment{{text("ok")}, {text("never")}, {text("after")}},
		pageErr: map[int]error{2: cause},
	}
	got, err := pdfnarrator.NewExtractor(o).Extract(input)

	assert.Empty(t, got, "no partial text on failure")
	var failure *pdfnarrator.ExtractionFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, 2, failure.Page)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "page 2")
}

func TestExtract_RealDocument(t *testing.T) {
	for _, backend := range pdf.Backends() {
		t.Run(backend, func(t *testing.T) {
			opener, err := pdf.NewOpener(backend)
			require.NoError(t, err)

			data := pdftest.Build(pdftest.Text("First"), "", pdftest.Text("Third"))
			got, err := pdfnarrator.NewExtractor(opener).Extract(data)
			require.NoError(t, err)
			assert.Equal(t, "First\n\n\n\nThird\n\n", got)
		})
	}
}

func TestExtract_Backends(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "runs on one line",
			content: "BT /F1 12 Tf 72 700 Td (Hello) Tj 60 0 Td (world) Tj ET",
			want:    "Hello world\n\n",
		},
		{
			name:    "kerned word",
			content: "BT /F1 12 Tf 72 700 Td [(wor) -20 (ld)] TJ ET",
			want:    "world\n\n",
		},
		{
			name:    "WinAnsi punctuation",
			content: `BT /F1 12 Tf 72 700 Td (It\222s \223ok\224) Tj ET`,
			want:    "It’s “ok”\n\n",
		},
	}

	for _, backend := range pdf.Backends() {
		opener, err := pdf.NewOpener(backend)
		require.NoError(t, err)
		for _, tt := range tests {
			t.Run(backend+"/"+tt.name, func(t *testing.T) {
				got, err := pdfnarrator.NewExtractor(opener).Extract(pdftest.Build(tt.content))
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	}
}

func TestExtract_Malformed(t *testing.T) {
	for _, backend := range pdf.Backends() {
		t.Run(backend, func(t *testing.T) {
			opener, err := pdf.NewOpener(backend)
			require.NoError(t, err)

			_, err = pdfnarrator.NewExtractor(opener).Extract([]byte("definitely not a pdf"))
			var failure *pdfnarrator.ExtractionFailure
			assert.ErrorAs(t, err, &failure)
		})
	}
}
