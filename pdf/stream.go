package pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu otherwise creates a config directory under the user's home.
	api.DisableConfigDir()
}

// StreamOpener is the pdfcpu backend. Every text-showing operator in a
// page's content stream becomes one fragment, decoded through the page's
// font encodings and ToUnicode maps.
type StreamOpener struct{}

// Open parses data in relaxed validation mode and returns the document.
func (StreamOpener) Open(data []byte) (Document, error) {
	ctx, err := readContext(data)
	if err != nil {
		return nil, err
	}
	return &streamDocument{ctx: ctx}, nil
}

func readContext(data []byte) (ctx *model.Context, err error) {
	defer recoverParse(&err)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err = api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("pdf: pdfcpu read: %w", err)
	}
	return ctx, nil
}

type streamDocument struct {
	ctx *model.Context
}

func (d *streamDocument) NumPages() int { return d.ctx.PageCount }

func (d *streamDocument) Page(i int) (Page, error) {
	if err := checkPage(i, d.ctx.PageCount); err != nil {
		return nil, err
	}
	return streamPage{ctx: d.ctx, nr: i}, nil
}

type streamPage struct {
	ctx *model.Context
	nr  int
}

func (p streamPage) Fragments() (frags []Fragment, err error) {
	defer recoverParse(&err)

	r, err := pdfcpu.ExtractPageContent(p.ctx, p.nr)
	if err != nil {
		return nil, fmt.Errorf("pdf: page %d content: %w", p.nr, err)
	}
	if r == nil {
		return nil, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("pdf: page %d content: %w", p.nr, err)
	}
	return scanFragments(data, pageFonts(p.ctx, p.nr)), nil
}
