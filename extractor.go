package pdfnarrator

import (
	"strings"

	"go.uber.org/zap"

	"github.com/porticus-lab/go-pdf-narrator/pdf"
)

// PageSeparator is appended after every page's text, including the last and
// including pages without text.
const PageSeparator = "\n\n"

// Extractor turns PDF bytes into a single plain-text string.
//
// An Extractor holds no per-document state and may be reused. Calls to
// [Extractor.Extract] are independent of one another.
type Extractor struct {
	opener pdf.Opener
	logger *zap.Logger
}

// ExtractorOption configures an [Extractor].
type ExtractorOption func(*Extractor)

// WithExtractorLogger sets the logger used for page-level diagnostics.
func WithExtractorLogger(l *zap.Logger) ExtractorOption {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExtractor creates an Extractor reading documents through opener.
func NewExtractor(opener pdf.Opener, opts ...ExtractorOption) *Extractor {
	e := &Extractor{opener: opener, logger: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract returns the text of every page in ascending page order. Each
// page's textual fragments are joined with a single space and followed by
// [PageSeparator]. A document without pages yields "".
//
// Any error raised while opening or reading the document is returned as an
// [*ExtractionFailure]; no partial text is returned.
func (e *Extractor) Extract(data []byte) (string, error) {
	if len(data) == 0 {
		return "", &ExtractionFailure{Cause: ErrEmptyDocument}
	}

	doc, err := e.opener.Open(data)
	if err != nil {
		e.logger.Warn("opening document failed", zap.Int("bytes", len(data)), zap.Error(err))
		return "", &ExtractionFailure{Cause: err}
	}

	n := doc.NumPages()
	e.logger.Debug("document opened", zap.Int("bytes", len(data)), zap.Int("pages", n))

	var sb strings.Builder
	for i := 1; i <= n; i++ {
		text, err := pageText(doc, i)
		if err != nil {
			e.logger.Warn("reading page failed", zap.Int("page", i), zap.Error(err))
			return "", &ExtractionFailure{Page: i, Cause: err}
		}
		sb.WriteString(text)
		sb.WriteString(PageSeparator)
	}
	return sb.String(), nil
}

// pageText joins the textual fragments of page i with single spaces.
func pageText(doc pdf.Document, i int) (string, error) {
	page, err := doc.Page(i)
	if err != nil {
		return "", err
	}
	frags, err := page.Fragments()
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(frags))
	for _, f := range frags {
		if !f.HasText {
			continue
		}
		parts = append(parts, f.Text)
	}
	return strings.Join(parts, " "), nil
}
