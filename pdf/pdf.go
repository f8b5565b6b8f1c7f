// Package pdf provides the parsing backends that turn raw PDF bytes into an
// ordered sequence of pages, each yielding text fragments.
//
// Two backends are available:
//
//   - [RowOpener] ("ledongthuc") positions glyphs with
//     github.com/ledongthuc/pdf, groups them into rows and splits each row
//     into runs at horizontal gaps. This is the default.
//   - [StreamOpener] ("pdfcpu") reads the document with pdfcpu and scans each
//     page's content stream, emitting one fragment per text-showing operator
//     decoded with the selected font's encoding.
//
// Both satisfy [Opener]. Pages are addressed 1..N.
package pdf

import (
	"errors"
	"fmt"
	"strings"
)

// Backend names accepted by [NewOpener].
const (
	BackendRows   = "ledongthuc"
	BackendStream = "pdfcpu"
)

var (
	// ErrUnknownBackend is returned by [NewOpener] for an unrecognised name.
	ErrUnknownBackend = errors.New("pdf: unknown backend")

	// ErrMalformed wraps panics raised by a third-party parser on input it
	// cannot handle.
	ErrMalformed = errors.New("pdf: malformed document")

	// ErrPageRange is returned when a page outside 1..N is requested.
	ErrPageRange = errors.New("pdf: page out of range")
)

// Fragment is one text item of a page, in the order the backend produced it.
// HasText is false for items that carry no textual payload, such as
// marked-content markers or kerning-only arrays.
type Fragment struct {
	Text    string
	HasText bool
}

// Opener opens a document from its raw bytes.
type Opener interface {
	Open(data []byte) (Document, error)
}

// Document is an opened PDF.
type Document interface {
	// NumPages returns the page count N.
	NumPages() int
	// Page returns page i, 1-based.
	Page(i int) (Page, error)
}

// Page yields the text fragments of a single page.
type Page interface {
	Fragments() ([]Fragment, error)
}

// NewOpener returns the backend registered under name. An empty name
// selects [BackendRows].
func NewOpener(name string) (Opener, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendRows:
		return RowOpener{}, nil
	case BackendStream:
		return StreamOpener{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// Backends lists the names accepted by [NewOpener].
func Backends() []string {
	return []string{BackendRows, BackendStream}
}

// recoverParse turns a parser panic into an ErrMalformed error.
func recoverParse(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", ErrMalformed, r)
	}
}

func checkPage(i, n int) error {
	if i < 1 || i > n {
		return fmt.Errorf("%w: %d (1-%d)", ErrPageRange, i, n)
	}
	return nil
}
