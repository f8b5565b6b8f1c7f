package pdfnarrator

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the library.
var (
	// ErrClosed is returned when attempting to use a closed speech engine,
	// Narrator or Session.
	ErrClosed = errors.New("pdfnarrator: closed")

	// ErrEmptyText is returned when export or narration is requested while
	// there is no extracted text.
	ErrEmptyText = errors.New("pdfnarrator: no text available, convert a PDF first")

	// ErrEmptyDocument is the cause of an [ExtractionFailure] for a zero-length input.
	ErrEmptyDocument = errors.New("pdfnarrator: empty document")

	// ErrExtractionInProgress is returned by [Session.Upload] while another
	// extraction is running.
	ErrExtractionInProgress = errors.New("pdfnarrator: extraction already in progress")

	// ErrUnknownVoice is returned when selecting a voice that is not in the catalog.
	ErrUnknownVoice = errors.New("pdfnarrator: unknown voice")
)

// ExtractionFailure reports that a document could not be turned into text.
// No partial text accompanies it.
type ExtractionFailure struct {
	// Page is the 1-based page being read when the failure occurred, or 0 if
	// the document could not be opened.
	Page  int
	Cause error
}

func (e *ExtractionFailure) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("pdfnarrator: extraction failed on page %d: %v", e.Page, e.Cause)
	}
	return fmt.Sprintf("pdfnarrator: extraction failed: %v", e.Cause)
}

func (e *ExtractionFailure) Unwrap() error { return e.Cause }
