package pdfnarrator

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Session is the state a user-facing shell holds between actions: the
// current extracted text and the narration machine. It is the single
// writer of the text; the Narrator owns the playback state.
//
// A Session is safe for concurrent use. Only one extraction may run at a
// time; a second [Session.Upload] during one fails fast.
type Session struct {
	extractor *Extractor
	narrator  *Narrator
	logger    *zap.Logger

	mu         sync.Mutex
	text       string
	extracting bool
	closed     bool
}

// SessionOption configures a [Session].
type SessionOption func(*Session)

// WithSessionLogger sets the logger for upload and export events.
func WithSessionLogger(l *zap.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession creates a Session with no text.
func NewSession(extractor *Extractor, narrator *Narrator, opts ...SessionOption) *Session {
	s := &Session{extractor: extractor, narrator: narrator, logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Upload extracts data and, on success, makes the result the current text.
// On failure the previously held text is kept.
func (s *Session) Upload(data []byte) (string, error) {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return "", ErrClosed
	case s.extracting:
		s.mu.Unlock()
		return "", ErrExtractionInProgress
	}
	s.extracting = true
	s.mu.Unlock()

	text, err := s.extractor.Extract(data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.extracting = false
	if err != nil {
		return "", err
	}
	s.text = text
	s.logger.Info("document converted", zap.Int("bytes", len(data)), zap.Int("chars", len(text)))
	return text, nil
}

// Extracting reports whether an upload is in flight.
func (s *Session) Extracting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extracting
}

// Text returns the current text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// HasText reports whether there is text to export or narrate.
func (s *Session) HasText() bool {
	return s.Text() != ""
}

// Export returns the current text as an [ExportFilename] result, or
// [ErrEmptyText] when there is none.
func (s *Session) Export() (*Result, error) {
	res, err := Export(s.Text())
	if err != nil {
		return nil, err
	}
	s.logger.Info("text exported", zap.Int("chars", res.Len()))
	return res, nil
}

// ToggleNarration starts narrating the current text, or cancels the active
// narration.
func (s *Session) ToggleNarration(ctx context.Context) (State, error) {
	return s.narrator.Toggle(ctx, s.Text())
}

// NarrationState returns the playback state.
func (s *Session) NarrationState() State {
	return s.narrator.State()
}

// SetVoice selects the narration voice by name.
func (s *Session) SetVoice(name string) error {
	return s.narrator.SetVoice(name)
}

// Voices returns the voice catalog.
func (s *Session) Voices() []Voice {
	return s.narrator.Voices()
}

// SelectedVoice returns the voice for the next narration.
func (s *Session) SelectedVoice() (Voice, bool) {
	return s.narrator.SelectedVoice()
}

// Close stops narration and rejects further uploads. It is idempotent.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.narrator.Close(ctx)
}
