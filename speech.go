package pdfnarrator

import (
	"context"
	"fmt"
)

// Voice describes a synthesis voice from the platform catalog.
type Voice struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
}

func (v Voice) String() string {
	return fmt.Sprintf("%s (%s)", v.Name, v.Lang)
}

// Speech is a speech-synthesis engine.
//
// The catalog may be empty at first and populate later; engines deliver
// every catalog change to the callback registered with OnVoicesChanged.
// Callbacks may run on any goroutine.
type Speech interface {
	// Voices returns the catalog as currently known.
	Voices(ctx context.Context) ([]Voice, error)
	// OnVoicesChanged registers fn to receive each new catalog. A later call
	// replaces the earlier callback; nil unregisters.
	OnVoicesChanged(fn func([]Voice))
	// Speak starts narrating text. A nil voice selects the platform default.
	Speak(ctx context.Context, text string, voice *Voice) (Utterance, error)
	// Cancel stops all speech. Cancelled utterances still complete.
	Cancel(ctx context.Context) error
}

// Utterance is a handle to one Speak call.
type Utterance interface {
	ID() string
	// Done is closed when the utterance ends, whether it finished or was
	// cancelled.
	Done() <-chan struct{}
}

// State is the narration playback state.
type State int

const (
	Idle State = iota
	Speaking
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Speaking:
		return "speaking"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
