package pdfnarrator

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Narrator is a two-state playback machine (Idle, Speaking) over a [Speech]
// engine. At most one utterance is active at a time: [Narrator.Toggle]
// cancels an active utterance rather than starting a second one. There is
// no resumable pause; a cancelled narration restarts from the beginning.
//
// A Narrator is safe for concurrent use.
type Narrator struct {
	speech   Speech
	logger   *zap.Logger
	observer func(State)

	// op serialises user actions, which may call into the engine.
	op sync.Mutex

	// mu guards the fields below. It is never held across engine calls.
	mu          sync.Mutex
	voices      []Voice
	selected    *Voice
	catalogSeen bool
	state       State
	active      Utterance
	closed      bool
}

// NarratorOption configures a [Narrator].
type NarratorOption func(*Narrator)

// WithNarratorLogger sets the logger for playback transitions.
func WithNarratorLogger(l *zap.Logger) NarratorOption {
	return func(n *Narrator) {
		if l != nil {
			n.logger = l
		}
	}
}

// WithStateObserver registers fn to be called after every state transition.
// fn may be called from the goroutine that observes utterance completion and
// must not call back into the Narrator's user actions.
func WithStateObserver(fn func(State)) NarratorOption {
	return func(n *Narrator) {
		n.observer = fn
	}
}

// NewNarrator creates an idle Narrator over speech. It subscribes to catalog
// updates and loads the catalog once; an empty or failing initial load is
// not an error, since engines may populate the catalog later.
func NewNarrator(ctx context.Context, speech Speech, opts ...NarratorOption) *Narrator {
	n := &Narrator{speech: speech, logger: zap.NewNop()}
	for _, o := range opts {
		o(n)
	}

	speech.OnVoicesChanged(n.replaceCatalog)

	voices, err := speech.Voices(ctx)
	if err != nil {
		n.logger.Warn("loading voice catalog failed", zap.Error(err))
		return n
	}

	n.mu.Lock()
	// A catalog delivered by the engine while we were loading is newer.
	if !n.catalogSeen {
		n.applyCatalog(voices)
	}
	n.mu.Unlock()
	return n
}

// replaceCatalog is the engine's voices-changed callback.
func (n *Narrator) replaceCatalog(voices []Voice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.catalogSeen = true
	n.applyCatalog(voices)
	n.logger.Debug("voice catalog updated", zap.Int("voices", len(voices)))
}

// applyCatalog replaces the catalog. The selection survives if its name is
// still present; otherwise the first entry becomes selected. Must hold mu.
func (n *Narrator) applyCatalog(voices []Voice) {
	n.voices = append([]Voice(nil), voices...)
	if n.selected != nil {
		if _, ok := findVoice(n.voices, n.selected.Name); ok {
			return
		}
	}
	n.selected = nil
	if len(n.voices) > 0 {
		v := n.voices[0]
		n.selected = &v
	}
}

func findVoice(voices []Voice, name string) (Voice, bool) {
	for _, v := range voices {
		if v.Name == name {
			return v, true
		}
	}
	return Voice{}, false
}

// Voices returns a copy of the current catalog.
func (n *Narrator) Voices() []Voice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Voice(nil), n.voices...)
}

// SelectedVoice returns the voice used for the next narration. ok is false
// when the catalog is empty and the platform default will be used.
func (n *Narrator) SelectedVoice() (v Voice, ok bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.selected == nil {
		return Voice{}, false
	}
	return *n.selected, true
}

// SetVoice selects the catalog voice called name for subsequent narrations.
func (n *Narrator) SetVoice(name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	v, ok := findVoice(n.voices, name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVoice, name)
	}
	n.selected = &v
	return nil
}

// State returns the current playback state.
func (n *Narrator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Toggle cancels the active narration if there is one. Otherwise it starts
// narrating text with the selected voice and returns [Speaking]. Empty text
// is refused with [ErrEmptyText] and the state stays [Idle].
func (n *Narrator) Toggle(ctx context.Context, text string) (State, error) {
	n.op.Lock()
	defer n.op.Unlock()

	n.mu.Lock()
	closed, state := n.closed, n.state
	var voice *Voice
	if n.selected != nil {
		v := *n.selected
		voice = &v
	}
	n.mu.Unlock()

	if closed {
		return Idle, ErrClosed
	}
	if state == Speaking {
		return Idle, n.stop(ctx)
	}
	if text == "" {
		return Idle, ErrEmptyText
	}

	u, err := n.speech.Speak(ctx, text, voice)
	if err != nil {
		return Idle, fmt.Errorf("pdfnarrator: starting speech: %w", err)
	}

	n.mu.Lock()
	n.active = u
	n.state = Speaking
	n.mu.Unlock()

	fields := []zap.Field{zap.String("utterance", u.ID()), zap.Int("chars", len(text))}
	if voice != nil {
		fields = append(fields, zap.String("voice", voice.Name))
	}
	n.logger.Info("narration started", fields...)
	n.notify(Speaking)

	go n.await(u)
	return Speaking, nil
}

// await moves the machine to Idle when u completes, unless u has been
// superseded by a cancellation or a newer utterance.
func (n *Narrator) await(u Utterance) {
	<-u.Done()

	n.mu.Lock()
	current := n.active == u
	if current {
		n.active = nil
		n.state = Idle
	}
	n.mu.Unlock()

	if current {
		n.logger.Info("narration finished", zap.String("utterance", u.ID()))
		n.notify(Idle)
	}
}

// Stop cancels the active narration. It is a no-op when idle.
func (n *Narrator) Stop(ctx context.Context) error {
	n.op.Lock()
	defer n.op.Unlock()
	return n.stop(ctx)
}

// stop must be called with op held.
func (n *Narrator) stop(ctx context.Context) error {
	n.mu.Lock()
	if n.state == Idle {
		n.mu.Unlock()
		return nil
	}
	id := ""
	if n.active != nil {
		id = n.active.ID()
	}
	n.active = nil
	n.state = Idle
	n.mu.Unlock()

	n.logger.Info("narration cancelled", zap.String("utterance", id))
	n.notify(Idle)

	if err := n.speech.Cancel(ctx); err != nil {
		return fmt.Errorf("pdfnarrator: cancelling speech: %w", err)
	}
	return nil
}

// Close cancels any active narration and detaches from the engine. It must
// be called when the narration surface goes away so audio does not outlive
// it. Close is idempotent; the engine itself is not closed.
func (n *Narrator) Close(ctx context.Context) error {
	n.op.Lock()
	defer n.op.Unlock()

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.mu.Unlock()

	err := n.stop(ctx)

	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()
	n.speech.OnVoicesChanged(nil)
	return err
}

func (n *Narrator) notify(s State) {
	if n.observer != nil {
		n.observer(s)
	}
}
