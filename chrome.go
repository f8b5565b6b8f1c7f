package pdfnarrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// bindingName is the page-global function through which the page reports
// speech events back to Go.
const bindingName = "__pdfnarratorEvent"

// speechScript installs window.__pdfnarrator in the page. Utterances are kept
// in a map until they end so the browser does not collect them early and
// drop their end events.
const speechScript = `(() => {
  const emit = (msg) => window.` + bindingName + `(JSON.stringify(msg));
  const live = new Map();
  const voices = () => speechSynthesis.getVoices().map((v) => ({ name: v.name, lang: v.lang }));
  speechSynthesis.addEventListener("voiceschanged", () => emit({ type: "voices", voices: voices() }));
  window.__pdfnarrator = {
    voices,
    speak(text, name, id) {
      const u = new SpeechSynthesisUtterance(text);
      const v = speechSynthesis.getVoices().find((v) => v.name === name);
      if (v) u.voice = v;
      const end = (error) => { live.delete(id); emit({ type: "end", id, error }); };
      u.onend = () => end("");
      u.onerror = (e) => end(e.error || "error");
      live.set(id, u);
      speechSynthesis.speak(u);
    },
    cancel() { speechSynthesis.cancel(); },
  };
})()`

// speechEvent is the JSON payload passed through the binding.
type speechEvent struct {
	Type   string  `json:"type"`
	ID     string  `json:"id"`
	Error  string  `json:"error"`
	Voices []Voice `json:"voices"`
}

// ChromeSpeech is a [Speech] engine backed by the Web Speech API of a
// Chrome or Chromium instance, driven over the DevTools protocol.
//
// A ChromeSpeech manages one browser process and one page for its whole
// lifetime. It is safe for concurrent use. Call [ChromeSpeech.Close] when
// the engine is no longer needed to release browser resources.
type ChromeSpeech struct {
	cfg           speechConfig
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu       sync.Mutex
	closed   bool
	pending  map[string]*chromeUtterance
	onVoices func([]Voice)
}

// NewChromeSpeech starts a browser and installs the speech bridge in a
// blank page. The caller must call [ChromeSpeech.Close] when finished.
func NewChromeSpeech(opts ...Option) (*ChromeSpeech, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.chromePath == "" && cfg.autoDownload {
		path, err := resolveBrowser(cfg.logger)
		if err != nil {
			return nil, err
		}
		cfg.chromePath = path
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("mute-audio", false),
		chromedp.Flag("autoplay-policy", "no-user-gesture-required"),
		chromedp.Flag("enable-speech-dispatcher", true),
	)
	if cfg.headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if cfg.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.chromePath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	s := &ChromeSpeech{
		cfg:           cfg,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		pending:       make(map[string]*chromeUtterance),
	}
	chromedp.ListenTarget(browserCtx, s.handleEvent)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx,
		runtime.AddBinding(bindingName),
		chromedp.Navigate("about:blank"),
		chromedp.Evaluate(speechScript, nil),
	); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("pdfnarrator: starting browser: %w", err)
	}
	cfg.logger.Debug("speech bridge installed", zap.String("chrome", cfg.chromePath))
	return s, nil
}

// Voices returns the browser's current voice catalog. It may be empty until
// the browser has loaded its voices; later changes are delivered to the
// OnVoicesChanged callback.
func (s *ChromeSpeech) Voices(ctx context.Context) ([]Voice, error) {
	var voices []Voice
	if err := s.run(ctx, chromedp.Evaluate(`window.__pdfnarrator.voices()`, &voices)); err != nil {
		return nil, fmt.Errorf("pdfnarrator: listing voices: %w", err)
	}
	return voices, nil
}

// OnVoicesChanged registers fn to receive the catalog whenever the browser
// reports a change.
func (s *ChromeSpeech) OnVoicesChanged(fn func([]Voice)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onVoices = fn
}

// Speak queues text for narration. A nil voice, or one the browser does not
// know, uses the browser's default voice.
func (s *ChromeSpeech) Speak(ctx context.Context, text string, voice *Voice) (Utterance, error) {
	name := ""
	if voice != nil {
		name = voice.Name
	}
	args, err := json.Marshal([]string{text, name})
	if err != nil {
		return nil, fmt.Errorf("pdfnarrator: encoding utterance: %w", err)
	}

	u := &chromeUtterance{id: uuid.NewString(), done: make(chan struct{})}

	// Register before speaking; the end event may arrive before Run returns.
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.pending[u.id] = u
	s.mu.Unlock()

	// args is a JSON array literal; drop its closing bracket to append the id.
	expr := fmt.Sprintf(`window.__pdfnarrator.speak(...%s, %q])`, args[:len(args)-1], u.id)
	if err := s.run(ctx, chromedp.Evaluate(expr, nil)); err != nil {
		s.finish(u.id, "")
		return nil, fmt.Errorf("pdfnarrator: speaking: %w", err)
	}
	s.cfg.logger.Debug("utterance queued", zap.String("utterance", u.id), zap.String("voice", name))
	return u, nil
}

// Cancel stops all current and queued speech.
func (s *ChromeSpeech) Cancel(ctx context.Context) error {
	if err := s.run(ctx, chromedp.Evaluate(`window.__pdfnarrator.cancel()`, nil)); err != nil {
		return fmt.Errorf("pdfnarrator: cancelling: %w", err)
	}
	return nil
}

// Close stops speech and releases the browser process. Pending utterances
// complete. Close is idempotent.
func (s *ChromeSpeech) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	pending := s.pending
	s.pending = make(map[string]*chromeUtterance)
	s.onVoices = nil
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(s.browserCtx, 2*time.Second)
	if err := chromedp.Run(ctx, chromedp.Evaluate(`window.__pdfnarrator.cancel()`, nil)); err != nil {
		s.cfg.logger.Debug("cancelling speech on close", zap.Error(err))
	}
	cancel()

	s.browserCancel()
	s.allocCancel()
	for _, u := range pending {
		close(u.done)
	}
	return nil
}

// run executes actions on the speech page, bounded by the configured timeout
// and by ctx.
func (s *ChromeSpeech) run(ctx context.Context, actions ...chromedp.Action) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}

	runCtx, cancel := context.WithCancel(s.browserCtx)
	defer cancel()
	if s.cfg.timeout > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, s.cfg.timeout)
		defer cancel()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// handleEvent receives target events. It runs on chromedp's event loop and
// must not block.
func (s *ChromeSpeech) handleEvent(ev interface{}) {
	called, ok := ev.(*runtime.EventBindingCalled)
	if !ok || called.Name != bindingName {
		return
	}
	var msg speechEvent
	if err := json.Unmarshal([]byte(called.Payload), &msg); err != nil {
		s.cfg.logger.Warn("malformed speech event", zap.String("payload", called.Payload), zap.Error(err))
		return
	}

	switch msg.Type {
	case "voices":
		s.mu.Lock()
		fn := s.onVoices
		s.mu.Unlock()
		if fn != nil {
			fn(msg.Voices)
		}
	case "end":
		s.finish(msg.ID, msg.Error)
	}
}

// finish completes the utterance with the given id, if still pending.
func (s *ChromeSpeech) finish(id, reason string) {
	s.mu.Lock()
	u, ok := s.pending[id]
	delete(s.pending, id)
	s.mu.Unlock()
	if !ok {
		return
	}
	if reason != "" {
		s.cfg.logger.Debug("utterance ended early", zap.String("utterance", id), zap.String("reason", reason))
	}
	close(u.done)
}

// chromeUtterance is the handle returned by ChromeSpeech.Speak.
type chromeUtterance struct {
	id   string
	done chan struct{}
}

func (u *chromeUtterance) ID() string { return u.id }

func (u *chromeUtterance) Done() <-chan struct{} { return u.done }
