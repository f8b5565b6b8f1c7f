package pdfnarrator

import (
	"time"

	"go.uber.org/zap"
)

// speechConfig holds internal configuration for a ChromeSpeech engine.
type speechConfig struct {
	chromePath   string
	timeout      time.Duration
	noSandbox    bool
	headless     bool
	autoDownload bool
	logger       *zap.Logger
}

func defaultConfig() speechConfig {
	return speechConfig{
		timeout:  30 * time.Second,
		headless: true,
		logger:   zap.NewNop(),
	}
}

// Option configures a [ChromeSpeech].
type Option func(*speechConfig)

// WithChromePath sets the path to the Chrome or Chromium executable.
// By default the library searches standard locations automatically.
func WithChromePath(path string) Option {
	return func(c *speechConfig) {
		c.chromePath = path
	}
}

// WithTimeout sets the maximum duration of a single DevTools round trip
// (listing voices, starting or cancelling speech). It does not bound how
// long an utterance plays. Defaults to 30 seconds; zero or negative
// disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *speechConfig) {
		c.timeout = d
	}
}

// WithNoSandbox disables the Chrome sandbox. This is required when
// running as root, for example inside Docker containers.
func WithNoSandbox() Option {
	return func(c *speechConfig) {
		c.noSandbox = true
	}
}

// WithHeadless controls whether the browser runs without a window.
// Defaults to true. Some platforms only route synthesized audio to the
// speakers from a headed browser.
func WithHeadless(headless bool) Option {
	return func(c *speechConfig) {
		c.headless = headless
	}
}

// WithAutoDownload fetches a compatible Chromium build when no executable
// path is configured. The binary is cached under ~/.cache/rod/browser.
func WithAutoDownload() Option {
	return func(c *speechConfig) {
		c.autoDownload = true
	}
}

// WithLogger sets the engine's logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *speechConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
