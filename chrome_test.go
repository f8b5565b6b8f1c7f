package pdfnarrator_test

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdfnarrator "github.com/porticus-lab/go-pdf-narrator"
)

// chromeAvailable reports whether a Chrome/Chromium executable is in PATH.
func chromeAvailable() bool {
	for _, name := range []string{
		"chromium-browser", "chromium", "google-chrome",
		"google-chrome-stable", "chrome",
	} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

func skipIfNoChrome(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if !chromeAvailable() {
		t.Skip("skipping: Chrome/Chromium not found in PATH")
	}
}

func newTestSpeech(t *testing.T) *pdfnarrator.ChromeSpeech {
	t.Helper()
	skipIfNoChrome(t)
	s, err := pdfnarrator.NewChromeSpeech(pdfnarrator.WithNoSandbox(), pdfnarrator.WithTimeout(20*time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestChromeSpeech_Voices(t *testing.T) {
	s := newTestSpeech(t)

	// Headless builds may ship without voices; only the call must succeed.
	voices, err := s.Voices(context.Background())
	require.NoError(t, err)
	for _, v := range voices {
		assert.NotEmpty(t, v.Name)
	}
}

func TestChromeSpeech_SpeakAndCancel(t *testing.T) {
	s := newTestSpeech(t)
	ctx := context.Background()

	u, err := s.Speak(ctx, "Hello world", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID())

	require.NoError(t, s.Cancel(ctx))
	require.NoError(t, s.Close())
	select {
	case <-u.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("utterance not completed after Close")
	}
}

func TestChromeSpeech_Narrator(t *testing.T) {
	s := newTestSpeech(t)
	ctx := context.Background()

	n := pdfnarrator.NewNarrator(ctx, s)
	state, err := n.Toggle(ctx, "Narration test")
	require.NoError(t, err)
	assert.Equal(t, pdfnarrator.Speaking, state)

	state, err = n.Toggle(ctx, "Narration test")
	require.NoError(t, err)
	assert.Equal(t, pdfnarrator.Idle, state)
	require.NoError(t, n.Close(ctx))
}

func TestChromeSpeech_CloseIdempotent(t *testing.T) {
	skipIfNoChrome(t)

	s, err := pdfnarrator.NewChromeSpeech(pdfnarrator.WithNoSandbox())
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.Speak(context.Background(), "late", nil)
	assert.ErrorIs(t, err, pdfnarrator.ErrClosed)
	_, err = s.Voices(context.Background())
	assert.ErrorIs(t, err, pdfnarrator.ErrClosed)
}
