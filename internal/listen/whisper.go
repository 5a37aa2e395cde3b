// Package listen provides speech-to-text capture using a local
// Whisper model. Each capture records one chunk of microphone audio,
// transcribes it, and cleans the transcript of whisper artifacts.
package listen

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	audiotranscriber "github.com/sklyt/whisper/pkg"

	"github.com/novassist/nova/internal/domain"
	"github.com/novassist/nova/internal/logger"
)

// Compile-time interface check.
var _ domain.Recognizer = (*Mic)(nil)

// MicOption configures the Mic.
type MicOption func(*Mic)

// WithTempDir sets the directory for temporary WAV files.
func WithTempDir(dir string) MicOption {
	return func(m *Mic) { m.tempDir = dir }
}

// Mic captures utterances from the microphone through whisper-cli.
type Mic struct {
	whisperBin string
	modelPath  string
	tempDir    string
	log        *logger.Logger
}

// NewMic creates a microphone recognizer. Fails if the whisper binary
// is not reachable, so a misconfigured install is caught at startup
// instead of on the first capture.
func NewMic(whisperBin, modelPath string, log *logger.Logger, opts ...MicOption) (*Mic, error) {
	m := &Mic{
		whisperBin: whisperBin,
		modelPath:  modelPath,
		tempDir:    ".nova-stt",
		log:        log,
	}
	for _, opt := range opts {
		opt(m)
	}

	if _, err := exec.LookPath(m.whisperBin); err != nil {
		return nil, fmt.Errorf("whisper binary %q not found: %w", m.whisperBin, err)
	}
	return m, nil
}

// Capture records for up to timeout and returns the cleaned
// transcript. No speech at all maps to ErrCaptureTimeout; audio that
// cleans down to nothing maps to ErrUnintelligible. Both are soft
// failures the caller retries on.
func (m *Mic) Capture(ctx context.Context, timeout time.Duration) (*domain.Utterance, error) {
	heard := time.Now()

	raw, err := m.recordChunk(ctx, timeout)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, domain.ErrCaptureTimeout
	}

	cleaned := CleanTranscript(raw)
	if cleaned == "" {
		m.log.Debug("mic: transcript %q cleaned to nothing", raw)
		return nil, domain.ErrUnintelligible
	}

	m.log.Debug("mic: heard %q", cleaned)
	return &domain.Utterance{Text: cleaned, Heard: heard}, nil
}

// recordChunk runs one record-transcribe cycle of the given duration.
func (m *Mic) recordChunk(ctx context.Context, duration time.Duration) (string, error) {
	var result string
	var wg sync.WaitGroup
	wg.Add(1)

	callback := func(text string) {
		result = text
		wg.Done()
	}

	verbose := m.log.GetLevel() >= logger.LevelVerbose
	t, err := audiotranscriber.NewTranscriber(
		m.whisperBin,
		m.modelPath,
		m.tempDir,
		"wav",
		callback,
		verbose,
	)
	if err != nil {
		m.log.Error("mic: transcriber init failed: %v", err)
		return "", fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}

	if err := t.Start(); err != nil {
		m.log.Error("mic: recording start failed: %v", err)
		return "", fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}

	select {
	case <-time.After(duration):
	case <-ctx.Done():
		t.Stop()
		wg.Wait()
		return "", ctx.Err()
	}

	t.Stop()
	wg.Wait()

	return result, nil
}
