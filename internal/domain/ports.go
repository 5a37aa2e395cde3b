package domain

import (
	"context"
	"time"
)

// Recognizer captures one utterance from the audio input. The call
// blocks for at most the given timeout; cancellation of ctx is observed
// within the same bound. Failure kinds are the sentinel errors
// ErrCaptureTimeout, ErrUnintelligible, and ErrServiceUnavailable —
// all of them non-fatal to the listening loop.
type Recognizer interface {
	Capture(ctx context.Context, timeout time.Duration) (*Utterance, error)
}

// Synthesizer turns text into playable audio. Implementations can be
// HTTP TTS services or a no-op when speech output is disabled.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// CategoryHandler performs the actual effect for one command category
// and returns the spoken response. Implementations must not panic;
// internal failures are reported as response text or a returned error,
// which the router converts into a spoken error message.
type CategoryHandler interface {
	Category() Category
	Process(ctx context.Context, raw string, slots map[string]string) (string, error)
}

// Observer receives lifecycle notifications from the assistant and the
// speech worker. All hooks fire from background goroutines, must be
// safe to call off the observer's own thread of control, and must not
// block.
type Observer interface {
	OnListeningStarted()
	OnListeningStopped()
	OnProcessingStarted()
	OnProcessingStopped()
	OnSpeakingStarted(text string)
	OnSpeakingStopped()
	OnWakeDetected()
}

// NoopObserver ignores every notification. Embed it to implement only
// the hooks you care about.
type NoopObserver struct{}

func (NoopObserver) OnListeningStarted()        {}
func (NoopObserver) OnListeningStopped()        {}
func (NoopObserver) OnProcessingStarted()       {}
func (NoopObserver) OnProcessingStopped()       {}
func (NoopObserver) OnSpeakingStarted(s string) {}
func (NoopObserver) OnSpeakingStopped()         {}
func (NoopObserver) OnWakeDetected()            {}

var _ Observer = NoopObserver{}
