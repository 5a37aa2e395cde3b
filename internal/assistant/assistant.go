// Package assistant runs the listen-process-speak loop. The loop
// waits for the wake word, captures a command, routes it, and hands
// the response to the speech worker. One iteration failing never takes
// the loop down.
package assistant

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/novassist/nova/internal/domain"
	"github.com/novassist/nova/internal/logger"
	"github.com/novassist/nova/internal/respond"
	"github.com/novassist/nova/internal/wake"
)

// Processor routes a command to its response. The router satisfies
// this.
type Processor interface {
	Process(ctx context.Context, text string) string
}

// Speaker queues text for speech output. The speech worker satisfies
// this.
type Speaker interface {
	Say(text string)
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithObserver sets the observer notified on state transitions.
func WithObserver(obs domain.Observer) Option {
	return func(a *Assistant) { a.obs = obs }
}

// WithCaptureTimeout sets the length of one capture window. This also
// bounds shutdown latency: a stop request takes effect within one
// window.
func WithCaptureTimeout(d time.Duration) Option {
	return func(a *Assistant) { a.captureTimeout = d }
}

// WithErrorBackoff sets the pause after a failed capture, so a dead
// microphone doesn't spin the loop.
func WithErrorBackoff(d time.Duration) Option {
	return func(a *Assistant) { a.backoff = d }
}

// Assistant owns the listening loop and the conversation state
// machine.
type Assistant struct {
	rec     domain.Recognizer
	router  Processor
	speaker Speaker
	wake    *wake.Detector
	obs     domain.Observer
	log     *logger.Logger

	captureTimeout time.Duration
	backoff        time.Duration

	mu     sync.Mutex
	state  domain.AssistantState
	cancel context.CancelFunc
	done   chan struct{}

	// procMu serializes command processing so Submit and the voice loop
	// never interleave.
	procMu sync.Mutex
}

// New creates an Assistant.
func New(rec domain.Recognizer, router Processor, speaker Speaker, det *wake.Detector, log *logger.Logger, opts ...Option) *Assistant {
	a := &Assistant{
		rec:            rec,
		router:         router,
		speaker:        speaker,
		wake:           det,
		obs:            domain.NoopObserver{},
		log:            log,
		captureTimeout: 5 * time.Second,
		backoff:        time.Second,
		state:          domain.StateIdle,
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State returns the current conversation state.
func (a *Assistant) State() domain.AssistantState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Assistant) setState(s domain.AssistantState) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
	a.log.Debug("assistant: state -> %s", s)
}

// Start launches the listening loop. Non-blocking. Returns an error
// when already started.
func (a *Assistant) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.cancel != nil {
		a.mu.Unlock()
		return errors.New("assistant already started")
	}
	ctx, a.cancel = context.WithCancel(ctx)
	a.mu.Unlock()

	a.setState(domain.StateWaitingForWake)
	go a.loop(ctx)
	a.log.Info("assistant started (capture=%s)", a.captureTimeout)
	return nil
}

// Shutdown requests the loop to stop without waiting for it.
func (a *Assistant) Shutdown() {
	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Stop requests the loop to stop and waits for it to exit. The loop
// notices within one capture window.
func (a *Assistant) Stop() {
	a.Shutdown()
	<-a.done
}

// Done returns a channel closed when the loop has exited.
func (a *Assistant) Done() <-chan struct{} {
	return a.done
}

// Submit routes text as if it had been heard after the wake word.
// Used by the typed input path; bypasses wake detection but shares
// the processing pipeline with voice commands.
func (a *Assistant) Submit(ctx context.Context, text string) {
	a.process(ctx, text)
}

func (a *Assistant) loop(ctx context.Context) {
	defer close(a.done)
	defer a.setState(domain.StateIdle)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("assistant stopped")
			return
		default:
		}
		a.safeIterate(ctx)
	}
}

// safeIterate runs one loop iteration behind a recover boundary. A
// panic anywhere in capture or processing becomes a spoken apology
// and the loop keeps going.
func (a *Assistant) safeIterate(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			a.log.Error("assistant: iteration panicked: %v", rec)
			a.speaker.Say(respond.Apology())
			a.setState(domain.StateWaitingForWake)
		}
	}()
	a.iterate(ctx)
}

// iterate waits for one wake event and handles it.
func (a *Assistant) iterate(ctx context.Context) {
	a.setState(domain.StateWaitingForWake)

	utt, err := a.rec.Capture(ctx, a.captureTimeout)
	if err != nil {
		a.handleCaptureError(ctx, err)
		return
	}

	// Wake word with the command in the same breath: skip the spoken
	// acknowledgment and go straight to processing.
	if ev := a.wake.DetectCommand(utt.Text); ev.Detected && ev.Command != "" {
		a.log.Info("assistant: wake + command: %q", ev.Command)
		a.obs.OnWakeDetected()
		a.process(ctx, ev.Command)
		return
	}

	if !a.wake.Detect(utt.Text) {
		// Not addressed to us. Discard.
		a.log.Debug("assistant: ignoring %q (no wake word)", utt.Text)
		return
	}

	// Wake word alone: acknowledge once, then capture the command.
	a.log.Info("assistant: wake word detected")
	a.obs.OnWakeDetected()
	a.setState(domain.StateActiveListening)
	a.obs.OnListeningStarted()
	defer a.obs.OnListeningStopped()

	a.speaker.Say(respond.WakeAck())

	cmd, err := a.rec.Capture(ctx, a.captureTimeout)
	if err != nil {
		if errors.Is(err, domain.ErrCaptureTimeout) || errors.Is(err, domain.ErrUnintelligible) {
			a.speaker.Say(respond.EmptyCommand())
			return
		}
		a.handleCaptureError(ctx, err)
		return
	}

	a.process(ctx, a.wake.Strip(cmd.Text))
}

// handleCaptureError maps recognizer failures to loop behavior. All
// of them are soft: log, back off where useful, continue.
func (a *Assistant) handleCaptureError(ctx context.Context, err error) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Shutting down.
	case errors.Is(err, domain.ErrCaptureTimeout):
		// Silence. Normal while waiting for the wake word.
	case errors.Is(err, domain.ErrUnintelligible):
		a.log.Debug("assistant: unintelligible audio")
	case errors.Is(err, domain.ErrServiceUnavailable):
		a.log.Warn("assistant: recognizer unavailable: %v", err)
		a.sleep(ctx, a.backoff)
	default:
		a.log.Error("assistant: capture failed: %v", err)
		a.sleep(ctx, a.backoff)
	}
}

// process routes one command and speaks the response. Serialized so
// concurrent Submit calls can't interleave with the voice loop.
func (a *Assistant) process(ctx context.Context, text string) {
	a.procMu.Lock()
	defer a.procMu.Unlock()

	a.setState(domain.StateProcessing)
	a.obs.OnProcessingStarted()
	response := a.router.Process(ctx, text)
	a.obs.OnProcessingStopped()

	a.setState(domain.StateSpeaking)
	a.speaker.Say(response)

	a.setState(domain.StateWaitingForWake)
}

func (a *Assistant) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
