package speech

import (
	"context"
	"sync"
	"time"

	"github.com/novassist/nova/internal/domain"
	"github.com/novassist/nova/internal/logger"
)

// request is one queued utterance.
type request struct {
	text     string
	queuedAt time.Time
}

// WorkerOption configures the Worker.
type WorkerOption func(*Worker)

// WithObserver sets the observer notified around each utterance.
func WithObserver(obs domain.Observer) WorkerOption {
	return func(w *Worker) { w.obs = obs }
}

// WithPlayFunc replaces the playback function. Tests use this to
// observe playback order without an audio device.
func WithPlayFunc(play func(wav []byte) error) WorkerOption {
	return func(w *Worker) { w.play = play }
}

// WithDrainTimeout bounds how long Stop waits for queued speech to
// finish before abandoning it.
func WithDrainTimeout(d time.Duration) WorkerOption {
	return func(w *Worker) { w.drainTimeout = d }
}

// WithVoiceName overrides the voice name used in cache keys. Only
// needed when the synthesizer is not an AzureClient.
func WithVoiceName(voice string) WorkerOption {
	return func(w *Worker) { w.voiceName = voice }
}

// Worker speaks queued text through a single goroutine. Utterances
// are strictly FIFO and never overlap: each one is synthesized, then
// played to completion, before the next is dequeued. Say never blocks
// the caller.
type Worker struct {
	tts   domain.Synthesizer
	play  func(wav []byte) error
	obs   domain.Observer
	log   *logger.Logger
	cache *audioCache

	voiceName    string
	drainTimeout time.Duration

	mu       sync.Mutex
	queue    []request
	speaking bool

	notify  chan struct{}
	stopCh  chan struct{}
	done    chan struct{}
	started bool
}

// NewWorker creates a speech worker. The player's Play method is the
// default playback function.
func NewWorker(tts domain.Synthesizer, player *Player, log *logger.Logger, opts ...WorkerOption) *Worker {
	w := &Worker{
		tts:          tts,
		obs:          domain.NoopObserver{},
		log:          log,
		drainTimeout: 5 * time.Second,
		notify:       make(chan struct{}, 32),
		stopCh:       make(chan struct{}),
		done:         make(chan struct{}),
	}
	if player != nil {
		w.play = player.Play
	}
	if az, ok := tts.(*AzureClient); ok {
		w.voiceName = az.Voice()
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.voiceName == "" {
		w.voiceName = DefaultVoice
	}
	w.cache = newAudioCache(w.voiceName)
	return w
}

// Say queues text to be spoken. Non-blocking; empty text is ignored.
func (w *Worker) Say(text string) {
	if text == "" {
		return
	}

	w.mu.Lock()
	w.queue = append(w.queue, request{text: text, queuedAt: time.Now()})
	qLen := len(w.queue)
	w.mu.Unlock()

	w.log.Debug("speech: queued (queue_len=%d): %s", qLen, truncate(text, 60))

	select {
	case w.notify <- struct{}{}:
	default: // already signaled
	}
}

// IsSpeaking reports whether an utterance is being synthesized or
// played right now.
func (w *Worker) IsSpeaking() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.speaking
}

// QueueLen returns the number of pending utterances.
func (w *Worker) QueueLen() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

// Start launches the speaking goroutine. Non-blocking.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()

	go w.loop(ctx)
	w.log.Info("speech worker started")
}

func (w *Worker) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			w.log.Info("speech worker stopped (context)")
			return
		case <-w.stopCh:
			w.drainAndExit(ctx)
			return
		case <-w.notify:
			w.drain(ctx)
		}
	}
}

// drain speaks queued items in order until the queue is empty.
func (w *Worker) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		req, ok := w.dequeue()
		if !ok {
			return
		}
		w.speak(ctx, req)
	}
}

// drainAndExit finishes pending speech after Stop, bounded by the
// drain timeout. Anything still queued when the deadline hits is
// dropped with a log line.
func (w *Worker) drainAndExit(ctx context.Context) {
	deadline := time.Now().Add(w.drainTimeout)
	for time.Now().Before(deadline) {
		req, ok := w.dequeue()
		if !ok {
			w.log.Info("speech worker stopped (drained)")
			return
		}
		w.speak(ctx, req)
	}

	w.mu.Lock()
	abandoned := len(w.queue)
	w.queue = nil
	w.mu.Unlock()
	w.log.Warn("speech worker stopped, abandoned %d queued utterances", abandoned)
}

// Stop asks the worker to finish pending speech and exit, then waits
// for it. Safe to call once.
func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.done
}

func (w *Worker) dequeue() (request, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.queue) == 0 {
		return request{}, false
	}
	req := w.queue[0]
	w.queue = w.queue[1:]
	return req, true
}

// speak synthesizes and plays one utterance, notifying the observer
// on either side. Synthesis or playback failures drop the utterance;
// the queue keeps moving.
func (w *Worker) speak(ctx context.Context, req request) {
	w.mu.Lock()
	w.speaking = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.speaking = false
		w.mu.Unlock()
	}()

	waited := time.Since(req.queuedAt).Round(time.Millisecond)
	w.log.Debug("speech: speaking (waited=%s): %s", waited, truncate(req.text, 60))

	w.obs.OnSpeakingStarted(req.text)
	defer w.obs.OnSpeakingStopped()

	audio, err := w.synthesize(ctx, req.text)
	if err != nil {
		w.log.Error("speech: synthesis failed: %v", err)
		return
	}
	if w.play == nil || len(audio) == 0 {
		return
	}
	if err := w.play(audio); err != nil {
		w.log.Error("speech: playback failed: %v", err)
	}
}

// synthesize consults the cache before calling the backend.
func (w *Worker) synthesize(ctx context.Context, text string) ([]byte, error) {
	if audio, ok := w.cache.get(text); ok {
		return audio, nil
	}
	audio, err := w.tts.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	w.cache.put(text, audio)
	return audio, nil
}

// Prewarm synthesizes the given texts in background goroutines and
// caches the audio so fixed lines (wake acknowledgments, greetings)
// play instantly. Non-blocking; already-cached texts are skipped.
func (w *Worker) Prewarm(ctx context.Context, texts ...string) {
	for _, text := range texts {
		if text == "" || w.cache.has(text) {
			continue
		}
		go func(t string) {
			audio, err := w.tts.Synthesize(ctx, t)
			if err != nil {
				w.log.Debug("prewarm: synthesis failed: %v", err)
				return
			}
			w.cache.put(t, audio)
			w.log.Debug("prewarm: cached %d bytes for: %s", len(audio), truncate(t, 50))
		}(text)
	}
}

// CacheStats returns synthesis cache hit and miss counts.
func (w *Worker) CacheStats() (hits, misses int64) {
	return w.cache.stats()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
