package speech

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/novassist/nova/internal/logger"
)

// stubSynth returns the text itself as "audio" and counts calls.
type stubSynth struct {
	calls int64
	delay time.Duration
}

func (s *stubSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	atomic.AddInt64(&s.calls, 1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return []byte(text), nil
}

// playRecorder captures played audio in order.
type playRecorder struct {
	mu     sync.Mutex
	played []string
}

func (p *playRecorder) play(wav []byte) error {
	p.mu.Lock()
	p.played = append(p.played, string(wav))
	p.mu.Unlock()
	return nil
}

func (p *playRecorder) snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.played...)
}

func newTestWorker(t *testing.T, synth *stubSynth, rec *playRecorder, opts ...WorkerOption) *Worker {
	t.Helper()
	opts = append([]WorkerOption{WithPlayFunc(rec.play)}, opts...)
	return NewWorker(synth, nil, logger.New(logger.LevelOff, nil), opts...)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestSayFIFO(t *testing.T) {
	synth := &stubSynth{}
	rec := &playRecorder{}
	w := newTestWorker(t, synth, rec)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	texts := []string{"first", "second", "third", "fourth"}
	for _, text := range texts {
		w.Say(text)
	}

	waitFor(t, 2*time.Second, func() bool { return len(rec.snapshot()) == len(texts) })

	got := rec.snapshot()
	for i, want := range texts {
		if got[i] != want {
			t.Fatalf("playback order: got %v, want %v", got, texts)
		}
	}
}

func TestStopDrainsQueue(t *testing.T) {
	synth := &stubSynth{}
	rec := &playRecorder{}
	w := newTestWorker(t, synth, rec)

	w.Start(context.Background())
	w.Say("goodbye")
	w.Stop()

	got := rec.snapshot()
	if len(got) != 1 || got[0] != "goodbye" {
		t.Fatalf("Stop did not drain the queue: played %v", got)
	}
}

func TestStopAbandonsAfterDrainTimeout(t *testing.T) {
	synth := &stubSynth{delay: 50 * time.Millisecond}
	rec := &playRecorder{}
	w := newTestWorker(t, synth, rec, WithDrainTimeout(75*time.Millisecond))

	w.Start(context.Background())
	for i := 0; i < 20; i++ {
		w.Say("slow line")
	}
	time.Sleep(10 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after drain timeout")
	}
	if w.QueueLen() != 0 {
		t.Fatalf("queue not cleared after abandon: %d left", w.QueueLen())
	}
}

func TestEmptyTextIgnored(t *testing.T) {
	synth := &stubSynth{}
	rec := &playRecorder{}
	w := newTestWorker(t, synth, rec)

	w.Say("")
	if w.QueueLen() != 0 {
		t.Fatalf("empty text was queued")
	}
}

func TestCacheAvoidsResynthesis(t *testing.T) {
	synth := &stubSynth{}
	rec := &playRecorder{}
	w := newTestWorker(t, synth, rec)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	w.Say("Yes?")
	waitFor(t, time.Second, func() bool { return len(rec.snapshot()) == 1 })
	w.Say("Yes?")
	waitFor(t, time.Second, func() bool { return len(rec.snapshot()) == 2 })

	if n := atomic.LoadInt64(&synth.calls); n != 1 {
		t.Fatalf("synthesizer called %d times for identical text, want 1", n)
	}
	hits, _ := w.CacheStats()
	if hits != 1 {
		t.Fatalf("cache hits = %d, want 1", hits)
	}
}

func TestPrewarmCaches(t *testing.T) {
	synth := &stubSynth{}
	rec := &playRecorder{}
	w := newTestWorker(t, synth, rec)

	w.Prewarm(context.Background(), "I'm listening", "How can I help?")
	waitFor(t, time.Second, func() bool { return atomic.LoadInt64(&synth.calls) == 2 })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	w.Say("I'm listening")
	waitFor(t, time.Second, func() bool { return len(rec.snapshot()) == 1 })

	if n := atomic.LoadInt64(&synth.calls); n != 2 {
		t.Fatalf("prewarmed text re-synthesized: %d calls", n)
	}
}

type speakObserver struct {
	mu      sync.Mutex
	started []string
	stopped int
}

func (o *speakObserver) OnListeningStarted()  {}
func (o *speakObserver) OnListeningStopped()  {}
func (o *speakObserver) OnProcessingStarted() {}
func (o *speakObserver) OnProcessingStopped() {}
func (o *speakObserver) OnWakeDetected()      {}
func (o *speakObserver) OnSpeakingStopped() {
	o.mu.Lock()
	o.stopped++
	o.mu.Unlock()
}
func (o *speakObserver) OnSpeakingStarted(text string) {
	o.mu.Lock()
	o.started = append(o.started, text)
	o.mu.Unlock()
}

func TestObserverNotified(t *testing.T) {
	synth := &stubSynth{}
	rec := &playRecorder{}
	obs := &speakObserver{}
	w := newTestWorker(t, synth, rec, WithObserver(obs))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	w.Say("hello there")
	waitFor(t, time.Second, func() bool {
		obs.mu.Lock()
		defer obs.mu.Unlock()
		return obs.stopped == 1
	})

	obs.mu.Lock()
	defer obs.mu.Unlock()
	if len(obs.started) != 1 || obs.started[0] != "hello there" {
		t.Fatalf("OnSpeakingStarted calls = %v", obs.started)
	}
}
