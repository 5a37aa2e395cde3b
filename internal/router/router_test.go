package router

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/novassist/nova/internal/domain"
	"github.com/novassist/nova/internal/logger"
	"github.com/novassist/nova/internal/wake"
)

type stubHandler struct {
	category domain.Category
	calls    []map[string]string
	reply    string
	err      error
}

func (s *stubHandler) Category() domain.Category { return s.category }

func (s *stubHandler) Process(_ context.Context, _ string, slots map[string]string) (string, error) {
	s.calls = append(s.calls, slots)
	return s.reply, s.err
}

func newTestRouter(t *testing.T, opts ...Option) *Router {
	t.Helper()
	return New(logger.New(logger.LevelOff, nil), wake.New(), opts...)
}

func TestCategorize(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		text string
		want domain.Category
	}{
		{"open firefox", domain.CategoryApplication},
		{"nova open firefox", domain.CategoryApplication},
		{"launch the calculator", domain.CategoryApplication},
		{"lock the screen", domain.CategorySystem},
		{"restart the computer", domain.CategorySystem},
		{"turn off wifi", domain.CategoryNetwork},
		{"what's my ip address", domain.CategoryNetwork},
		{"show me the running processes", domain.CategoryUtility},
		{"turn the volume up", domain.CategoryUtility},
		{"what time is it", domain.CategoryBuiltin},
		{"hello", domain.CategoryBuiltin},
		{"xyzzy foobar", domain.CategoryUnknown},
		{"", domain.CategoryUnknown},
	}

	for _, tt := range tests {
		got := r.Categorize(tt.text)
		if got.Category != tt.want {
			t.Errorf("Categorize(%q) = %s, want %s", tt.text, got.Category, tt.want)
		}
	}
}

// The same text must always route to the same category.
func TestCategorizeDeterministic(t *testing.T) {
	r := newTestRouter(t)
	const text = "open the task manager"

	first := r.Categorize(text)
	for i := 0; i < 50; i++ {
		if got := r.Categorize(text); got.Category != first.Category {
			t.Fatalf("Categorize(%q) flapped: %s then %s", text, first.Category, got.Category)
		}
	}
}

// "open task manager" matches both the application table ("open X")
// and the utility table ("task manager"). Application is earlier in
// the table, so it wins.
func TestApplicationShadowsUtility(t *testing.T) {
	app := &stubHandler{category: domain.CategoryApplication, reply: "Opening task manager."}
	util := &stubHandler{category: domain.CategoryUtility, reply: "unexpected"}
	r := newTestRouter(t, WithHandler(app), WithHandler(util))

	got := r.Process(context.Background(), "open task manager")
	if got != "Opening task manager." {
		t.Fatalf("Process = %q, want application handler reply", got)
	}
	if len(app.calls) != 1 || len(util.calls) != 0 {
		t.Fatalf("calls: app=%d util=%d, want 1/0", len(app.calls), len(util.calls))
	}
}

func TestSlotExtraction(t *testing.T) {
	app := &stubHandler{category: domain.CategoryApplication, reply: "ok"}
	r := newTestRouter(t, WithHandler(app))

	r.Process(context.Background(), "nova open the file explorer")
	if len(app.calls) != 1 {
		t.Fatalf("handler called %d times, want 1", len(app.calls))
	}
	if got := app.calls[0]["app_name"]; got != "file explorer" {
		t.Errorf("app_name slot = %q, want %q", got, "file explorer")
	}
}

func TestBuiltinTime(t *testing.T) {
	fixed := time.Date(2025, time.March, 14, 15, 4, 0, 0, time.UTC)
	r := newTestRouter(t, WithClock(func() time.Time { return fixed }))

	got := r.Process(context.Background(), "what time is it")
	if got != "The current time is 3:04 PM." {
		t.Errorf("time builtin = %q", got)
	}

	got = r.Process(context.Background(), "what's the date today")
	if got != "Today is Friday, March 14, 2025." {
		t.Errorf("date builtin = %q", got)
	}
}

func TestBuiltinBeforeCategory(t *testing.T) {
	// "what time is it" contains no category keyword, but "help" could
	// collide with a future handler. Builtins always win.
	app := &stubHandler{category: domain.CategoryApplication, reply: "nope"}
	r := newTestRouter(t, WithHandler(app))

	got := r.Process(context.Background(), "help")
	if got != helpText {
		t.Errorf("help builtin = %q", got)
	}
	if len(app.calls) != 0 {
		t.Errorf("application handler called for a builtin")
	}
}

func TestExitBuiltin(t *testing.T) {
	exited := false
	r := newTestRouter(t, WithExitFunc(func() { exited = true }))

	got := r.Process(context.Background(), "nova exit")
	if !exited {
		t.Error("exit func not called")
	}
	if got != "Goodbye! Nova is shutting down." {
		t.Errorf("exit response = %q", got)
	}
}

func TestEmptyCommand(t *testing.T) {
	r := newTestRouter(t)

	for _, text := range []string{"", "   ", "nova", "hey nova", "...", "nova!"} {
		got := r.Process(context.Background(), text)
		if got != "I didn't catch that. Can you please repeat?" {
			t.Errorf("Process(%q) = %q, want empty-command line", text, got)
		}
	}
}

func TestUnrecognizedEchoesText(t *testing.T) {
	r := newTestRouter(t)

	got := r.Process(context.Background(), "xyzzy foobar")
	if !strings.Contains(got, "xyzzy foobar") {
		t.Errorf("unrecognized response %q does not echo the command", got)
	}
}

func TestKeywordFallback(t *testing.T) {
	net := &stubHandler{category: domain.CategoryNetwork, reply: "network ok"}
	r := newTestRouter(t, WithHandler(net))

	// No table pattern matches, but "bluetooth" is a network keyword.
	got := r.Process(context.Background(), "is bluetooth working")
	if got != "network ok" {
		t.Errorf("keyword fallback = %q", got)
	}
	if len(net.calls) != 1 {
		t.Errorf("network handler called %d times, want 1", len(net.calls))
	}
}

func TestHandlerPanicRecovered(t *testing.T) {
	r := newTestRouter(t, WithHandler(panicHandler{}))

	got := r.Process(context.Background(), "open firefox")
	if got != "I'm sorry, I encountered an error while processing your request." {
		t.Errorf("panic recovery response = %q", got)
	}
}

type panicHandler struct{}

func (panicHandler) Category() domain.Category { return domain.CategoryApplication }

func (panicHandler) Process(context.Context, string, map[string]string) (string, error) {
	panic("boom")
}

type stubSearcher struct {
	answer string
	calls  int
}

func (s *stubSearcher) CanHandle(text string) bool {
	return strings.HasPrefix(text, "who is ")
}

func (s *stubSearcher) Process(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.answer, nil
}

func TestSearchFallback(t *testing.T) {
	search := &stubSearcher{answer: "Ada Lovelace was a mathematician."}
	r := newTestRouter(t, WithSearch(search))

	got := r.Process(context.Background(), "who is ada lovelace")
	if got != search.answer {
		t.Errorf("search fallback = %q", got)
	}
	if search.calls != 1 {
		t.Errorf("search called %d times, want 1", search.calls)
	}
}
