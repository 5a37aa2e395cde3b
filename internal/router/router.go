// Package router turns recognized text into a spoken response. A
// command is matched against builtins first, then the ordered category
// table, then loose keyword fallbacks, and finally the web-search
// provider. Matching is deterministic: the same text always routes to
// the same place.
package router

import (
	"context"
	"strings"
	"time"

	"github.com/novassist/nova/internal/domain"
	"github.com/novassist/nova/internal/logger"
	"github.com/novassist/nova/internal/respond"
	"github.com/novassist/nova/internal/wake"
)

// Searcher answers free-form questions, typically by web search.
type Searcher interface {
	// CanHandle reports whether the text looks like a search query.
	CanHandle(text string) bool
	// Process answers the query.
	Process(ctx context.Context, text string) (string, error)
}

// Router categorizes commands and dispatches them to handlers.
type Router struct {
	log      *logger.Logger
	wake     *wake.Detector
	table    []Rule
	builtins []builtin
	handlers map[domain.Category]domain.CategoryHandler
	search   Searcher
	now      func() time.Time
	exit     func()
}

// Option configures a Router.
type Option func(*Router)

// WithHandler registers a category handler. Later registrations for
// the same category replace earlier ones.
func WithHandler(h domain.CategoryHandler) Option {
	return func(r *Router) { r.handlers[h.Category()] = h }
}

// WithSearch sets the fallback search provider.
func WithSearch(s Searcher) Option {
	return func(r *Router) { r.search = s }
}

// WithClock overrides the time source used by the time and date
// builtins.
func WithClock(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

// WithExitFunc sets the function the exit builtin calls. It must not
// block: the goodbye line still has to be spoken after it returns.
func WithExitFunc(fn func()) Option {
	return func(r *Router) { r.exit = fn }
}

// New creates a Router. The wake detector strips any leading wake
// phrase the recognizer left on the text.
func New(log *logger.Logger, det *wake.Detector, opts ...Option) *Router {
	r := &Router{
		log:      log,
		wake:     det,
		table:    NewTable(),
		builtins: newBuiltins(),
		handlers: make(map[domain.Category]domain.CategoryHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Categorize classifies text without dispatching it. Used by tests and
// the display layer; Process goes through the same logic.
func (r *Router) Categorize(text string) domain.Command {
	cleaned := r.clean(text)
	if cleaned == "" {
		return domain.Command{Text: cleaned, Category: domain.CategoryUnknown}
	}

	for _, b := range r.builtins {
		if b.matches(cleaned) {
			return domain.Command{Text: cleaned, Category: domain.CategoryBuiltin}
		}
	}
	for _, rule := range r.table {
		if s := rule.slots(cleaned); s != nil {
			return domain.Command{Text: cleaned, Category: rule.Category, Slots: s}
		}
	}
	for _, fb := range fallbackKeywords {
		for _, w := range fb.Words {
			if strings.Contains(cleaned, w) {
				return domain.Command{Text: cleaned, Category: fb.Category}
			}
		}
	}
	return domain.Command{Text: cleaned, Category: domain.CategoryUnknown}
}

// Process routes text to its destination and returns the spoken
// response. It never returns an empty string and never panics: handler
// panics are recovered into an apology.
func (r *Router) Process(ctx context.Context, text string) (response string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("command dispatch panicked: %v", rec)
			response = respond.Apology()
		}
	}()

	cleaned := r.clean(text)
	if cleaned == "" {
		return respond.EmptyCommand()
	}
	r.log.Debug("routing command: %q", cleaned)

	for _, b := range r.builtins {
		if b.matches(cleaned) {
			r.log.Debug("builtin match: %s", b.name)
			return b.respond(r)
		}
	}

	for _, rule := range r.table {
		slots := rule.slots(cleaned)
		if slots == nil {
			continue
		}
		r.log.Debug("category match: %s slots=%v", rule.Category, slots)
		return r.dispatch(ctx, rule.Category, cleaned, slots)
	}

	for _, fb := range fallbackKeywords {
		for _, w := range fb.Words {
			if strings.Contains(cleaned, w) {
				r.log.Debug("keyword fallback: %s (%q)", fb.Category, w)
				return r.dispatch(ctx, fb.Category, cleaned, nil)
			}
		}
	}

	if r.search != nil && r.search.CanHandle(cleaned) {
		answer, err := r.search.Process(ctx, cleaned)
		if err != nil {
			r.log.Warn("search failed: %v", err)
			return respond.Error("search for that", "The search service is unavailable.")
		}
		return answer
	}

	r.log.Info("unrecognized command: %q", cleaned)
	return respond.Unrecognized(cleaned)
}

func (r *Router) dispatch(ctx context.Context, cat domain.Category, text string, slots map[string]string) string {
	h, ok := r.handlers[cat]
	if !ok {
		r.log.Warn("no handler for category %s", cat)
		return respond.Unrecognized(text)
	}
	msg, err := h.Process(ctx, text, slots)
	if err != nil {
		r.log.Error("%s handler: %v", cat, err)
		if msg != "" {
			return msg
		}
		return respond.Apology()
	}
	return msg
}

// clean strips a leading wake phrase and trailing punctuation, and
// lowercases for matching.
func (r *Router) clean(text string) string {
	s := text
	if r.wake != nil {
		s = r.wake.Strip(s)
	}
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ",.!?;")
	return strings.ToLower(strings.TrimSpace(s))
}
