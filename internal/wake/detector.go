// Package wake recognizes the wake phrase inside recognized text.
//
// Detection is transcript-based: the speech-to-text layer produces
// text and the Detector checks it for the canonical wake word or one
// of the alternate phrases. The combined path (wake word and command
// in one breath, e.g. "hey nova open firefox") extracts the command
// by stripping the longest matching wake prefix.
package wake

import (
	"sort"
	"strings"

	"github.com/novassist/nova/internal/domain"
)

// DefaultWakeWord is the canonical trigger.
const DefaultWakeWord = "nova"

// defaultAlternates are accepted wake phrases beyond the canonical
// word. The list includes common STT mishearings of "nova".
var defaultAlternates = []string{
	"hey nova",
	"hi nova",
	"hello nova",
	"okay nova",
	"hey nowa",
	"hi nowa",
}

// Option configures a Detector.
type Option func(*Detector)

// WithWakeWord overrides the canonical wake word.
func WithWakeWord(w string) Option {
	return func(d *Detector) { d.canonical = strings.ToLower(w) }
}

// WithAlternates overrides the alternate wake phrases.
func WithAlternates(phrases ...string) Option {
	return func(d *Detector) {
		d.alternates = d.alternates[:0]
		for _, p := range phrases {
			d.alternates = append(d.alternates, strings.ToLower(p))
		}
	}
}

// Detector matches wake phrases in recognized text. Immutable after
// construction; safe for concurrent use.
type Detector struct {
	canonical  string
	alternates []string

	// all phrases (canonical + alternates) sorted longest first, so
	// prefix matching strips "hey nova" rather than "nova" leaving a
	// stray "hey" in the extracted command.
	byLength []string
}

// New creates a Detector with the canonical wake word and alternates.
func New(opts ...Option) *Detector {
	d := &Detector{
		canonical:  DefaultWakeWord,
		alternates: append([]string(nil), defaultAlternates...),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.byLength = append([]string{d.canonical}, d.alternates...)
	sort.SliceStable(d.byLength, func(i, j int) bool {
		return len(d.byLength[i]) > len(d.byLength[j])
	})
	return d
}

// Detect reports whether the wake word or any alternate phrase occurs
// anywhere in text. Case-insensitive substring containment.
func (d *Detector) Detect(text string) bool {
	lower := strings.ToLower(text)
	if strings.Contains(lower, d.canonical) {
		return true
	}
	for _, p := range d.alternates {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// DetectCommand checks whether text starts with a wake phrase. Longest
// matching prefix wins. The returned event's Command holds whatever
// followed the phrase (trimmed), or "" when the wake word was the whole
// utterance — in that case the caller acknowledges and captures a
// follow-up.
func (d *Detector) DetectCommand(text string) domain.WakeEvent {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	for _, p := range d.byLength {
		if !strings.HasPrefix(lower, p) {
			continue
		}
		rest := trimmed[len(p):]
		// Word boundary: "novatek please" is not a wake phrase.
		if rest != "" && !isBoundary(rune(rest[0])) {
			continue
		}
		return domain.WakeEvent{
			Detected: true,
			Command:  trimLeadoff(rest),
		}
	}
	return domain.WakeEvent{}
}

// Strip removes a leading wake phrase if present. Idempotent: text
// that has already been stripped comes back unchanged.
func (d *Detector) Strip(text string) string {
	if ev := d.DetectCommand(text); ev.Detected {
		if ev.Command == "" {
			return ""
		}
		return ev.Command
	}
	return text
}

func isBoundary(r rune) bool {
	return r == ' ' || r == ',' || r == '.' || r == '!' || r == '?' || r == '\t'
}

// trimLeadoff drops the separator between wake phrase and command.
func trimLeadoff(s string) string {
	return strings.TrimLeft(s, " ,.!?\t")
}
