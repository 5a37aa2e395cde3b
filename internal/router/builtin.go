package router

import (
	"fmt"
	"regexp"

	"github.com/novassist/nova/internal/respond"
)

// builtin is a directly answerable command: no category handler, no
// side effects beyond the optional action func.
type builtin struct {
	name     string
	patterns []*regexp.Regexp
	respond  func(r *Router) string
}

// phrase compiles a word-boundary match for a fixed phrase, so "hi"
// matches "hi there" but not "high contrast".
func phrase(p string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(p) + `\b`)
}

const helpText = "I can open applications, control the system, manage network settings, " +
	"and run utilities. Try saying: open firefox, lock the screen, " +
	"turn off wifi, or show me the running processes. " +
	"You can also ask me for the time or the date."

// newBuiltins returns the builtin commands in match order. Builtins
// are checked before the category table, so "what time is it" never
// falls through to a handler.
func newBuiltins() []builtin {
	return []builtin{
		{
			name:     "greeting",
			patterns: []*regexp.Regexp{phrase("hello"), phrase("hi"), phrase("hey")},
			respond:  func(r *Router) string { return respond.Greeting() },
		},
		{
			name: "time",
			patterns: []*regexp.Regexp{
				phrase("what time is it"),
				phrase("what's the time"),
				phrase("what is the time"),
				phrase("tell me the time"),
				phrase("current time"),
			},
			respond: func(r *Router) string {
				return fmt.Sprintf("The current time is %s.", r.now().Format("3:04 PM"))
			},
		},
		{
			name: "date",
			patterns: []*regexp.Regexp{
				phrase("what's the date"),
				phrase("what is the date"),
				phrase("what day is it"),
				phrase("tell me the date"),
				phrase("today's date"),
			},
			respond: func(r *Router) string {
				return fmt.Sprintf("Today is %s.", r.now().Format("Monday, January 2, 2006"))
			},
		},
		{
			name:     "help",
			patterns: []*regexp.Regexp{phrase("help"), phrase("what can i say")},
			respond:  func(r *Router) string { return helpText },
		},
		{
			name:     "identity",
			patterns: []*regexp.Regexp{phrase("who are you"), phrase("what's your name"), phrase("what is your name")},
			respond: func(r *Router) string {
				return "I'm Nova, your voice-activated virtual assistant."
			},
		},
		{
			name:     "capabilities",
			patterns: []*regexp.Regexp{phrase("what can you do")},
			respond:  func(r *Router) string { return helpText },
		},
		{
			name:     "thanks",
			patterns: []*regexp.Regexp{phrase("thank you"), phrase("thanks")},
			respond:  func(r *Router) string { return respond.Thanks() },
		},
		{
			name:     "exit",
			patterns: []*regexp.Regexp{phrase("exit"), phrase("quit"), phrase("shut yourself down"), phrase("goodbye")},
			respond: func(r *Router) string {
				if r.exit != nil {
					r.exit()
				}
				return respond.Goodbye()
			},
		},
		{
			name:     "stop-listening",
			patterns: []*regexp.Regexp{phrase("stop listening"), phrase("go to sleep")},
			respond:  func(r *Router) string { return respond.StopListening() },
		},
	}
}

func (b builtin) matches(text string) bool {
	for _, p := range b.patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
