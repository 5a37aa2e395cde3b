package respond

import (
	"fmt"
	"strings"
)

// DefaultListIntro introduces list responses when the caller has no
// better phrasing.
const DefaultListIntro = "Here's what I found:"

// FormatListItems joins items into a spoken sentence: zero items gets
// a fixed "nothing found" line, one item is read directly, two or more
// are comma-joined with a final "and".
func FormatListItems(intro string, items []string) string {
	if len(items) == 0 {
		return "I didn't find any items."
	}
	if intro == "" {
		intro = DefaultListIntro
	}
	if len(items) == 1 {
		return fmt.Sprintf("%s %s.", intro, items[0])
	}
	joined := strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	return fmt.Sprintf("%s %s.", intro, joined)
}

// FormatDuration buckets seconds into a spoken duration. Below a
// minute it reports seconds; below an hour, whole minutes; otherwise
// hours, composing "X hours and Y minutes" only when both are
// non-zero.
func FormatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%d %s", seconds, plural("second", seconds))
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%d %s", minutes, plural("minute", minutes))
	}

	hours := minutes / 60
	minutes %= 60
	if minutes == 0 {
		return fmt.Sprintf("%d %s", hours, plural("hour", hours))
	}
	return fmt.Sprintf("%d %s and %d %s",
		hours, plural("hour", hours), minutes, plural("minute", minutes))
}

func plural(unit string, n int) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

// Field is one labeled value in a status report. A slice keeps the
// spoken order deterministic.
type Field struct {
	Name  string
	Value string
}

// FormatStatus turns labeled fields into a spoken status sentence.
func FormatStatus(fields []Field) string {
	if len(fields) == 0 {
		return "I have no status information."
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Value)
	}
	return strings.Join(parts, ". ") + "."
}
