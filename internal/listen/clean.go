package listen

import (
	"regexp"
	"strings"
)

// envAnnotation matches whisper environmental annotations such as
// "(keyboard clicking)", "[laughter]", "(speaking French)".
var envAnnotation = regexp.MustCompile(`[\(\[][a-zA-Z][a-zA-Z\s]*[\)\]]`)

// multiSpace collapses whitespace runs created by removals.
var multiSpace = regexp.MustCompile(`\s{2,}`)

// junkMarkers are whisper non-speech markers stripped from anywhere in
// the text, case-insensitively.
var junkMarkers = []string{
	"[BLANK_AUDIO]",
	"[BLANK AUDIO]",
	"(silence)",
	"[silence]",
	"(no speech)",
	"[no speech]",
	"[Music]",
	"(music)",
	"(static)",
	"(background noise)",
	"(inaudible)",
	"(unintelligible)",
}

// hallucinations are phrases whisper invents from silence. A transcript
// that is exactly one of these is discarded.
var hallucinations = []string{
	"...",
	".",
	"you",
	"thank you.",
	"thanks for watching!",
	"thank you for watching.",
	"bye.",
	"bye!",
	"the end.",
}

// CleanTranscript normalizes a raw whisper transcript: newlines become
// spaces, non-speech markers and environmental annotations are
// removed, timestamp prefixes are stripped, and known silence
// hallucinations are discarded entirely. Returns "" when nothing
// usable remains.
func CleanTranscript(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	s = strings.TrimSpace(s)

	for _, j := range junkMarkers {
		for {
			idx := strings.Index(strings.ToLower(s), strings.ToLower(j))
			if idx < 0 {
				break
			}
			s = s[:idx] + s[idx+len(j):]
		}
	}

	// Catch-all for annotations not in the fixed list.
	s = envAnnotation.ReplaceAllString(s, "")
	s = strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))

	// Timestamp prefixes like "[00:00:00.000 --> 00:00:05.000]".
	if strings.HasPrefix(s, "[") {
		if idx := strings.Index(s, "]"); idx != -1 && idx < 40 {
			s = strings.TrimSpace(s[idx+1:])
		}
	}

	lower := strings.ToLower(s)
	for _, h := range hallucinations {
		if lower == h {
			return ""
		}
	}

	return s
}
