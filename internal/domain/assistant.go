// Package domain holds the core types and ports shared by every layer.
package domain

import "time"

// Category classifies what kind of command the user issued.
type Category string

const (
	CategoryApplication Category = "application"
	CategorySystem      Category = "system"
	CategoryNetwork     Category = "network"
	CategoryUtility     Category = "utility"
	CategoryBuiltin     Category = "builtin"
	CategoryUnknown     Category = "unrecognized"
)

// Utterance is one piece of recognized speech. Immutable once produced.
type Utterance struct {
	Text  string
	Heard time.Time
}

// WakeEvent is the outcome of checking an utterance for the wake word.
// Command carries the residual text when wake word and command were
// captured in the same utterance; it is empty when only the wake word
// was heard and the caller should capture a follow-up.
type WakeEvent struct {
	Detected bool
	Command  string
}

// Command is a normalized user request: wake phrase stripped, trimmed,
// lower-cased, with any named slots the matching pattern populated
// (e.g. "app_name", "network").
type Command struct {
	Text     string
	Category Category
	Slots    map[string]string
}

// CommandResult is what a category handler reports back.
type CommandResult struct {
	OK      bool
	Message string
	Reason  string
}

// Speaker tags who produced a conversation turn.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
	SpeakerSystem    Speaker = "system"
)

// ConversationTurn is one entry in the conversation log. Append-only;
// owned by the UI, the core only emits them via notifications.
type ConversationTurn struct {
	Speaker Speaker
	Text    string
	At      time.Time
}

// AssistantState is the single lifecycle value of the listening loop.
// Exactly one state holds at any instant. It is owned by the assistant
// and published to observers through notifications only.
type AssistantState int

const (
	StateIdle AssistantState = iota
	StateWaitingForWake
	StateActiveListening
	StateProcessing
	StateSpeaking
)

// String returns a human-readable state name.
func (s AssistantState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaitingForWake:
		return "waiting for wake word"
	case StateActiveListening:
		return "listening"
	case StateProcessing:
		return "processing"
	case StateSpeaking:
		return "speaking"
	default:
		return "unknown"
	}
}
