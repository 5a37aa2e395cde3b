// Package respond builds the assistant's spoken text.
//
// Phrasing for each outcome kind is picked at random from a fixed
// template set, so the assistant doesn't repeat itself verbatim. The
// sets are fixed and enumerable — tests assert membership, not exact
// strings. Everything here is a pure function of its arguments (plus
// the random template choice).
package respond

import (
	"fmt"
	"math/rand"
)

// ── Outcome templates ────────────────────────────────────────────

var successTemplates = []string{
	"Done! %s.",
	"I've %s for you.",
	"Task complete. %s.",
	"That's done. %s.",
	"All set. %s.",
}

var errorTemplates = []string{
	"I'm sorry, I couldn't %[1]s. %[2]s",
	"I encountered an issue while trying to %[1]s. %[2]s",
	"I wasn't able to %[1]s. %[2]s",
	"There was a problem: %[2]s",
	"I couldn't complete that task. %[2]s",
}

var clarificationTemplates = []string{
	"I'm not sure I understood. Did you want to %s?",
	"Could you clarify if you want me to %s?",
	"I didn't quite catch that. Do you want me to %s?",
	"I need more information. Are you asking me to %s?",
	"To confirm, would you like me to %s?",
}

var affirmations = []string{
	"I'll do that for you.",
	"Working on it now.",
	"Right away.",
	"Consider it done.",
	"Getting that for you now.",
}

// Success phrases a completed action, e.g. Success("opened Firefox").
func Success(action string) string {
	return fmt.Sprintf(successTemplates[rand.Intn(len(successTemplates))], action)
}

// Error phrases a failed action with a reason.
func Error(action, reason string) string {
	return fmt.Sprintf(errorTemplates[rand.Intn(len(errorTemplates))], action, reason)
}

// Clarification asks the user to confirm an ambiguous action.
func Clarification(action string) string {
	return fmt.Sprintf(clarificationTemplates[rand.Intn(len(clarificationTemplates))], action)
}

// Affirmation returns a short acknowledgment that work has started.
func Affirmation() string {
	return affirmations[rand.Intn(len(affirmations))]
}

// ── Fixed conversational lines ───────────────────────────────────

var greetings = []string{
	"Hello! I'm Nova, your virtual assistant.",
	"Hi there! Nova at your service.",
	"Greetings! Nova is ready to assist you.",
	"Hello! Nova is listening.",
	"Hi! I'm Nova, how can I help you today?",
}

var wakeAcks = []string{
	"Yes?",
	"I'm listening",
	"How can I help?",
	"What can I do for you?",
	"I'm here",
}

var thanksReplies = []string{
	"You're welcome!",
	"Happy to help!",
	"No problem at all!",
	"Anytime!",
	"Glad I could assist!",
}

// Greeting returns a random greeting line.
func Greeting() string {
	return greetings[rand.Intn(len(greetings))]
}

// WakeAck returns a random wake-word acknowledgment. Spoken once per
// wake cycle when the wake word was heard without a command.
func WakeAck() string {
	return wakeAcks[rand.Intn(len(wakeAcks))]
}

// Thanks returns a random reply to "thank you".
func Thanks() string {
	return thanksReplies[rand.Intn(len(thanksReplies))]
}

// WakeAcks returns every acknowledgment line so the speech worker can
// pre-synthesize them at startup.
func WakeAcks() []string {
	out := make([]string, len(wakeAcks))
	copy(out, wakeAcks)
	return out
}

// Greetings returns every greeting line for pre-synthesis.
func Greetings() []string {
	out := make([]string, len(greetings))
	copy(out, greetings)
	return out
}

// EmptyCommand is spoken when a command is empty after trimming.
func EmptyCommand() string {
	return "I didn't catch that. Can you please repeat?"
}

// Unrecognized echoes text that matched no builtin or category so the
// user can rephrase.
func Unrecognized(text string) string {
	return fmt.Sprintf("I'm not sure how to handle '%s'. Try asking for help to see what I can do.", text)
}

// Apology is the catch-all spoken when an iteration of the listening
// loop fails unexpectedly.
func Apology() string {
	return "I'm sorry, I encountered an error while processing your request."
}

// Goodbye is spoken on the exit command.
func Goodbye() string {
	return "Goodbye! Nova is shutting down."
}

// StopListening is spoken when the user asks Nova to stop listening.
func StopListening() string {
	return "I'll stop listening now. Call my name if you need me again."
}
