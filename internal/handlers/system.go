package handlers

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/novassist/nova/internal/domain"
	"github.com/novassist/nova/internal/logger"
	"github.com/novassist/nova/internal/respond"
)

// Compile-time interface check.
var _ domain.CategoryHandler = (*SystemHandler)(nil)

// delayClause matches "in 30 seconds" / "in 5 minutes" inside a power
// command.
var delayClause = regexp.MustCompile(`\bin\s+(\d+)\s+(second|seconds|minute|minutes)\b`)

// SystemOption configures the SystemHandler.
type SystemOption func(*SystemHandler)

// WithArmed enables real execution of destructive actions (shutdown,
// restart, logout). Disarmed, the handler announces what it would do
// instead. Lock and sleep always execute.
func WithArmed(armed bool) SystemOption {
	return func(h *SystemHandler) { h.armed = armed }
}

// SystemHandler performs power and session actions.
type SystemHandler struct {
	run   Runner
	log   *logger.Logger
	armed bool
}

// NewSystemHandler creates the system handler. Destructive actions
// are disarmed by default.
func NewSystemHandler(run Runner, log *logger.Logger, opts ...SystemOption) *SystemHandler {
	h := &SystemHandler{run: run, log: log}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *SystemHandler) Category() domain.Category { return domain.CategorySystem }

// Process executes the system action named in the action slot,
// falling back to keyword detection when the slot is absent.
func (h *SystemHandler) Process(_ context.Context, raw string, slots map[string]string) (string, error) {
	action := normalizeAction(slots["action"])
	if action == "" {
		action = detectAction(raw)
	}
	if action == "" {
		return respond.Clarification("shut down, restart, lock, or put the computer to sleep"), nil
	}

	delaySpoken := parseDelay(raw)

	switch action {
	case "shutdown":
		return h.destructive("shut down the computer", delaySpoken, "systemctl", "poweroff")
	case "restart":
		return h.destructive("restart the computer", delaySpoken, "systemctl", "reboot")
	case "logout":
		return h.destructive("log you out", delaySpoken, "loginctl", "terminate-user")
	case "lock":
		if _, err := h.run.Run("loginctl", "lock-session"); err != nil {
			h.log.Error("system: lock failed: %v", err)
			return respond.Error("lock the screen", "The session manager refused."), nil
		}
		return respond.Success("locked the screen"), nil
	case "sleep":
		if _, err := h.run.Run("systemctl", "suspend"); err != nil {
			h.log.Error("system: suspend failed: %v", err)
			return respond.Error("put the computer to sleep", "Suspend is not available."), nil
		}
		return respond.Success("put the computer to sleep"), nil
	case "hibernate":
		if _, err := h.run.Run("systemctl", "hibernate"); err != nil {
			h.log.Error("system: hibernate failed: %v", err)
			return respond.Error("hibernate the computer", "Hibernation is not available."), nil
		}
		return respond.Success("hibernated the computer"), nil
	}
	return respond.Unrecognized(raw), nil
}

// destructive runs a power action only when armed; otherwise it
// announces the request without acting on it.
func (h *SystemHandler) destructive(spoken, delaySpoken, bin string, args ...string) (string, error) {
	if !h.armed {
		h.log.Info("system: disarmed, skipping %s %v", bin, args)
		return fmt.Sprintf("I would %s%s, but safe mode is on. Say the command again after enabling system control.", spoken, delaySpoken), nil
	}

	if _, err := h.run.Run(bin, args...); err != nil {
		h.log.Error("system: %s %v failed: %v", bin, args, err)
		return respond.Error(spoken, "The system refused the request."), nil
	}
	return fmt.Sprintf("Okay, I'll %s%s.", spoken, delaySpoken), nil
}

func normalizeAction(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	switch s {
	case "shutdown", "turnoff":
		return "shutdown"
	case "restart", "reboot":
		return "restart"
	case "lock":
		return "lock"
	case "sleep", "suspend":
		return "sleep"
	case "hibernate":
		return "hibernate"
	case "logout", "signout":
		return "logout"
	}
	return ""
}

func detectAction(raw string) string {
	switch {
	case strings.Contains(raw, "shut down"), strings.Contains(raw, "shutdown"), strings.Contains(raw, "turn off the computer"):
		return "shutdown"
	case strings.Contains(raw, "restart"), strings.Contains(raw, "reboot"):
		return "restart"
	case strings.Contains(raw, "lock"):
		return "lock"
	case strings.Contains(raw, "hibernate"):
		return "hibernate"
	case strings.Contains(raw, "sleep"), strings.Contains(raw, "suspend"):
		return "sleep"
	case strings.Contains(raw, "log out"), strings.Contains(raw, "sign out"), strings.Contains(raw, "logout"):
		return "logout"
	}
	return ""
}

// parseDelay extracts an "in N seconds/minutes" clause and returns
// the spoken fragment for it, or "" when no delay was requested.
func parseDelay(raw string) string {
	m := delayClause.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return ""
	}
	seconds := n
	if strings.HasPrefix(m[2], "minute") {
		seconds = n * 60
	}
	return fmt.Sprintf(" in %s", respond.FormatDuration(seconds))
}
