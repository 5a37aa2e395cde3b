package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/novassist/nova/internal/domain"
	"github.com/novassist/nova/internal/logger"
	"github.com/novassist/nova/internal/respond"
)

// Compile-time interface check.
var _ domain.CategoryHandler = (*AppHandler)(nil)

// defaultAppAliases maps spoken application names to executables.
// Matching is contains-based in both directions, so "fire fox" still
// resolves to firefox.
var defaultAppAliases = map[string]string{
	"firefox":       "firefox",
	"chrome":        "google-chrome",
	"chromium":      "chromium",
	"browser":       "xdg-open",
	"terminal":      "x-terminal-emulator",
	"calculator":    "gnome-calculator",
	"text editor":   "gedit",
	"editor":        "gedit",
	"files":         "nautilus",
	"file explorer": "nautilus",
	"file manager":  "nautilus",
	"task manager":  "gnome-system-monitor",
	"system monitor": "gnome-system-monitor",
	"settings":      "gnome-control-center",
	"music":         "rhythmbox",
	"video player":  "vlc",
	"vlc":           "vlc",
	"code":          "code",
	"vs code":       "code",
}

// AppOption configures the AppHandler.
type AppOption func(*AppHandler)

// WithAppAliases merges extra spoken-name-to-executable mappings.
func WithAppAliases(aliases map[string]string) AppOption {
	return func(h *AppHandler) {
		for k, v := range aliases {
			h.aliases[strings.ToLower(k)] = v
		}
	}
}

// AppHandler launches and closes applications.
type AppHandler struct {
	run     Runner
	log     *logger.Logger
	aliases map[string]string
}

// NewAppHandler creates the application handler.
func NewAppHandler(run Runner, log *logger.Logger, opts ...AppOption) *AppHandler {
	h := &AppHandler{
		run:     run,
		log:     log,
		aliases: make(map[string]string, len(defaultAppAliases)),
	}
	for k, v := range defaultAppAliases {
		h.aliases[k] = v
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *AppHandler) Category() domain.Category { return domain.CategoryApplication }

// Process launches or closes the application named in the app_name
// slot. A missing slot becomes a spoken clarification, not an error.
func (h *AppHandler) Process(_ context.Context, raw string, slots map[string]string) (string, error) {
	name := strings.TrimSpace(slots["app_name"])
	if name == "" {
		// Pattern capture missed: re-scan for an action verb and take
		// everything after it.
		name = nameAfterVerb(raw)
	}
	if name == "" {
		return "I didn't catch which application you want to open. Can you specify the application name?", nil
	}

	closing := strings.Contains(raw, "close") || strings.Contains(raw, "quit") || strings.Contains(raw, "kill")

	bin, spoken := h.resolve(name)
	if closing {
		return h.close(bin, spoken)
	}
	return h.open(bin, spoken)
}

func (h *AppHandler) open(bin, spoken string) (string, error) {
	if !h.run.LookPath(bin) {
		h.log.Info("app: %q (%s) not installed", spoken, bin)
		return respond.Error(
			fmt.Sprintf("open %s", spoken),
			fmt.Sprintf("I couldn't find %s on this computer.", spoken),
		), nil
	}
	if err := h.run.Start(bin); err != nil {
		h.log.Error("app: starting %s: %v", bin, err)
		return respond.Error(
			fmt.Sprintf("open %s", spoken),
			"The application failed to start.",
		), nil
	}
	h.log.Info("app: opened %s (%s)", spoken, bin)
	return fmt.Sprintf("Opening %s.", spoken), nil
}

func (h *AppHandler) close(bin, spoken string) (string, error) {
	if _, err := h.run.Run("pkill", "-f", bin); err != nil {
		h.log.Debug("app: pkill %s: %v", bin, err)
		return respond.Error(
			fmt.Sprintf("close %s", spoken),
			fmt.Sprintf("%s doesn't seem to be running.", spoken),
		), nil
	}
	return fmt.Sprintf("Closing %s.", spoken), nil
}

// resolve maps a spoken name to an executable. Alias keys match by
// containment in either direction; unmatched names are used verbatim
// with spaces removed.
func (h *AppHandler) resolve(name string) (bin, spoken string) {
	lower := strings.ToLower(name)
	if bin, ok := h.aliases[lower]; ok {
		return bin, lower
	}
	// Sorted so the same spoken name always resolves the same way.
	keys := make([]string, 0, len(h.aliases))
	for alias := range h.aliases {
		keys = append(keys, alias)
	}
	sort.Strings(keys)
	for _, alias := range keys {
		if strings.Contains(lower, alias) || strings.Contains(alias, lower) {
			return h.aliases[alias], alias
		}
	}
	return strings.ReplaceAll(lower, " ", ""), lower
}

var appVerbs = []string{"open", "launch", "start", "run", "close", "quit", "kill"}

// nameAfterVerb extracts the words following the first action verb.
func nameAfterVerb(raw string) string {
	words := strings.Fields(strings.ToLower(raw))
	for i, w := range words {
		for _, v := range appVerbs {
			if w == v && i+1 < len(words) {
				rest := words[i+1:]
				if rest[0] == "the" {
					rest = rest[1:]
				}
				return strings.Join(rest, " ")
			}
		}
	}
	return ""
}
