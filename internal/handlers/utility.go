package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/novassist/nova/internal/domain"
	"github.com/novassist/nova/internal/logger"
	"github.com/novassist/nova/internal/respond"
)

// Compile-time interface check.
var _ domain.CategoryHandler = (*UtilityHandler)(nil)

// utilityBins maps spoken utility names to executables.
var utilityBins = map[string]string{
	"control panel": "gnome-control-center",
	"settings":      "gnome-control-center",
	"task manager":  "gnome-system-monitor",
	"file explorer": "nautilus",
	"calculator":    "gnome-calculator",
}

// UtilityHandler opens system utilities, reports resource usage, and
// adjusts the volume.
type UtilityHandler struct {
	run  Runner
	log  *logger.Logger
	info *SysInfo
}

// NewUtilityHandler creates the utility handler.
func NewUtilityHandler(run Runner, log *logger.Logger) *UtilityHandler {
	return &UtilityHandler{run: run, log: log, info: NewSysInfo(run)}
}

func (h *UtilityHandler) Category() domain.Category { return domain.CategoryUtility }

// Process dispatches on the utility or direction slot, with raw-text
// fallbacks for keyword-matched commands.
func (h *UtilityHandler) Process(_ context.Context, raw string, slots map[string]string) (string, error) {
	if dir := strings.ToLower(slots["direction"]); dir != "" {
		return h.volume(dir)
	}

	utility := strings.ToLower(strings.TrimSpace(slots["utility"]))
	if utility == "" {
		utility = detectUtility(raw)
	}

	switch {
	case utility == "processes":
		return h.processes()
	case utility == "cpu":
		return h.cpu()
	case utility == "memory" || utility == "ram":
		return h.memory()
	case utility != "":
		return h.openUtility(utility)
	case strings.Contains(raw, "volume up"):
		return h.volume("up")
	case strings.Contains(raw, "volume down"):
		return h.volume("down")
	}
	return respond.Clarification("open a utility or check system resources"), nil
}

func (h *UtilityHandler) openUtility(name string) (string, error) {
	bin, ok := utilityBins[name]
	if !ok {
		return respond.Error(
			fmt.Sprintf("open the %s", name),
			fmt.Sprintf("I don't know a utility called %s.", name),
		), nil
	}
	if err := h.run.Start(bin); err != nil {
		h.log.Error("utility: starting %s: %v", bin, err)
		return respond.Error(fmt.Sprintf("open the %s", name), "The utility failed to start."), nil
	}
	return fmt.Sprintf("Opening the %s.", name), nil
}

// processes reads the top CPU consumers and speaks their names.
func (h *UtilityHandler) processes() (string, error) {
	names, err := h.info.TopProcesses(5)
	if err != nil {
		h.log.Error("utility: listing processes: %v", err)
		return respond.Error("list the running processes", "The process list is unavailable."), nil
	}
	return respond.FormatListItems("The top processes by CPU are:", names), nil
}

func (h *UtilityHandler) cpu() (string, error) {
	load, err := h.info.LoadAverage()
	if err != nil {
		h.log.Error("utility: reading load: %v", err)
		return respond.Error("check the CPU", "CPU statistics are unavailable."), nil
	}
	return fmt.Sprintf("The CPU load average is %s.", load), nil
}

func (h *UtilityHandler) memory() (string, error) {
	used, total, err := h.info.MemoryGB()
	if err != nil {
		h.log.Error("utility: reading memory: %v", err)
		return respond.Error("check the memory", "Memory statistics are unavailable."), nil
	}
	return fmt.Sprintf("You're using %.1f of %.1f gigabytes of memory.", used, total), nil
}

// volume nudges or mutes the default sink via pactl.
func (h *UtilityHandler) volume(direction string) (string, error) {
	var args []string
	var spoken string
	switch direction {
	case "up":
		args = []string{"set-sink-volume", "@DEFAULT_SINK@", "+10%"}
		spoken = "turned the volume up"
	case "down":
		args = []string{"set-sink-volume", "@DEFAULT_SINK@", "-10%"}
		spoken = "turned the volume down"
	case "mute":
		args = []string{"set-sink-mute", "@DEFAULT_SINK@", "1"}
		spoken = "muted the sound"
	case "unmute":
		args = []string{"set-sink-mute", "@DEFAULT_SINK@", "0"}
		spoken = "unmuted the sound"
	default:
		return respond.Clarification("turn the volume up or down"), nil
	}

	if _, err := h.run.Run("pactl", args...); err != nil {
		h.log.Error("utility: pactl %v: %v", args, err)
		return respond.Error("adjust the volume", "The audio service is not responding."), nil
	}
	return respond.Success(spoken), nil
}

func detectUtility(raw string) string {
	switch {
	case strings.Contains(raw, "processes"):
		return "processes"
	case strings.Contains(raw, "task manager"):
		return "task manager"
	case strings.Contains(raw, "control panel"):
		return "control panel"
	case strings.Contains(raw, "file explorer"):
		return "file explorer"
	case strings.Contains(raw, "cpu"):
		return "cpu"
	case strings.Contains(raw, "memory"), strings.Contains(raw, "ram"):
		return "memory"
	}
	return ""
}
