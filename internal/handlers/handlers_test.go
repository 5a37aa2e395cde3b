package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/novassist/nova/internal/logger"
)

// fakeRunner records invocations and replies from a canned table.
type fakeRunner struct {
	started  []string
	ran      []string
	output   map[string]string // command line -> output
	failWith error
	missing  map[string]bool // executables LookPath can't find
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{output: map[string]string{}, missing: map[string]bool{}}
}

func (r *fakeRunner) Start(name string, args ...string) error {
	r.started = append(r.started, line(name, args))
	return r.failWith
}

func (r *fakeRunner) Run(name string, args ...string) (string, error) {
	l := line(name, args)
	r.ran = append(r.ran, l)
	return r.output[l], r.failWith
}

func (r *fakeRunner) LookPath(name string) bool { return !r.missing[name] }

func line(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return fmt.Sprintf("%s %s", name, strings.Join(args, " "))
}

func testLog() *logger.Logger { return logger.New(logger.LevelOff, nil) }

// ── Application ──────────────────────────────────────────────────

func TestAppOpen(t *testing.T) {
	run := newFakeRunner()
	h := NewAppHandler(run, testLog())

	got, err := h.Process(context.Background(), "open firefox", map[string]string{"app_name": "firefox"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "Opening firefox." {
		t.Errorf("response = %q", got)
	}
	if len(run.started) != 1 || run.started[0] != "firefox" {
		t.Errorf("started = %v", run.started)
	}
}

func TestAppAliasResolution(t *testing.T) {
	run := newFakeRunner()
	h := NewAppHandler(run, testLog())

	h.Process(context.Background(), "open the task manager", map[string]string{"app_name": "task manager"})
	if len(run.started) != 1 || run.started[0] != "gnome-system-monitor" {
		t.Errorf("started = %v, want gnome-system-monitor", run.started)
	}
}

func TestAppMissingSlotAsksForName(t *testing.T) {
	run := newFakeRunner()
	h := NewAppHandler(run, testLog())

	got, err := h.Process(context.Background(), "open", map[string]string{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "which application") {
		t.Errorf("response = %q, want a clarification", got)
	}
	if len(run.started) != 0 {
		t.Errorf("started %v with no app name", run.started)
	}
}

func TestAppNotInstalled(t *testing.T) {
	run := newFakeRunner()
	run.missing["firefox"] = true
	h := NewAppHandler(run, testLog())

	got, _ := h.Process(context.Background(), "open firefox", map[string]string{"app_name": "firefox"})
	if !strings.Contains(got, "couldn't find firefox") {
		t.Errorf("response = %q", got)
	}
	if len(run.started) != 0 {
		t.Errorf("started %v despite missing binary", run.started)
	}
}

func TestAppClose(t *testing.T) {
	run := newFakeRunner()
	h := NewAppHandler(run, testLog())

	got, _ := h.Process(context.Background(), "close firefox", map[string]string{"app_name": "firefox"})
	if got != "Closing firefox." {
		t.Errorf("response = %q", got)
	}
	if len(run.ran) != 1 || run.ran[0] != "pkill -f firefox" {
		t.Errorf("ran = %v", run.ran)
	}
}

// ── System ───────────────────────────────────────────────────────

func TestSystemLockExecutes(t *testing.T) {
	run := newFakeRunner()
	h := NewSystemHandler(run, testLog())

	got, err := h.Process(context.Background(), "lock the screen", map[string]string{"action": "lock"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "locked the screen") {
		t.Errorf("response = %q", got)
	}
	if len(run.ran) != 1 || run.ran[0] != "loginctl lock-session" {
		t.Errorf("ran = %v", run.ran)
	}
}

func TestSystemShutdownDisarmed(t *testing.T) {
	run := newFakeRunner()
	h := NewSystemHandler(run, testLog())

	got, _ := h.Process(context.Background(), "shutdown the computer", map[string]string{"action": "shutdown"})
	if !strings.Contains(got, "safe mode") {
		t.Errorf("response = %q, want safe-mode notice", got)
	}
	if len(run.ran) != 0 {
		t.Errorf("disarmed handler executed %v", run.ran)
	}
}

func TestSystemShutdownArmed(t *testing.T) {
	run := newFakeRunner()
	h := NewSystemHandler(run, testLog(), WithArmed(true))

	got, _ := h.Process(context.Background(), "shutdown the computer", map[string]string{"action": "shutdown"})
	if !strings.Contains(got, "shut down the computer") {
		t.Errorf("response = %q", got)
	}
	if len(run.ran) != 1 || run.ran[0] != "systemctl poweroff" {
		t.Errorf("ran = %v", run.ran)
	}
}

func TestSystemShutdownWithDelay(t *testing.T) {
	run := newFakeRunner()
	h := NewSystemHandler(run, testLog(), WithArmed(true))

	got, _ := h.Process(context.Background(), "shutdown the computer in 5 minutes", map[string]string{"action": "shutdown"})
	if !strings.Contains(got, "in 5 minutes") {
		t.Errorf("response = %q, want the delay spoken back", got)
	}
}

func TestSystemUnknownActionAsks(t *testing.T) {
	run := newFakeRunner()
	h := NewSystemHandler(run, testLog())

	got, _ := h.Process(context.Background(), "do something with the system", map[string]string{})
	if !strings.Contains(got, "shut down, restart, lock") {
		t.Errorf("response = %q, want a clarification", got)
	}
}

// ── Network ──────────────────────────────────────────────────────

func TestNetworkWifiToggle(t *testing.T) {
	run := newFakeRunner()
	h := NewNetworkHandler(run, testLog())

	got, err := h.Process(context.Background(), "turn off wifi", map[string]string{"adapter": "wifi", "state": "off"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "turned WiFi off") {
		t.Errorf("response = %q", got)
	}
	if len(run.ran) != 1 || run.ran[0] != "nmcli radio wifi off" {
		t.Errorf("ran = %v", run.ran)
	}
}

func TestNetworkBluetoothToggle(t *testing.T) {
	run := newFakeRunner()
	h := NewNetworkHandler(run, testLog())

	h.Process(context.Background(), "turn on bluetooth", map[string]string{"adapter": "bluetooth", "state": "on"})
	if len(run.ran) != 1 || run.ran[0] != "rfkill unblock bluetooth" {
		t.Errorf("ran = %v", run.ran)
	}
}

func TestNetworkAmbiguousAdapterAsks(t *testing.T) {
	run := newFakeRunner()
	h := NewNetworkHandler(run, testLog())

	got, _ := h.Process(context.Background(), "wifi", map[string]string{"adapter": "wifi"})
	if got != "Would you like me to turn WiFi on or off?" {
		t.Errorf("response = %q", got)
	}
	if len(run.ran) != 0 {
		t.Errorf("ran %v for an ambiguous command", run.ran)
	}
}

func TestNetworkConnect(t *testing.T) {
	run := newFakeRunner()
	h := NewNetworkHandler(run, testLog())

	got, _ := h.Process(context.Background(), "connect to the home network",
		map[string]string{"action": "connect", "network": "home"})
	if !strings.Contains(got, "connected to home") {
		t.Errorf("response = %q", got)
	}
	if len(run.ran) != 1 || run.ran[0] != "nmcli connection up id home" {
		t.Errorf("ran = %v", run.ran)
	}
}

func TestNetworkConnectFailure(t *testing.T) {
	run := newFakeRunner()
	run.failWith = errors.New("no such connection")
	h := NewNetworkHandler(run, testLog())

	got, _ := h.Process(context.Background(), "connect to the cafe network",
		map[string]string{"action": "connect", "network": "cafe"})
	if !strings.Contains(got, "couldn't find a network called cafe") {
		t.Errorf("response = %q", got)
	}
}

// ── Utility ──────────────────────────────────────────────────────

func TestUtilityOpensControlPanel(t *testing.T) {
	run := newFakeRunner()
	h := NewUtilityHandler(run, testLog())

	got, _ := h.Process(context.Background(), "open the control panel", map[string]string{"utility": "control panel"})
	if got != "Opening the control panel." {
		t.Errorf("response = %q", got)
	}
	if len(run.started) != 1 || run.started[0] != "gnome-control-center" {
		t.Errorf("started = %v", run.started)
	}
}

func TestUtilityVolume(t *testing.T) {
	run := newFakeRunner()
	h := NewUtilityHandler(run, testLog())

	got, _ := h.Process(context.Background(), "turn the volume up", map[string]string{"direction": "up"})
	if !strings.Contains(got, "turned the volume up") {
		t.Errorf("response = %q", got)
	}
	if len(run.ran) != 1 || run.ran[0] != "pactl set-sink-volume @DEFAULT_SINK@ +10%" {
		t.Errorf("ran = %v", run.ran)
	}
}

func TestUtilityProcesses(t *testing.T) {
	run := newFakeRunner()
	run.output["ps -eo comm --sort=-%cpu --no-headers"] = "firefox\nchrome\nfirefox\ngo\n"
	h := NewUtilityHandler(run, testLog())

	got, _ := h.Process(context.Background(), "show me the running processes", map[string]string{"utility": "processes"})
	want := "The top processes by CPU are: firefox, chrome, and go."
	if got != want {
		t.Errorf("response = %q, want %q", got, want)
	}
}

func TestTopProcessesDeduplicates(t *testing.T) {
	run := newFakeRunner()
	run.output["ps -eo comm --sort=-%cpu --no-headers"] = "a\na\nb\nc\nd\ne\nf\n"
	info := NewSysInfo(run)

	names, err := info.TopProcesses(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Errorf("names = %v", names)
	}
}
