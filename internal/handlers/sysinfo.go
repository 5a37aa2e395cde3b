package handlers

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// SysInfo reads resource statistics from /proc and ps. Linux-only,
// matching the rest of the OS integration.
type SysInfo struct {
	run Runner

	// overridable for tests
	loadavgPath string
	meminfoPath string
}

// NewSysInfo creates a system info reader.
func NewSysInfo(run Runner) *SysInfo {
	return &SysInfo{
		run:         run,
		loadavgPath: "/proc/loadavg",
		meminfoPath: "/proc/meminfo",
	}
}

// TopProcesses returns the names of the top n processes by CPU usage.
func (s *SysInfo) TopProcesses(n int) ([]string, error) {
	out, err := s.run.Run("ps", "-eo", "comm", "--sort=-%cpu", "--no-headers")
	if err != nil {
		return nil, err
	}

	var names []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(line)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
		if len(names) == n {
			break
		}
	}
	return names, nil
}

// LoadAverage returns the one-minute load average.
func (s *SysInfo) LoadAverage() (string, error) {
	data, err := os.ReadFile(s.loadavgPath)
	if err != nil {
		return "", err
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return "", fmt.Errorf("unexpected loadavg format: %q", string(data))
	}
	return fields[0], nil
}

// MemoryGB returns used and total memory in gigabytes, derived from
// MemTotal and MemAvailable.
func (s *SysInfo) MemoryGB() (used, total float64, err error) {
	data, err := os.ReadFile(s.meminfoPath)
	if err != nil {
		return 0, 0, err
	}

	var totalKB, availKB float64
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		val, convErr := strconv.ParseFloat(fields[1], 64)
		if convErr != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			totalKB = val
		case "MemAvailable:":
			availKB = val
		}
	}
	if totalKB == 0 {
		return 0, 0, fmt.Errorf("MemTotal not found in %s", s.meminfoPath)
	}

	const kbPerGB = 1024 * 1024
	total = totalKB / kbPerGB
	used = (totalKB - availKB) / kbPerGB
	return used, total, nil
}
