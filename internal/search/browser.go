package search

import "os/exec"

// browserCommand builds the platform command to open a URL. Split out
// so the opener can be stubbed in tests.
func browserCommand(url string) *exec.Cmd {
	return exec.Command("xdg-open", url)
}
