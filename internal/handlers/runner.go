// Package handlers implements the category handlers: application
// launching, system power actions, network control, and utilities.
// Each handler turns a categorized command into an OS effect and a
// spoken response.
package handlers

import (
	"os/exec"
	"strings"
)

// Runner abstracts process execution so handlers can be tested
// without touching the host.
type Runner interface {
	// Start launches a process without waiting for it.
	Start(name string, args ...string) error
	// Run executes a process and returns its combined output.
	Run(name string, args ...string) (string, error)
	// LookPath reports whether an executable is on PATH.
	LookPath(name string) bool
}

// ExecRunner runs real processes via os/exec.
type ExecRunner struct{}

var _ Runner = ExecRunner{}

func (ExecRunner) Start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

func (ExecRunner) Run(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

func (ExecRunner) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
