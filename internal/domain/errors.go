package domain

import "errors"

// Sentinel errors used across layers.
var (
	// ErrCaptureTimeout — the capture window elapsed without speech.
	ErrCaptureTimeout = errors.New("capture timed out, no speech detected")
	// ErrUnintelligible — audio was captured but produced no usable text.
	ErrUnintelligible = errors.New("could not understand audio")
	// ErrServiceUnavailable — the recognition backend failed.
	ErrServiceUnavailable = errors.New("recognition service unavailable")
	// ErrNoSlot — a required slot could not be extracted from the command.
	ErrNoSlot = errors.New("no slot found")

	ErrNotImplemented = errors.New("not implemented")
)
