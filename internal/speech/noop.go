package speech

import (
	"context"

	"github.com/novassist/nova/internal/domain"
	"github.com/novassist/nova/internal/logger"
)

// Compile-time interface check.
var _ domain.Synthesizer = (*NoOp)(nil)

// NoOp is a synthesizer that produces no audio. Used when voice output
// is disabled or no speech credentials are configured; the worker
// still serializes and logs utterances, it just has nothing to play.
type NoOp struct {
	log *logger.Logger
}

// NewNoOp creates a no-op synthesizer.
func NewNoOp(log *logger.Logger) *NoOp {
	return &NoOp{log: log}
}

// Synthesize logs the text and returns no audio.
func (n *NoOp) Synthesize(_ context.Context, text string) ([]byte, error) {
	n.log.Debug("speech no-op: would say %q", text)
	return nil, nil
}
