package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrSweepAnomaliesCommandIsNotConstructed = errors.New(
	"SweepAnomaliesCommand must be created via NewSweepAnomaliesCommand constructor",
)

// SweepAnomaliesCommand triggers one pass of the anomaly detector over all
// unflagged orders. Carries no parameters; the thresholds live on the handler.
type SweepAnomaliesCommand struct {
	guard guard.ConstructorGuard
}

// NewSweepAnomaliesCommand creates a command to run an anomaly sweep.
func NewSweepAnomaliesCommand() SweepAnomaliesCommand {
	return SweepAnomaliesCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c SweepAnomaliesCommand) Validate() error {
	return c.guard.Validate(ErrSweepAnomaliesCommandIsNotConstructed)
}
