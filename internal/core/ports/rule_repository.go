package ports

import (
	"context"

	"dispatch/internal/core/domain/model/rule"
)

// RuleRepository defines the persistence contract for dispatch rule records.
// Rules are seeded once at startup and loaded into an in-memory rule.Table;
// the table is never hot-reloaded afterwards.
type RuleRepository interface {
	// Seed upserts the given rules. Existing rows with the same id are replaced.
	Seed(ctx context.Context, rules []rule.DispatchRule) error

	// GetAll retrieves every dispatch rule.
	GetAll(ctx context.Context) ([]rule.DispatchRule, error)
}
