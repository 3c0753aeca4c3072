// Package rule contains the dispatch rule lookup table. A rule maps a small
// integer identifier to the cadence at which shipped orders advance along
// their route: a faster service tier means a shorter tick interval. The table
// is static: seeded once at startup and never hot-reloaded.
package rule

import (
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrDispatchRuleIsNotConstructed is returned when using an improperly
// initialized DispatchRule.
var ErrDispatchRuleIsNotConstructed = errs.NewValueIsRequiredError(
	"dispatch rule must be created via NewDispatchRule constructor")

// DispatchRule is an immutable value object binding a rule identifier to a
// simulation tick cadence.
type DispatchRule struct {
	id      int
	cadence time.Duration

	guard guard.ConstructorGuard
}

// NewDispatchRule creates a DispatchRule. The id must be positive and the
// cadence strictly greater than zero.
func NewDispatchRule(id int, cadence time.Duration) (DispatchRule, error) {
	if id <= 0 {
		return DispatchRule{}, errs.NewValueIsInvalidErrorWithCause("id",
			fmt.Errorf("%d is not greater than 0", id))
	}
	if cadence <= 0 {
		return DispatchRule{}, errs.NewValueIsInvalidErrorWithCause("cadence",
			fmt.Errorf("%s is not greater than 0", cadence))
	}

	return DispatchRule{
		id:      id,
		cadence: cadence,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the rule was created through NewDispatchRule.
func (r DispatchRule) Validate() error {
	return r.guard.Validate(ErrDispatchRuleIsNotConstructed)
}

// ID returns the rule identifier.
func (r DispatchRule) ID() int {
	return r.id
}

// Cadence returns the tick interval for orders shipped under this rule.
func (r DispatchRule) Cadence() time.Duration {
	return r.cadence
}

// Table is an immutable in-memory index of dispatch rules by id.
// It is built once at startup from the seeded rule records.
type Table struct {
	rules map[int]DispatchRule
}

// NewTable builds a Table from the given rules. Duplicate ids are rejected.
func NewTable(rules []DispatchRule) (*Table, error) {
	indexed := make(map[int]DispatchRule, len(rules))
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, exists := indexed[r.ID()]; exists {
			return nil, errs.NewValueIsInvalidErrorWithCause("rules",
				fmt.Errorf("duplicate rule id %d", r.ID()))
		}
		indexed[r.ID()] = r
	}

	return &Table{rules: indexed}, nil
}

// Get returns the rule with the given id.
func (t *Table) Get(id int) (DispatchRule, error) {
	r, ok := t.rules[id]
	if !ok {
		return DispatchRule{}, errs.NewObjectNotFoundError("ruleID", id)
	}
	return r, nil
}

// Cadence returns the tick cadence for the given rule id.
func (t *Table) Cadence(id int) (time.Duration, error) {
	r, err := t.Get(id)
	if err != nil {
		return 0, err
	}
	return r.Cadence(), nil
}

// Has reports whether a rule with the given id exists.
func (t *Table) Has(id int) bool {
	_, ok := t.rules[id]
	return ok
}

// All returns the rules in the table in unspecified order.
func (t *Table) All() []DispatchRule {
	out := make([]DispatchRule, 0, len(t.rules))
	for _, r := range t.rules {
		out = append(out, r)
	}
	return out
}
