// Package rules provides the reusable invariant objects that guard every
// aggregate state transition. A rule pairs a named predicate with a message
// describing the offending values; checking a batch of rules before any
// mutation keeps operations all-or-nothing.
package rules

import (
	"ordercore/internal/pkg/errs"
)

// Rule is a named domain invariant. Check returns nil when the invariant
// holds and a DomainRuleViolationError naming the rule when it does not.
type Rule interface {
	Name() string
	Check() error
}

type predicateRule struct {
	name      string
	satisfied func() bool
	details   func() string
}

// New creates a rule from a name, a predicate, and a lazy message builder.
// The message is only built when the rule is violated, so it may freely
// format the offending values.
func New(name string, satisfied func() bool, details func() string) Rule {
	return predicateRule{name: name, satisfied: satisfied, details: details}
}

func (r predicateRule) Name() string {
	return r.name
}

func (r predicateRule) Check() error {
	if r.satisfied() {
		return nil
	}
	return errs.NewDomainRuleViolationError(r.name, r.details())
}

// CheckAll evaluates rules in order and returns the first violation.
// Callers run CheckAll over a whole batch before mutating anything, so a
// violation anywhere leaves the aggregate untouched.
func CheckAll(ruleSet ...Rule) error {
	for _, r := range ruleSet {
		if err := r.Check(); err != nil {
			return err
		}
	}
	return nil
}
