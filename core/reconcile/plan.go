package reconcile

import (
	"context"
	"fmt"
)

// Mutator applies batches of keys to the reconciled target.
type Mutator interface {
	Remove(ctx context.Context, keys []string) error
	Add(ctx context.Context, keys []string) error
}

// Plan holds the actions of a single reconciliation.
type Plan struct {
	Actions []Action    `json:"actions"`
	Summary PlanSummary `json:"summary"`

	index map[ActionType]Set
}

// NewPlan returns an empty plan.
func NewPlan() *Plan {
	return &Plan{
		Actions: []Action{},
		index: map[ActionType]Set{
			ActionAdd:    NewSet(),
			ActionRemove: NewSet(),
		},
	}
}

// Add records an addition. Duplicate keys are ignored.
func (p *Plan) Add(key, reason string) bool {
	return p.record(ActionAdd, key, reason)
}

// Remove records a removal. Duplicate keys are ignored.
func (p *Plan) Remove(key, reason string) bool {
	return p.record(ActionRemove, key, reason)
}

// Drop discards every planned action of type t for key.
func (p *Plan) Drop(t ActionType, key string) {
	if !p.index[t].Has(key) {
		return
	}
	delete(p.index[t], key)

	kept := p.Actions[:0]
	for _, a := range p.Actions {
		if a.Type == t && a.Key == key {
			continue
		}
		kept = append(kept, a)
	}
	p.Actions = kept
	p.recount()
}

// Has reports whether key is planned for action type t.
func (p *Plan) Has(t ActionType, key string) bool {
	return p.index[t].Has(key)
}

// Adds returns the keys planned for addition, in planning order.
func (p *Plan) Adds() []string {
	return p.keys(ActionAdd)
}

// Removes returns the keys planned for removal, in planning order.
func (p *Plan) Removes() []string {
	return p.keys(ActionRemove)
}

// Empty reports whether the plan holds no actions.
func (p *Plan) Empty() bool {
	return len(p.Actions) == 0
}

func (p *Plan) record(t ActionType, key, reason string) bool {
	if p.index == nil {
		*p = *NewPlan()
	}
	if p.index[t].Has(key) {
		return false
	}
	p.index[t].Add(key)
	p.Actions = append(p.Actions, Action{Type: t, Key: key, Reason: reason})
	p.recount()
	return true
}

func (p *Plan) recount() {
	p.Summary.AddActions = len(p.index[ActionAdd])
	p.Summary.RemoveActions = len(p.index[ActionRemove])
}

func (p *Plan) keys(t ActionType) []string {
	keys := []string{}
	for _, a := range p.Actions {
		if a.Type == t {
			keys = append(keys, a.Key)
		}
	}
	return keys
}

// ApplyPlan executes the actions in a plan: removals first, then additions.
// Each group is sent to the mutator as one batch and empty groups are skipped.
// Returns the number of keys applied.
func ApplyPlan(ctx context.Context, mutator Mutator, plan *Plan, opts ApplyOptions) (executed int, err error) {
	if opts.DryRun || plan == nil {
		return 0, nil
	}

	if removes := plan.Removes(); len(removes) > 0 {
		if err := mutator.Remove(ctx, removes); err != nil {
			return executed, fmt.Errorf("failed to remove %d keys: %w", len(removes), err)
		}
		executed += len(removes)
	}

	if adds := plan.Adds(); len(adds) > 0 {
		if err := mutator.Add(ctx, adds); err != nil {
			return executed, fmt.Errorf("failed to add %d keys: %w", len(adds), err)
		}
		executed += len(adds)
	}

	return executed, nil
}
