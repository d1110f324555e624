package reconcile

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionRemove revokes a key from the target.
	ActionRemove ActionType = "remove"
	// ActionAdd grants a key on the target.
	ActionAdd ActionType = "add"
)

// Action represents a planned mutation operation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the entity identifier (a CIDR range for the security reconciler).
	Key string `json:"key"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`
}

// PlanSummary provides aggregate counts.
type PlanSummary struct {
	// Current is the number of keys observed on the target before the plan.
	Current int `json:"current"`

	// Expected is the number of keys the plan's source of truth accounts for.
	Expected int `json:"expected"`

	// AddActions counts planned additions.
	AddActions int `json:"add_actions"`

	// RemoveActions counts planned removals.
	RemoveActions int `json:"remove_actions"`
}

// ApplyOptions controls how a plan is applied.
type ApplyOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool
}
