// Package reconcile provides the set-diff and plan/apply machinery behind the
// security-group reconciler.
//
// A reconciliation is split into two phases:
//
// 1. Plan: callers compare an observed Set against an expected Set and record
//    the resulting add/remove Actions, each with a human readable reason.
//
// 2. Apply: ApplyPlan hands the grouped keys to a Mutator, removals first and
//    additions second, one batch call per action type. Empty groups issue no
//    call at all, so an unchanged world costs no mutations.
//
// # Usage Example
//
//	plan := reconcile.NewPlan()
//	for _, key := range current.Difference(expected).Sorted() {
//	    plan.Remove(key, "no matching member")
//	}
//	executed, err := reconcile.ApplyPlan(ctx, mutator, plan, reconcile.ApplyOptions{})
package reconcile
