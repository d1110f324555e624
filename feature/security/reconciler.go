package security

import (
	"context"
	"fmt"
	"sync/atomic"

	"sgsync/core/cluster"
	"sgsync/core/reconcile"
	"sgsync/core/scheduler"
	"sgsync/feature/firewall"
	"sgsync/feature/membership"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Reconciler computes and applies the ACL changes for one node.
// The zero value is not usable; use NewReconciler.
type Reconciler struct {
	provider firewall.Provider
	registry membership.Registry
	identity cluster.IdentitySource
	logger   *zap.Logger

	// bootstrapped is set once the local ranges have been proposed.
	bootstrapped atomic.Bool
}

// NewReconciler creates a reconciler for the node described by identity.
func NewReconciler(provider firewall.Provider, registry membership.Registry, identity cluster.IdentitySource, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		provider: provider,
		registry: registry,
		identity: identity,
		logger:   logger,
	}
}

// Bootstrapped reports whether the local ranges have already been proposed.
func (r *Reconciler) Bootstrapped() bool {
	return r.bootstrapped.Load()
}

// Reconcile runs one pass and applies the resulting plan. The plan is
// returned even when applying it fails.
func (r *Reconciler) Reconcile(ctx context.Context, state scheduler.RunState) (*reconcile.Plan, error) {
	return r.run(ctx, state, false)
}

// Plan runs one pass without touching the firewall or the bootstrap flag.
func (r *Reconciler) Plan(ctx context.Context, state scheduler.RunState) (*reconcile.Plan, error) {
	return r.run(ctx, state, true)
}

// Apply executes a plan returned by Plan exactly as computed, without
// re-reading the firewall or the registry. The bootstrap flag is untouched.
func (r *Reconciler) Apply(ctx context.Context, plan *reconcile.Plan) (int, error) {
	id := r.identity.Identity()
	ports := firewall.PortRange{From: id.StoragePort, To: id.SSLStoragePort}
	if err := ports.Validate(); err != nil {
		return 0, err
	}

	applied, err := reconcile.ApplyPlan(ctx, &aclMutator{provider: r.provider, ports: ports}, plan, reconcile.ApplyOptions{})
	if err != nil {
		return applied, fmt.Errorf("failed to apply ACL changes on %s: %w", ports, err)
	}
	return applied, nil
}

func (r *Reconciler) run(ctx context.Context, state scheduler.RunState, dryRun bool) (*reconcile.Plan, error) {
	id := r.identity.Identity()
	ports := firewall.PortRange{From: id.StoragePort, To: id.SSLStoragePort}
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	current, members, err := r.fetch(ctx, id.AppName, ports)
	if err != nil {
		return nil, err
	}

	for _, m := range members {
		if m.HostName == "" || m.HostIP == "" {
			r.logger.Warn("Member has an empty address, its range will be /32",
				zap.String("instance_id", m.InstanceID),
				zap.String("region", m.Region),
				zap.String("host_name", m.HostName),
				zap.String("host_ip", m.HostIP),
			)
		}
	}

	bootstrap := false
	if state == scheduler.Running {
		if dryRun {
			bootstrap = !r.bootstrapped.Load()
		} else {
			bootstrap = r.bootstrapped.CompareAndSwap(false, true)
		}
	}
	if bootstrap && !dryRun {
		r.logger.Info("First pass, proposing local ranges",
			zap.String("host_name", id.HostName),
			zap.String("host_ip", id.HostIP),
		)
	}

	expected := expectedRanges(members, id.Region)
	plan := planChanges(id, current, expected, members, state, bootstrap)

	for _, a := range plan.Actions {
		r.logger.Debug("Planned ACL change",
			zap.String("action", string(a.Type)),
			zap.String("range", a.Key),
			zap.String("reason", a.Reason),
			zap.Bool("dry_run", dryRun),
		)
	}

	applied, err := reconcile.ApplyPlan(ctx, &aclMutator{provider: r.provider, ports: ports}, plan, reconcile.ApplyOptions{DryRun: dryRun})
	if err != nil {
		return plan, fmt.Errorf("failed to apply ACL changes on %s: %w", ports, err)
	}

	if !dryRun && !plan.Empty() {
		r.logger.Info("ACL updated",
			zap.String("ports", ports.String()),
			zap.String("state", state.String()),
			zap.Int("removed", plan.Summary.RemoveActions),
			zap.Int("added", plan.Summary.AddActions),
			zap.Int("applied", applied),
		)
	}
	return plan, nil
}

// fetch reads the current ranges and the live members concurrently.
func (r *Reconciler) fetch(ctx context.Context, appID string, ports firewall.PortRange) (reconcile.Set, []membership.Member, error) {
	var (
		ranges  []string
		members []membership.Member
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ranges, err = r.provider.List(gctx, ports)
		if err != nil {
			return fmt.Errorf("failed to list ACL on %s: %w", ports, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		members, err = r.registry.ListMembers(gctx, appID)
		if err != nil {
			return fmt.Errorf("failed to list members of %s: %w", appID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return reconcile.NewSet(ranges...), members, nil
}

// expectedRanges returns every range a live member accounts for: the private
// range of members in region and the public range of all members.
func expectedRanges(members []membership.Member, region string) reconcile.Set {
	expected := reconcile.NewSet()
	for _, m := range members {
		if m.Region == region {
			expected.Add(firewall.HostRange(m.HostName))
		}
		expected.Add(firewall.HostRange(m.HostIP))
	}
	return expected
}

// planChanges derives the additions and removals for one pass.
//
// Only public ranges of peers are ever added for them. A same-region peer's
// private range is expected (so never revoked) but is only granted by that
// peer's own bootstrap.
func planChanges(id cluster.Identity, current, expected reconcile.Set, members []membership.Member, state scheduler.RunState, bootstrap bool) *reconcile.Plan {
	plan := reconcile.NewPlan()
	plan.Summary.Current = len(current)
	plan.Summary.Expected = len(expected)

	ownPrivate := firewall.HostRange(id.HostName)
	ownPublic := firewall.HostRange(id.HostIP)

	if bootstrap {
		if !current.Has(ownPrivate) {
			plan.Add(ownPrivate, "local private address")
		}
		if !current.Has(ownPublic) {
			plan.Add(ownPublic, "local public address")
		}
	}

	for _, m := range members {
		if m.HostName == id.HostName {
			continue
		}
		public := firewall.HostRange(m.HostIP)
		if !current.Has(public) {
			plan.Add(public, fmt.Sprintf("public address of %s in %s", m.InstanceID, m.Region))
		}
	}

	for _, stale := range current.Difference(expected).Sorted() {
		plan.Remove(stale, "no live member holds this address")
	}

	if state == scheduler.Stopping {
		for _, own := range []string{ownPrivate, ownPublic} {
			plan.Drop(reconcile.ActionAdd, own)
			plan.Remove(own, "local node stopping")
		}
	}
	return plan
}

// aclMutator binds a provider to one port interval.
type aclMutator struct {
	provider firewall.Provider
	ports    firewall.PortRange
}

func (m *aclMutator) Remove(ctx context.Context, ranges []string) error {
	return m.provider.Remove(ctx, ranges, m.ports)
}

func (m *aclMutator) Add(ctx context.Context, ranges []string) error {
	return m.provider.Add(ctx, ranges, m.ports)
}
