package security

import (
	"math/rand/v2"
	"time"

	"sgsync/core/scheduler"
)

const (
	// TaskName is the scheduler name of the reconciliation task.
	TaskName = "Update_SG"
	// DefaultBaseInterval is the base period of seed nodes.
	DefaultBaseInterval = 120 * time.Second
)

// IntervalPolicy decides how often a node reconciles.
type IntervalPolicy struct {
	Base time.Duration
	rand *rand.Rand
}

// NewIntervalPolicy returns a policy drawing jitter from src. A nil src is
// seeded from the clock; a non-positive base uses DefaultBaseInterval.
func NewIntervalPolicy(base time.Duration, src *rand.Rand) *IntervalPolicy {
	if base <= 0 {
		base = DefaultBaseInterval
	}
	if src == nil {
		src = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &IntervalPolicy{Base: base, rand: src}
}

// Period returns Base plus a jitter in [0, Base).
func (p *IntervalPolicy) Period() time.Duration {
	return p.Base + time.Duration(p.rand.Int64N(int64(p.Base)))
}

// TimerFor returns the timer of a seed or non-seed node. Seeds reconcile
// every Period (drawn once), with the same first delay. Other nodes run once
// at start. Both run a final stopping pass.
func (p *IntervalPolicy) TimerFor(seed bool) scheduler.Timer {
	if !seed {
		return scheduler.NewOneShotTimer(TaskName).WithRunOnStop()
	}
	return scheduler.NewSimpleTimer(TaskName, p.Period()).WithRunOnStop()
}
