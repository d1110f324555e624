package security

import (
	"context"
	"sync"
	"time"

	"sgsync/core/reconcile"
	"sgsync/core/scheduler"

	"go.uber.org/zap"
)

// Trigger runs a scheduled task by name.
type Trigger interface {
	Trigger(ctx context.Context, name string) error
}

// Run describes one reconciliation pass.
type Run struct {
	StartedAt time.Time       `json:"started_at"`
	Duration  string          `json:"duration"`
	State     string          `json:"state"`
	DryRun    bool            `json:"dry_run"`
	Plan      *reconcile.Plan `json:"plan,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Status is the schedule of the node plus its last applied pass.
type Status struct {
	Task         string `json:"task"`
	Seed         bool   `json:"seed"`
	Interval     string `json:"interval,omitempty"`
	Bootstrapped bool   `json:"bootstrapped"`
	LastRun      *Run   `json:"last_run,omitempty"`
}

// Service runs the reconciler as a scheduler task and keeps its last result.
type Service struct {
	reconciler *Reconciler
	timer      scheduler.Timer
	seed       bool
	trigger    Trigger
	logger     *zap.Logger

	mu   sync.Mutex
	last *Run
}

// NewService creates the reconciliation service for a node scheduled with timer.
func NewService(reconciler *Reconciler, timer scheduler.Timer, seed bool, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		reconciler: reconciler,
		timer:      timer,
		seed:       seed,
		logger:     logger,
	}
}

// SetTrigger routes manual runs through t so they serialize with timed runs.
func (s *Service) SetTrigger(t Trigger) {
	s.trigger = t
}

// Timer returns the timer the task should be scheduled with.
func (s *Service) Timer() scheduler.Timer {
	return s.timer
}

// Name implements scheduler.Task.
func (s *Service) Name() string {
	return TaskName
}

// Execute implements scheduler.Task.
func (s *Service) Execute(ctx context.Context, state scheduler.RunState) error {
	run, err := s.execute(ctx, state, false)
	s.record(run)
	return err
}

// Reconcile runs an applied pass now and returns it.
func (s *Service) Reconcile(ctx context.Context) (*Run, error) {
	if s.trigger == nil {
		if err := s.Execute(ctx, scheduler.Running); err != nil {
			return s.Last(), err
		}
		return s.Last(), nil
	}
	err := s.trigger.Trigger(ctx, TaskName)
	return s.Last(), err
}

// DryRun plans a pass for state without applying it.
func (s *Service) DryRun(ctx context.Context, state scheduler.RunState) (*Run, error) {
	return s.execute(ctx, state, true)
}

// Last returns the last applied pass, or nil before the first one.
func (s *Service) Last() *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Status reports the schedule and the last applied pass.
func (s *Service) Status() Status {
	st := Status{
		Task:         TaskName,
		Seed:         s.seed,
		Bootstrapped: s.reconciler.Bootstrapped(),
		LastRun:      s.Last(),
	}
	if !s.timer.Once {
		st.Interval = s.timer.Interval.String()
	}
	return st
}

func (s *Service) execute(ctx context.Context, state scheduler.RunState, dryRun bool) (*Run, error) {
	start := time.Now()
	var (
		plan *reconcile.Plan
		err  error
	)
	if dryRun {
		plan, err = s.reconciler.Plan(ctx, state)
	} else {
		plan, err = s.reconciler.Reconcile(ctx, state)
	}

	run := &Run{
		StartedAt: start.UTC(),
		Duration:  time.Since(start).String(),
		State:     state.String(),
		DryRun:    dryRun,
		Plan:      plan,
	}
	if err != nil {
		run.Error = err.Error()
	}
	return run, err
}

func (s *Service) record(run *Run) {
	s.mu.Lock()
	s.last = run
	s.mu.Unlock()
}
