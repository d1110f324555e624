package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// TaskStatus reports execution statistics for one task.
type TaskStatus struct {
	Name      string    `json:"name"`
	Periodic  bool      `json:"periodic"`
	Interval  string    `json:"interval,omitempty"`
	Runs      int       `json:"runs"`
	Failures  int       `json:"failures"`
	LastRun   time.Time `json:"last_run,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

type entry struct {
	task  Task
	timer Timer

	// exec serializes executions across run states.
	exec sync.Mutex

	mu      sync.Mutex
	runs    int
	fails   int
	lastRun time.Time
	lastErr error
}

// Scheduler owns the timers of all scheduled tasks.
type Scheduler struct {
	logger *zap.Logger

	mu      sync.Mutex
	entries map[string]*entry
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	state atomic.Int32
	sf    singleflight.Group
}

// New creates an idle scheduler. Call Start to begin firing timers.
func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		logger:  logger,
		entries: make(map[string]*entry),
	}
}

// State returns the current run state.
func (s *Scheduler) State() RunState {
	return RunState(s.state.Load())
}

// Schedule registers task with timer. Tasks scheduled after Start begin immediately.
func (s *Scheduler) Schedule(task Task, timer Timer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := task.Name()
	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("task %s already scheduled", name)
	}
	if !timer.Once && timer.Interval <= 0 {
		return fmt.Errorf("task %s: periodic timer needs a positive interval", name)
	}
	if timer.Name == "" {
		timer.Name = name
	}

	e := &entry{task: task, timer: timer}
	s.entries[name] = e
	if s.ctx != nil {
		s.launch(e)
	}
	return nil
}

// Start begins firing timers. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx != nil {
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	for _, e := range s.entries {
		s.launch(e)
	}
	s.logger.Info("Scheduler started", zap.Int("tasks", len(s.entries)))
}

// Trigger runs the named task now with the current run state.
func (s *Scheduler) Trigger(ctx context.Context, name string) error {
	s.mu.Lock()
	e, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}
	return s.run(ctx, e, s.State())
}

// Shutdown switches to Stopping, stops all timers, waits for in-flight runs
// and then executes RunOnStop tasks once. The context bounds the whole call.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.state.Store(int32(Stopping))

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	entries := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		// Drain runs started through Trigger.
		for _, e := range entries {
			e.exec.Lock()
			e.exec.Unlock()
		}
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("waiting for running tasks: %w", ctx.Err())
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].task.Name() < entries[j].task.Name() })

	var firstErr error
	for _, e := range entries {
		if !e.timer.RunOnStop {
			continue
		}
		if err := s.run(ctx, e, Stopping); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.logger.Info("Scheduler stopped")
	return firstErr
}

// Status returns per-task statistics sorted by name.
func (s *Scheduler) Status() []TaskStatus {
	s.mu.Lock()
	entries := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.Unlock()

	out := make([]TaskStatus, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		st := TaskStatus{
			Name:     e.task.Name(),
			Periodic: !e.timer.Once,
			Runs:     e.runs,
			Failures: e.fails,
			LastRun:  e.lastRun,
		}
		if !e.timer.Once {
			st.Interval = e.timer.Interval.String()
		}
		if e.lastErr != nil {
			st.LastError = e.lastErr.Error()
		}
		e.mu.Unlock()
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// launch must be called with s.mu held.
func (s *Scheduler) launch(e *entry) {
	s.wg.Add(1)
	go s.loop(s.ctx, e)
}

func (s *Scheduler) loop(ctx context.Context, e *entry) {
	defer s.wg.Done()

	timer := time.NewTimer(e.timer.Delay)
	defer timer.Stop()

	s.logger.Debug("Task timer armed",
		zap.String("task", e.task.Name()),
		zap.Duration("delay", e.timer.Delay),
		zap.Duration("interval", e.timer.Interval),
		zap.Bool("once", e.timer.Once),
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		// An in-flight tick is never cancelled by Shutdown.
		_ = s.run(context.WithoutCancel(ctx), e, s.State())

		if e.timer.Once {
			return
		}
		timer.Reset(e.timer.Interval)
	}
}

func (s *Scheduler) run(ctx context.Context, e *entry, state RunState) error {
	name := e.task.Name()
	// Concurrent runs in the same state share one execution; a Stopping run
	// never joins a Running one.
	_, err, shared := s.sf.Do(name+"/"+state.String(), func() (interface{}, error) {
		e.exec.Lock()
		defer e.exec.Unlock()

		start := time.Now()
		err := e.task.Execute(ctx, state)

		e.mu.Lock()
		e.runs++
		e.lastRun = start
		e.lastErr = err
		if err != nil {
			e.fails++
		}
		e.mu.Unlock()

		if err != nil {
			s.logger.Error("Task failed",
				zap.String("task", name),
				zap.String("state", state.String()),
				zap.Duration("took", time.Since(start)),
				zap.Error(err),
			)
		} else {
			s.logger.Debug("Task finished",
				zap.String("task", name),
				zap.String("state", state.String()),
				zap.Duration("took", time.Since(start)),
			)
		}
		return nil, err
	})
	if shared {
		s.logger.Debug("Task run shared with in-flight execution", zap.String("task", name))
	}
	return err
}
