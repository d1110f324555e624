package scheduler

import (
	"context"
	"errors"
	"time"
)

// ErrUnknownTask is returned when a task name is not scheduled.
var ErrUnknownTask = errors.New("unknown task")

// RunState is the lifecycle phase of the owning process.
type RunState int32

const (
	// Running is the normal operating phase.
	Running RunState = iota
	// Stopping is the graceful-shutdown phase.
	Stopping
)

func (s RunState) String() string {
	switch s {
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Task is a unit of scheduled work.
type Task interface {
	Name() string
	Execute(ctx context.Context, state RunState) error
}

// TaskFunc adapts a function to the Task interface.
type TaskFunc struct {
	TaskName string
	Fn       func(ctx context.Context, state RunState) error
}

// Name implements Task.
func (f TaskFunc) Name() string { return f.TaskName }

// Execute implements Task.
func (f TaskFunc) Execute(ctx context.Context, state RunState) error { return f.Fn(ctx, state) }

// Timer describes when a task runs.
type Timer struct {
	// Name labels the timer in logs; usually the task name.
	Name string
	// Delay is the wait before the first execution.
	Delay time.Duration
	// Interval is the wait between executions of a periodic timer.
	Interval time.Duration
	// Once limits the task to a single timed execution.
	Once bool
	// RunOnStop adds one final execution in the Stopping state during Shutdown.
	RunOnStop bool
}

// NewSimpleTimer returns a periodic timer whose first delay equals its period.
func NewSimpleTimer(name string, period time.Duration) Timer {
	return Timer{Name: name, Delay: period, Interval: period}
}

// NewOneShotTimer returns a timer that fires once, immediately.
func NewOneShotTimer(name string) Timer {
	return Timer{Name: name, Once: true}
}

// WithRunOnStop returns a copy of t that also runs during Shutdown.
func (t Timer) WithRunOnStop() Timer {
	t.RunOnStop = true
	return t
}
