// Package scheduler runs named tasks on timers for the lifetime of the daemon.
//
// A Timer is either periodic (first run after Delay, then every Interval) or
// one-shot (a single run after Delay). Every execution receives the current
// RunState: Running while the daemon is up, Stopping once Shutdown has been
// called. Tasks scheduled with RunOnStop get one final execution in the
// Stopping state during Shutdown.
//
// Executions of the same task never overlap: each task holds an execution
// lock. Concurrent requests in the same state share one execution through a
// singleflight group keyed by task name and state, so a manual trigger still
// in flight delays the Stopping run but never replaces it. Shutdown waits for
// in-flight runs before the Stopping runs. Task errors are logged and
// counted; they never stop the timer.
package scheduler
