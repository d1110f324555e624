package security

import (
	"context"
	"errors"
	"testing"

	"sgsync/core/scheduler"
	"sgsync/feature/membership"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type errRegistry struct{ err error }

func (r errRegistry) ListMembers(ctx context.Context, appID string) ([]membership.Member, error) {
	return nil, r.err
}

func newTestService(provider *countingProvider, registry membership.Registry) *Service {
	r := NewReconciler(provider, registry, localIdentity(), zap.NewNop())
	return NewService(r, scheduler.NewSimpleTimer(TaskName, DefaultBaseInterval).WithRunOnStop(), true, zap.NewNop())
}

func TestService_ExecuteRecordsLastRun(t *testing.T) {
	provider := newCountingProvider()
	svc := newTestService(provider, &staticRegistry{members: []membership.Member{
		member("i-west", "us-west", "10.0.0.2", "5.6.7.8"),
	}})
	assert.Nil(t, svc.Last())

	require.NoError(t, svc.Execute(context.Background(), scheduler.Running))

	last := svc.Last()
	require.NotNil(t, last)
	assert.Equal(t, "running", last.State)
	assert.False(t, last.DryRun)
	assert.Empty(t, last.Error)
	assert.Len(t, last.Plan.Adds(), 3)

	st := svc.Status()
	assert.Equal(t, TaskName, st.Task)
	assert.True(t, st.Seed)
	assert.True(t, st.Bootstrapped)
	assert.Equal(t, "2m0s", st.Interval)
	assert.Same(t, last, st.LastRun)
}

func TestService_ExecuteError(t *testing.T) {
	svc := newTestService(newCountingProvider(), errRegistry{err: errors.New("registry down")})

	err := svc.Execute(context.Background(), scheduler.Running)
	assert.ErrorContains(t, err, "registry down")
	require.NotNil(t, svc.Last())
	assert.Contains(t, svc.Last().Error, "registry down")
}

func TestService_DryRunNotRecorded(t *testing.T) {
	provider := newCountingProvider()
	svc := newTestService(provider, &staticRegistry{})

	run, err := svc.DryRun(context.Background(), scheduler.Running)
	require.NoError(t, err)
	assert.True(t, run.DryRun)
	assert.Len(t, run.Plan.Adds(), 2)
	assert.Nil(t, svc.Last())
	assert.Zero(t, provider.calls())
}

func TestService_ReconcileThroughScheduler(t *testing.T) {
	provider := newCountingProvider()
	svc := newTestService(provider, &staticRegistry{})

	s := scheduler.New(zap.NewNop())
	require.NoError(t, s.Schedule(svc, svc.Timer()))
	svc.SetTrigger(s)

	run, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Len(t, run.Plan.Adds(), 2)
	assert.Equal(t, 1, s.Status()[0].Runs)

	// Shutdown runs the final stopping pass.
	require.NoError(t, s.Shutdown(context.Background()))
	assert.Equal(t, "stopping", svc.Last().State)
	assert.Empty(t, list(t, provider))
}

func TestService_ReconcileWithoutScheduler(t *testing.T) {
	svc := newTestService(newCountingProvider(), &staticRegistry{})
	run, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "running", run.State)
}
