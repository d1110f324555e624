package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMutator struct {
	mock.Mock
	calls []string
}

func (m *mockMutator) Remove(ctx context.Context, keys []string) error {
	m.calls = append(m.calls, "remove")
	return m.Called(ctx, keys).Error(0)
}

func (m *mockMutator) Add(ctx context.Context, keys []string) error {
	m.calls = append(m.calls, "add")
	return m.Called(ctx, keys).Error(0)
}

func TestPlan_Record(t *testing.T) {
	plan := NewPlan()

	assert.True(t, plan.Add("a", "first"))
	assert.False(t, plan.Add("a", "duplicate"))
	assert.True(t, plan.Remove("b", "gone"))
	assert.True(t, plan.Add("c", "second"))

	assert.Equal(t, []string{"a", "c"}, plan.Adds())
	assert.Equal(t, []string{"b"}, plan.Removes())
	assert.Equal(t, 2, plan.Summary.AddActions)
	assert.Equal(t, 1, plan.Summary.RemoveActions)
	assert.Len(t, plan.Actions, 3)
	assert.Equal(t, "first", plan.Actions[0].Reason)
}

func TestPlan_Drop(t *testing.T) {
	plan := NewPlan()
	plan.Add("a", "x")
	plan.Add("b", "x")
	plan.Remove("a", "y")

	plan.Drop(ActionAdd, "a")
	plan.Drop(ActionAdd, "missing")

	assert.Equal(t, []string{"b"}, plan.Adds())
	assert.Equal(t, []string{"a"}, plan.Removes())
	assert.False(t, plan.Has(ActionAdd, "a"))
	assert.True(t, plan.Has(ActionRemove, "a"))
	assert.Equal(t, 1, plan.Summary.AddActions)
}

func TestPlan_ZeroValue(t *testing.T) {
	var plan Plan
	assert.True(t, plan.Empty())
	plan.Add("a", "x")
	assert.Equal(t, []string{"a"}, plan.Adds())
}

func TestApplyPlan_RemovesBeforeAdds(t *testing.T) {
	plan := NewPlan()
	plan.Add("new", "member joined")
	plan.Remove("old", "member left")

	m := new(mockMutator)
	m.On("Remove", mock.Anything, []string{"old"}).Return(nil)
	m.On("Add", mock.Anything, []string{"new"}).Return(nil)

	executed, err := ApplyPlan(context.Background(), m, plan, ApplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, executed)
	assert.Equal(t, []string{"remove", "add"}, m.calls)
	m.AssertExpectations(t)
}

func TestApplyPlan_EmptyPlanIssuesNoCalls(t *testing.T) {
	m := new(mockMutator)

	executed, err := ApplyPlan(context.Background(), m, NewPlan(), ApplyOptions{})
	require.NoError(t, err)
	assert.Zero(t, executed)
	m.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
	m.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestApplyPlan_DryRun(t *testing.T) {
	plan := NewPlan()
	plan.Add("new", "x")
	m := new(mockMutator)

	executed, err := ApplyPlan(context.Background(), m, plan, ApplyOptions{DryRun: true})
	require.NoError(t, err)
	assert.Zero(t, executed)
	assert.Empty(t, m.calls)
}

func TestApplyPlan_RemoveFailureSkipsAdds(t *testing.T) {
	plan := NewPlan()
	plan.Add("new", "x")
	plan.Remove("old", "y")

	m := new(mockMutator)
	m.On("Remove", mock.Anything, []string{"old"}).Return(errors.New("api throttled"))

	executed, err := ApplyPlan(context.Background(), m, plan, ApplyOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api throttled")
	assert.Zero(t, executed)
	assert.Equal(t, []string{"remove"}, m.calls)
}

func TestApplyPlan_AddFailure(t *testing.T) {
	plan := NewPlan()
	plan.Add("new", "x")
	plan.Remove("old", "y")

	m := new(mockMutator)
	m.On("Remove", mock.Anything, []string{"old"}).Return(nil)
	m.On("Add", mock.Anything, []string{"new"}).Return(errors.New("limit exceeded"))

	executed, err := ApplyPlan(context.Background(), m, plan, ApplyOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to add 1 keys")
	assert.Equal(t, 1, executed)
}
