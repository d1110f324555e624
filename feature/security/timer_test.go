package security

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntervalPolicy_Period(t *testing.T) {
	p := NewIntervalPolicy(0, rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, DefaultBaseInterval, p.Base)

	for i := 0; i < 100; i++ {
		d := p.Period()
		assert.GreaterOrEqual(t, d, DefaultBaseInterval)
		assert.Less(t, d, 2*DefaultBaseInterval)
	}
}

func TestIntervalPolicy_Deterministic(t *testing.T) {
	a := NewIntervalPolicy(time.Minute, rand.New(rand.NewPCG(42, 7)))
	b := NewIntervalPolicy(time.Minute, rand.New(rand.NewPCG(42, 7)))
	assert.Equal(t, a.Period(), b.Period())
	assert.Equal(t, a.TimerFor(true), b.TimerFor(true))
}

func TestIntervalPolicy_TimerFor(t *testing.T) {
	p := NewIntervalPolicy(time.Minute, rand.New(rand.NewPCG(3, 4)))

	seed := p.TimerFor(true)
	assert.Equal(t, TaskName, seed.Name)
	assert.False(t, seed.Once)
	assert.True(t, seed.RunOnStop)
	assert.Equal(t, seed.Delay, seed.Interval)
	assert.GreaterOrEqual(t, seed.Interval, time.Minute)
	assert.Less(t, seed.Interval, 2*time.Minute)

	other := p.TimerFor(false)
	assert.Equal(t, TaskName, other.Name)
	assert.True(t, other.Once)
	assert.True(t, other.RunOnStop)
	assert.Zero(t, other.Delay)
}

func TestIntervalPolicy_ClockSeeded(t *testing.T) {
	p := NewIntervalPolicy(time.Second, nil)
	d := p.Period()
	assert.GreaterOrEqual(t, d, time.Second)
	assert.Less(t, d, 2*time.Second)
}

func TestConfig_BaseInterval(t *testing.T) {
	assert.Equal(t, DefaultBaseInterval, Config{}.BaseInterval())
	assert.Equal(t, 30*time.Second, Config{BaseIntervalSeconds: 30}.BaseInterval())
}
