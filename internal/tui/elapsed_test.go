package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestElapsedClock_AcceptsOwnTicks(t *testing.T) {
	c, cmd := StartElapsed(time.Second)
	assert.NotNil(t, cmd)
	assert.True(t, c.Running())

	next, ok := c.Accept(elapsedTickMsg{gen: c.gen, at: t0})
	assert.True(t, ok)
	assert.NotNil(t, next)
}

func TestElapsedClock_DropsTicksAfterStop(t *testing.T) {
	c, _ := StartElapsed(time.Second)
	gen := c.gen
	c.Stop()

	assert.False(t, c.Running())
	next, ok := c.Accept(elapsedTickMsg{gen: gen, at: t0})
	assert.False(t, ok)
	assert.Nil(t, next)
}

func TestElapsedClock_RestartInvalidatesOldTicks(t *testing.T) {
	first, _ := StartElapsed(time.Second)
	old := first.gen
	first.Stop()
	second, _ := StartElapsed(time.Second)

	assert.NotEqual(t, old, second.gen)
	_, ok := second.Accept(elapsedTickMsg{gen: old, at: t0})
	assert.False(t, ok)
	_, ok = second.Accept(elapsedTickMsg{gen: second.gen, at: t0})
	assert.True(t, ok)
}

func TestElapsedClock_ZeroValueIsStopped(t *testing.T) {
	var c ElapsedClock
	assert.False(t, c.Running())
	_, ok := c.Accept(elapsedTickMsg{gen: 0})
	assert.False(t, ok)
}
