package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// clockGeneration hands out a fresh id for every started clock so ticks
// from a stopped clock can never be mistaken for ticks of a newer one
var clockGeneration atomic.Int64

// elapsedTickMsg is sent once per interval while a clock is running
type elapsedTickMsg struct {
	gen int64
	at  time.Time
}

// ElapsedClock drives the once-a-second refresh of the elapsed display.
// Acquire it with StartElapsed when the screen needs a running clock and
// release it with Stop on every transition away from that state.
type ElapsedClock struct {
	gen      int64
	interval time.Duration
	running  bool
}

// StartElapsed starts a new clock and returns the command for its first tick
func StartElapsed(interval time.Duration) (ElapsedClock, tea.Cmd) {
	if interval <= 0 {
		interval = time.Second
	}
	c := ElapsedClock{
		gen:      clockGeneration.Add(1),
		interval: interval,
		running:  true,
	}
	return c, c.next()
}

// Stop releases the clock. In-flight ticks are dropped when they arrive.
func (c *ElapsedClock) Stop() {
	c.running = false
	c.gen = clockGeneration.Add(1)
}

// Running reports whether the clock still ticks
func (c ElapsedClock) Running() bool {
	return c.running
}

// Accept checks a tick against the clock. It returns the command for the
// next tick, and ok=false for ticks from a stopped or replaced clock.
func (c ElapsedClock) Accept(msg elapsedTickMsg) (tea.Cmd, bool) {
	if !c.running || msg.gen != c.gen {
		return nil, false
	}
	return c.next(), true
}

func (c ElapsedClock) next() tea.Cmd {
	gen := c.gen
	return tea.Tick(c.interval, func(t time.Time) tea.Msg {
		return elapsedTickMsg{gen: gen, at: t}
	})
}
