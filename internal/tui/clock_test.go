package tui

import (
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeTimer struct {
	due time.Duration
	seq int
	fn  func(time.Time) tea.Msg
}

// fakeClock replaces tea.Tick so tests decide when scheduled messages fire.
type fakeClock struct {
	now    time.Duration
	seq    int
	timers []fakeTimer
}

func (c *fakeClock) tick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	c.seq++
	c.timers = append(c.timers, fakeTimer{due: c.now + d, seq: c.seq, fn: fn})
	return nil
}

// advance moves time forward by d and delivers every message that falls
// due, including ones scheduled while delivering.
func (c *fakeClock) advance(d time.Duration, deliver func(tea.Msg)) {
	target := c.now + d
	for {
		sort.SliceStable(c.timers, func(i, j int) bool {
			if c.timers[i].due == c.timers[j].due {
				return c.timers[i].seq < c.timers[j].seq
			}
			return c.timers[i].due < c.timers[j].due
		})
		if len(c.timers) == 0 || c.timers[0].due > target {
			break
		}
		t := c.timers[0]
		c.timers = c.timers[1:]
		if t.due > c.now {
			c.now = t.due
		}
		deliver(t.fn(time.Unix(0, 0).Add(c.now)))
	}
	c.now = target
}
