package deck

import (
	"fmt"
	"math"
	"time"
)

// Countdown is the talk timer. It starts out stopped, showing the full time
// limit; Start fixes a deadline and the display counts down to it and past
// it with a leading minus sign.
type Countdown struct {
	limit    time.Duration
	deadline time.Time
	now      func() time.Time
}

// NewCountdown creates a stopped countdown. A nil now uses time.Now.
func NewCountdown(limit time.Duration, now func() time.Time) *Countdown {
	if now == nil {
		now = time.Now
	}
	return &Countdown{limit: limit, now: now}
}

// Limit returns the configured duration
func (c *Countdown) Limit() time.Duration {
	return c.limit
}

// Running reports whether the countdown was started
func (c *Countdown) Running() bool {
	return !c.deadline.IsZero()
}

// Start fixes the deadline at now plus the limit and returns it. Starting a
// running countdown keeps its deadline.
func (c *Countdown) Start() time.Time {
	if !c.Running() {
		c.deadline = c.now().Add(c.limit)
	}
	return c.deadline
}

// Resume adopts a deadline fixed elsewhere, e.g. by another view
func (c *Countdown) Resume(deadline time.Time) {
	c.deadline = deadline
}

// Reset stops the countdown
func (c *Countdown) Reset() {
	c.deadline = time.Time{}
}

// Deadline returns the deadline of a running countdown
func (c *Countdown) Deadline() (time.Time, bool) {
	return c.deadline, c.Running()
}

// Remaining returns the time left, negative once past the deadline
func (c *Countdown) Remaining() time.Duration {
	if !c.Running() {
		return c.limit
	}
	return c.deadline.Sub(c.now())
}

// String formats the remaining time
func (c *Countdown) String() string {
	return FormatClock(c.Remaining())
}

// FormatClock formats d as M:SS rounded to whole seconds, with a leading
// "-" when negative
func FormatClock(d time.Duration) string {
	secs := int64(math.Round(d.Seconds()))
	sign := ""
	if secs < 0 {
		sign = "-"
		secs = -secs
	}
	return fmt.Sprintf("%s%d:%02d", sign, secs/60, secs%60)
}
