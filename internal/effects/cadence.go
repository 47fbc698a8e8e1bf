package effects

import "time"

// cadence gates accumulator advancement on a monotonic next-due
// timestamp. Fires at most once per call, so render rate never changes
// animation speed.
type cadence struct {
	period time.Duration
	next   time.Time
}

// reset schedules the first advance one full period from now, so the
// frame that reinitialised an effect renders its zeroed state.
func (c *cadence) reset(now time.Time) {
	c.next = now.Add(c.period)
}

// due reports whether a period has elapsed and advances the schedule.
// The next deadline moves by exactly one period to stay drift-free;
// after a stall longer than one period it re-anchors at now instead of
// firing repeatedly to catch up.
func (c *cadence) due(now time.Time) bool {
	if now.Before(c.next) {
		return false
	}
	c.next = c.next.Add(c.period)
	if !now.Before(c.next) {
		c.next = now.Add(c.period)
	}
	return true
}
