package core

import "time"

// FixedStep helps run frame updates at a steady ticks-per-second rate.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	if tps <= 0 {
		tps = 60
	}
	fs := &FixedStep{}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// Step returns the duration of one tick.
func (f *FixedStep) Step() time.Duration { return f.step }

// ShouldStep reports whether the loop should advance by one tick.
func (f *FixedStep) ShouldStep() bool {
	now := time.Now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}

// Counter cycles through [0, limit) advancing once per interval of
// accumulated time.
type Counter struct {
	limit    int
	value    int
	start    int
	interval time.Duration
	elapsed  time.Duration
}

// NewCounter constructs a Counter starting at start. A non-positive limit is
// treated as 1 and a non-positive interval as one 60 TPS tick.
func NewCounter(limit, start int, interval time.Duration) *Counter {
	if limit <= 0 {
		limit = 1
	}
	if interval <= 0 {
		interval = time.Second / 60
	}
	start = (start%limit + limit) % limit
	return &Counter{limit: limit, value: start, start: start, interval: interval}
}

// UpdateDelta accumulates dt and returns the counter value afterwards.
// Negative deltas are ignored.
func (c *Counter) UpdateDelta(dt time.Duration) int {
	if dt <= 0 {
		return c.value
	}
	c.elapsed += dt
	steps := c.elapsed / c.interval
	if steps > 0 {
		c.elapsed -= steps * c.interval
		c.value = (c.value + int(steps%time.Duration(c.limit))) % c.limit
	}
	return c.value
}

// Value returns the current counter value.
func (c *Counter) Value() int { return c.value }

// Limit returns the number of distinct counter values.
func (c *Counter) Limit() int { return c.limit }

// Interval returns the time between increments.
func (c *Counter) Interval() time.Duration { return c.interval }

// Reset rewinds the counter to its start value.
func (c *Counter) Reset() {
	c.value = c.start
	c.elapsed = 0
}
