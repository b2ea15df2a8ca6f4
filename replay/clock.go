// Package replay drives trace events through a cache model and accounts for
// hits, misses, and evictions.
package replay

// A Clock is a monotonically increasing logical time source. It orders cache
// accesses for recency comparison, independent of real time.
type Clock struct {
	now uint64
}

// NewClock creates a Clock starting at time 0.
func NewClock() *Clock {
	return new(Clock)
}

// Now returns the current logical time.
func (c *Clock) Now() uint64 {
	return c.now
}

// Tick returns the current logical time and advances the clock by one.
func (c *Clock) Tick() uint64 {
	now := c.now
	c.now++

	return now
}
