package catalog

import "time"

// SetClock replaces the coordinator clock in tests.
func SetClock(c *Coordinator, now func() time.Time) {
	c.now = now
}
