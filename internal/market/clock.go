package market

import (
	"sync/atomic"
	"time"
)

// Clock derives the market session state from the wall clock and an
// operator-controlled override. The session is open during [OpenHour,
// CloseHour) local time, or whenever the override is active. Toggling the
// override takes effect on the very next IsOpen call, not on the next
// scheduled evaluation.
type Clock struct {
	openHour  int
	closeHour int
	override  atomic.Bool
	now       func() time.Time
}

// NewClock creates a session clock for the given trading hours.
func NewClock(openHour, closeHour int) *Clock {
	return &Clock{
		openHour:  openHour,
		closeHour: closeHour,
		now:       time.Now,
	}
}

// IsOpen reports whether the market session is currently open.
func (c *Clock) IsOpen() bool {
	h := c.now().Hour()
	return (h >= c.openHour && h < c.closeHour) || c.override.Load()
}

// Override reports whether the operator override is active.
func (c *Clock) Override() bool {
	return c.override.Load()
}

// SetOverride toggles the operator override and returns the resulting
// session state immediately.
func (c *Clock) SetOverride(on bool) bool {
	c.override.Store(on)
	return c.IsOpen()
}
