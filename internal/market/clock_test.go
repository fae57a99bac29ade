package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clockAtHour(hour int) *Clock {
	c := NewClock(9, 15)
	c.now = func() time.Time {
		return time.Date(2024, 6, 3, hour, 30, 0, 0, time.Local)
	}
	return c
}

func TestSessionHours(t *testing.T) {
	testCases := []struct {
		name string
		h    int
		open bool
	}{
		{"before open", 8, false},
		{"at open", 9, true},
		{"mid session", 12, true},
		{"last open hour", 14, true},
		{"at close", 15, false},
		{"evening", 20, false},
		{"midnight", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.open, clockAtHour(tc.h).IsOpen())
		})
	}
}

func TestOverrideTakesEffectImmediately(t *testing.T) {
	c := clockAtHour(20)
	assert.False(t, c.IsOpen())

	// SetOverride returns the new state without waiting for a scheduled
	// evaluation.
	assert.True(t, c.SetOverride(true))
	assert.True(t, c.IsOpen())
	assert.True(t, c.Override())

	assert.False(t, c.SetOverride(false))
	assert.False(t, c.IsOpen())
}

func TestOverrideDuringOpenHoursIsHarmless(t *testing.T) {
	c := clockAtHour(10)
	assert.True(t, c.IsOpen())
	assert.True(t, c.SetOverride(true))
	assert.True(t, c.SetOverride(false))
	assert.True(t, c.IsOpen())
}
