package replay

import (
	"sync/atomic"
	"time"
)

// Speed maps a user-facing speed value in [min, max] onto an inter-step
// delay in milliseconds: higher speed, shorter delay. The value can be
// adjusted while a replay is running; the engine reads it once per step.
type Speed struct {
	min, max int64
	raw      atomic.Int64
}

func NewSpeed(min, max, initial int) *Speed {
	s := &Speed{min: int64(min), max: int64(max)}
	s.Set(initial)
	return s
}

// Set clamps v into [min, max] and stores it.
func (s *Speed) Set(v int) {
	val := int64(v)
	if val < s.min {
		val = s.min
	}
	if val > s.max {
		val = s.max
	}
	s.raw.Store(val)
}

func (s *Speed) Get() int { return int(s.raw.Load()) }

// Adjust shifts the speed by delta, clamped to the configured range.
func (s *Speed) Adjust(delta int) {
	s.Set(s.Get() + delta)
}

// Delay returns the inter-step delay for the current speed value.
func (s *Speed) Delay() time.Duration {
	return time.Duration(s.max-(s.raw.Load()-s.min)) * time.Millisecond
}
