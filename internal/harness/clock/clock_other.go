//go:build !linux

package clock

import "time"

var clocks = map[string]int32{
	"monotonic": 1,
}

// Monotonic is CLOCK_MONOTONIC.
var Monotonic = Source{id: 1, name: "monotonic"}

// Now reads the clock in nanoseconds.
func (s Source) Now() (int64, error) {
	return 0, ErrUnsupported
}

// Resolution reports clock_getres for the clock.
func (s Source) Resolution() (time.Duration, error) {
	return 0, ErrUnsupported
}
