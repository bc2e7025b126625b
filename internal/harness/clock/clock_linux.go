//go:build linux

package clock

import (
	"time"

	"golang.org/x/sys/unix"
)

var clocks = map[string]int32{
	"monotonic":     unix.CLOCK_MONOTONIC,
	"monotonic_raw": unix.CLOCK_MONOTONIC_RAW,
	"realtime":      unix.CLOCK_REALTIME,
	"boottime":      unix.CLOCK_BOOTTIME,
}

// Monotonic is CLOCK_MONOTONIC.
var Monotonic = Source{id: unix.CLOCK_MONOTONIC, name: "monotonic"}

// Now reads the clock in nanoseconds.
func (s Source) Now() (int64, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(s.id, &ts); err != nil {
		return 0, err
	}
	return ts.Nano(), nil
}

// Resolution reports clock_getres for the clock.
func (s Source) Resolution() (time.Duration, error) {
	var ts unix.Timespec
	if err := unix.ClockGetres(s.id, &ts); err != nil {
		return 0, err
	}
	return time.Duration(ts.Nano()), nil
}
