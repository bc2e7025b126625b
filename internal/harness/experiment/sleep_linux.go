//go:build linux

package experiment

import (
	"time"

	"golang.org/x/sys/unix"
)

// nanosleep sleeps for d, resuming with the remaining time when a signal
// interrupts the call.
func nanosleep(d time.Duration) error {
	req := unix.NsecToTimespec(d.Nanoseconds())
	for {
		var rem unix.Timespec
		err := unix.Nanosleep(&req, &rem)
		if err != unix.EINTR {
			return err
		}
		req = rem
	}
}

// usleep sleeps for d in whole microseconds, as usleep(3) does on top of
// nanosleep(2).
func usleep(d time.Duration) error {
	return nanosleep(d.Truncate(time.Microsecond))
}
