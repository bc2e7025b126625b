//go:build linux

package experiment

import (
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/wesleyorama2/rtbench/internal/harness/clock"
)

const (
	sigevSize   = 64
	sigevSignal = 0
)

// sigevent mirrors the kernel's struct sigevent for SIGEV_SIGNAL.
type sigevent struct {
	value  uintptr
	signo  int32
	notify int32
	_      [sigevSize - unsafe.Sizeof(uintptr(0)) - 8]byte
}

// posixTimer is a kernel interval timer created with timer_create(2).
type posixTimer struct {
	id int32
}

// timerClockID maps the stamping clock to one timer_create accepts.
// CLOCK_MONOTONIC_RAW cannot drive timers, so it falls back to
// CLOCK_MONOTONIC; stamps are still read from the raw clock.
func timerClockID(src clock.Source) int32 {
	if src.ID() == unix.CLOCK_MONOTONIC_RAW {
		return unix.CLOCK_MONOTONIC
	}
	return src.ID()
}

func createTimer(src clock.Source, sig syscall.Signal) (*posixTimer, error) {
	ev := sigevent{signo: int32(sig), notify: sigevSignal}
	t := &posixTimer{}
	_, _, errno := unix.Syscall(unix.SYS_TIMER_CREATE,
		uintptr(timerClockID(src)),
		uintptr(unsafe.Pointer(&ev)),
		uintptr(unsafe.Pointer(&t.id)))
	if errno != 0 {
		return nil, errno
	}
	return t, nil
}

// Arm starts the timer with the first expiry and the interval both set
// to period.
func (t *posixTimer) Arm(period time.Duration) error {
	ts := unix.NsecToTimespec(period.Nanoseconds())
	spec := unix.ItimerSpec{Interval: ts, Value: ts}
	_, _, errno := unix.Syscall6(unix.SYS_TIMER_SETTIME,
		uintptr(t.id), 0, uintptr(unsafe.Pointer(&spec)), 0, 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

// Delete disarms and releases the timer. Pending expiry signals are
// discarded by the kernel.
func (t *posixTimer) Delete() error {
	_, _, errno := unix.Syscall(unix.SYS_TIMER_DELETE, uintptr(t.id), 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}
