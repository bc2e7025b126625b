//go:build linux

package environment

import (
	"golang.org/x/sys/unix"
)

// maxPriority is sched_get_priority_max(SCHED_FIFO), which x/sys does not
// wrap.
func maxPriority() (int, error) {
	r, _, errno := unix.RawSyscall(unix.SYS_SCHED_GET_PRIORITY_MAX, unix.SCHED_FIFO, 0, 0)
	if errno != 0 {
		return 0, errno
	}
	return int(r), nil
}

// setFIFO applies SCHED_FIFO to the calling thread.
func setFIFO(priority int) (int, error) {
	if priority == 0 {
		p, err := maxPriority()
		if err != nil {
			return 0, err
		}
		priority = p
	}
	attr := unix.SchedAttr{
		Policy:   unix.SCHED_FIFO,
		Priority: uint32(priority),
	}
	if err := unix.SchedSetAttr(0, &attr, 0); err != nil {
		return 0, err
	}
	return priority, nil
}

func lockAll() error {
	return unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE)
}
