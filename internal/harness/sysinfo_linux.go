//go:build linux

package harness

import (
	"os"

	"golang.org/x/sys/unix"
)

func hostInfo() (host, kernel string) {
	host, _ = os.Hostname()
	var u unix.Utsname
	if err := unix.Uname(&u); err == nil {
		kernel = unix.ByteSliceToString(u.Sysname[:]) + " " + unix.ByteSliceToString(u.Release[:])
	}
	return host, kernel
}
