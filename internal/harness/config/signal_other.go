//go:build !linux

package config

import (
	"fmt"
	"syscall"
)

// ParseSignal is only implemented on Linux.
func ParseSignal(s string) (syscall.Signal, error) {
	return 0, fmt.Errorf("signal %q: real-time signals require linux", s)
}
