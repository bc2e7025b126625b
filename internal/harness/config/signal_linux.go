//go:build linux

package config

import (
	"fmt"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

// Real-time signal range as seen by programs linked against glibc: the
// first two kernel real-time signals are reserved by the threading library.
const (
	SigRTMin = 34
	SigRTMax = 64
)

// The Go runtime keeps signals 32-34 for libc internals and never delivers
// them to os/signal, so a timer armed with one of them kills the process.
const (
	firstRuntimeReserved = 32
	lastRuntimeReserved  = 34
)

// notifyUnsafe are signals that cannot carry a measurement: SIGURG is sent
// by the runtime for goroutine preemption, and SIGINT/SIGTERM cancel the run.
var notifyUnsafe = map[syscall.Signal]string{
	unix.SIGURG:  "is used by the Go runtime for preemption",
	unix.SIGINT:  "stops the run",
	unix.SIGTERM: "stops the run",
}

// ParseSignal resolves "SIGUSR1", "USR1", "10", "SIGRTMIN" or "SIGRTMIN+2".
func ParseSignal(s string) (syscall.Signal, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "" {
		return 0, fmt.Errorf("empty signal")
	}
	if n, err := strconv.Atoi(name); err == nil {
		return checkSignal(s, n)
	}
	if !strings.HasPrefix(name, "SIG") {
		name = "SIG" + name
	}
	for _, base := range []struct {
		prefix string
		value  int
	}{{"SIGRTMIN", SigRTMin}, {"SIGRTMAX", SigRTMax}} {
		if !strings.HasPrefix(name, base.prefix) {
			continue
		}
		rest := strings.TrimPrefix(name, base.prefix)
		if rest == "" {
			return checkSignal(s, base.value)
		}
		off, err := strconv.Atoi(rest)
		if err != nil {
			return 0, fmt.Errorf("invalid real-time signal %q", s)
		}
		return checkSignal(s, base.value+off)
	}
	sig := unix.SignalNum(name)
	if sig == 0 {
		return 0, fmt.Errorf("unknown signal %q", s)
	}
	return checkSignal(s, int(sig))
}

func checkSignal(raw string, n int) (syscall.Signal, error) {
	if n < 1 || n > SigRTMax {
		return 0, fmt.Errorf("signal %q out of range 1-%d", raw, SigRTMax)
	}
	sig := syscall.Signal(n)
	switch sig {
	case unix.SIGKILL, unix.SIGSTOP:
		return 0, fmt.Errorf("signal %q cannot be caught", raw)
	}
	if n >= firstRuntimeReserved && n <= lastRuntimeReserved {
		return 0, fmt.Errorf("signal %q is reserved by the runtime (use SIGRTMIN+1 or above)", raw)
	}
	if why, ok := notifyUnsafe[sig]; ok {
		return 0, fmt.Errorf("signal %q %s", raw, why)
	}
	return sig, nil
}
