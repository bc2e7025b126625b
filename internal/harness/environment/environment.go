// Package environment prepares the process for real-time measurement.
//
// Preparation is a single precondition step: elevate the calling thread to
// SCHED_FIFO and lock all current and future pages resident. Either failure
// makes every later sample meaningless, so Prepare never degrades; it
// reports which operation failed and the caller stops.
package environment

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/wesleyorama2/rtbench/internal/logging"
)

// Operation names reported in a failed Result.
const (
	OpSetScheduler = "sched_setscheduler"
	OpLockMemory   = "mlockall"
)

// ErrUnsupported is returned on platforms without real-time scheduling.
var ErrUnsupported = errors.New("environment: unsupported on this platform")

// Result is the outcome of the precondition step.
type Result struct {
	// Op is the operation that failed. Empty on success.
	Op string

	// Cause is the OS error behind the failure.
	Cause error

	// Priority is the SCHED_FIFO priority applied on success.
	Priority int
}

// OK reports whether every precondition held.
func (r Result) OK() bool {
	return r.Cause == nil
}

// Err returns nil on success, or an error naming the failed operation.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%s: %w", r.Op, r.Cause)
}

func failed(op string, err error) Result {
	return Result{Op: op, Cause: err}
}

// Configurator applies the real-time preconditions.
type Configurator struct {
	// Priority is the requested SCHED_FIFO priority. Zero selects the
	// maximum the host allows.
	Priority int

	setScheduler func(priority int) (int, error)
	lockMemory   func() error
}

// NewConfigurator returns a Configurator backed by the host OS.
func NewConfigurator(priority int) *Configurator {
	return &Configurator{
		Priority:     priority,
		setScheduler: setFIFO,
		lockMemory:   lockAll,
	}
}

// Prepare locks the calling goroutine to its OS thread, switches that
// thread to SCHED_FIFO and locks process memory. The scheduling class is
// per thread, so measurements must run on the goroutine that called
// Prepare; it stays locked even when Prepare fails.
func (c *Configurator) Prepare() Result {
	runtime.LockOSThread()

	prio, err := c.setScheduler(c.Priority)
	if err != nil {
		return failed(OpSetScheduler, err)
	}
	logging.Debugf("scheduling policy SCHED_FIFO, priority %d", prio)

	if err := c.lockMemory(); err != nil {
		return failed(OpLockMemory, err)
	}
	logging.Debug("memory locked (MCL_CURRENT|MCL_FUTURE)")

	return Result{Priority: prio}
}
