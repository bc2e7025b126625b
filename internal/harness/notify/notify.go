// Package notify turns asynchronous signal deliveries into a one-bit
// "event occurred" flag plus a timestamp.
//
// A Handler is the registration context for one signal. Its delivery
// goroutine reads the clock, stores the stamp and only then sets the flag;
// the measuring goroutine observes the flag and then reads the stamp.
// Go atomics are sequentially consistent, which gives the required
// release-on-set / acquire-on-observe ordering.
//
// The delivery goroutine needs a P of its own while the measuring goroutine
// spins, so Register raises GOMAXPROCS to at least two for the lifetime of
// the handler. On a single-CPU host the two threads still share one core
// and a SCHED_FIFO spinner only yields to real-time throttling.
package notify

import (
	"errors"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wesleyorama2/rtbench/internal/harness/clock"
	"github.com/wesleyorama2/rtbench/internal/logging"
)

// ErrWaitTimeout is returned when a bounded wait expires before the flag
// is set. Only tests bound their waits.
var ErrWaitTimeout = errors.New("notify: wait timed out")

// spinCheckEvery is how many flag checks pass between deadline checks.
const spinCheckEvery = 1 << 10

// MinProcs is the GOMAXPROCS floor held while a handler is registered.
const MinProcs = 2

var singleCPUWarning sync.Once

// Handler records deliveries of a single signal.
type Handler struct {
	clock clock.Source

	ch   chan os.Signal
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once

	// restoreProcs is the GOMAXPROCS value to put back on Stop, or 0.
	restoreProcs int

	fired      atomic.Bool
	stamp      atomic.Int64
	deliveries atomic.Int64
	clockErr   atomic.Pointer[error]
}

// Register installs a handler for sig that stamps each delivery with src.
func Register(sig os.Signal, src clock.Source) *Handler {
	h := &Handler{
		clock: src,
		ch:    make(chan os.Signal, 1),
		done:  make(chan struct{}),
	}
	h.restoreProcs = ensureProcs(MinProcs)
	signal.Notify(h.ch, sig)

	h.wg.Add(1)
	go h.deliver()
	return h
}

func (h *Handler) deliver() {
	defer h.wg.Done()

	for {
		select {
		case <-h.done:
			return
		case <-h.ch:
			now, err := h.clock.Now()
			if err != nil {
				h.clockErr.Store(&err)
			}
			h.stamp.Store(now)
			h.deliveries.Add(1)
			h.fired.Store(true)
		}
	}
}

// Fired reports whether a delivery has been observed since the last Take.
func (h *Handler) Fired() bool {
	return h.fired.Load()
}

// Deliveries is the total number of deliveries seen.
func (h *Handler) Deliveries() int64 {
	return h.deliveries.Load()
}

// Take returns the stamp of the latest delivery and clears the flag.
// Call it only after the flag was observed set.
func (h *Handler) Take() (int64, error) {
	if p := h.clockErr.Load(); p != nil {
		return 0, *p
	}
	ts := h.stamp.Load()
	h.fired.Store(false)
	return ts, nil
}

// Spin busy-waits for the flag without yielding. A positive timeout bounds
// the wait.
func (h *Handler) Spin(timeout time.Duration) error {
	if timeout <= 0 {
		for !h.fired.Load() {
		}
		return nil
	}

	deadline := time.Now().Add(timeout)
	for n := 0; !h.fired.Load(); n++ {
		if n%spinCheckEvery == 0 && time.Now().After(deadline) {
			return ErrWaitTimeout
		}
	}
	return nil
}

// Poll waits for the flag, calling pause between checks. A positive
// timeout bounds the wait.
func (h *Handler) Poll(pause func() error, timeout time.Duration) error {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for !h.fired.Load() {
		if err := pause(); err != nil {
			return err
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return ErrWaitTimeout
		}
	}
	return nil
}

// Stop unregisters the handler and waits for its goroutine to exit. No
// flag transition happens after Stop returns. Safe to call more than once.
func (h *Handler) Stop() {
	h.once.Do(func() {
		signal.Stop(h.ch)
		close(h.done)
		h.wg.Wait()
		if h.restoreProcs > 0 {
			runtime.GOMAXPROCS(h.restoreProcs)
		}
	})
}

// ensureProcs raises GOMAXPROCS to n and returns the previous value, or 0
// when no change was needed.
func ensureProcs(n int) int {
	if runtime.NumCPU() == 1 {
		singleCPUWarning.Do(func() {
			logging.Warn("single CPU: signal deliveries share the core with the measuring thread")
		})
	}
	prev := runtime.GOMAXPROCS(0)
	if prev >= n {
		return 0
	}
	runtime.GOMAXPROCS(n)
	logging.Debugf("GOMAXPROCS raised from %d to %d", prev, n)
	return prev
}
