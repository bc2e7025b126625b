//go:build !linux

package experiment

import (
	"syscall"
	"time"

	"github.com/wesleyorama2/rtbench/internal/harness/clock"
)

type posixTimer struct{}

func createTimer(clock.Source, syscall.Signal) (*posixTimer, error) {
	return nil, ErrUnsupported
}

func (t *posixTimer) Arm(time.Duration) error {
	return ErrUnsupported
}

func (t *posixTimer) Delete() error {
	return nil
}
