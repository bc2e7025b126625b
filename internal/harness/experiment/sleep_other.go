//go:build !linux

package experiment

import "time"

func nanosleep(time.Duration) error {
	return ErrUnsupported
}

func usleep(time.Duration) error {
	return ErrUnsupported
}
