//go:build !linux

package experiment

import "syscall"

func raiseSelf(syscall.Signal) error {
	return ErrUnsupported
}
