//go:build !linux

package environment

func setFIFO(int) (int, error) {
	return 0, ErrUnsupported
}

func lockAll() error {
	return ErrUnsupported
}
