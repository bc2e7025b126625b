//go:build !linux

package harness

import (
	"os"
	"runtime"
)

func hostInfo() (host, kernel string) {
	host, _ = os.Hostname()
	return host, runtime.GOOS
}
