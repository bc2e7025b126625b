// Package clock reads POSIX clocks by name.
package clock

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnsupported is returned on platforms without POSIX clocks.
var ErrUnsupported = errors.New("clock: unsupported on this platform")

// Source is a named POSIX clock.
type Source struct {
	id   int32
	name string
}

// Name returns the configuration name of the clock.
func (s Source) Name() string {
	return s.name
}

// ID returns the clockid_t value.
func (s Source) ID() int32 {
	return s.id
}

func (s Source) String() string {
	return s.name
}

// Parse looks up a clock by name. Names are case-insensitive and may carry
// a "CLOCK_" prefix.
func Parse(name string) (Source, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimPrefix(key, "clock_")
	if id, ok := clocks[key]; ok {
		return Source{id: id, name: key}, nil
	}
	return Source{}, fmt.Errorf("unknown clock %q (valid: %s)", name, strings.Join(Names(), ", "))
}

// Names lists the supported clock names.
func Names() []string {
	names := make([]string, 0, len(clocks))
	for n := range clocks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
