// Package rlimit queries and sets process resource limits, named the
// way getrlimit(2)/setrlimit(2) name them ("RLIMIT_STACK",
// "RLIMIT_NOFILE", ...).
package rlimit

import (
	"fmt"

	"golang.org/x/sys/unix"
)

var limits = map[string]int{
	"RLIMIT_STACK":  unix.RLIMIT_STACK,
	"RLIMIT_NOFILE": unix.RLIMIT_NOFILE,
	"RLIMIT_NPROC":  unix.RLIMIT_NPROC,
}

// Get returns the current (soft) and max (hard) value of the named
// resource limit.
func Get(name string) (cur, max uint64, err error) {
	resource, ok := limits[name]
	if !ok {
		return 0, 0, fmt.Errorf("rlimit: unknown resource %s", name)
	}
	var rlim unix.Rlimit
	if err := unix.Getrlimit(resource, &rlim); err != nil {
		return 0, 0, fmt.Errorf("rlimit: getrlimit %s: %w", name, err)
	}
	return rlim.Cur, rlim.Max, nil
}

// Set applies cur/max to the named resource limit.
func Set(name string, cur, max uint64) error {
	resource, ok := limits[name]
	if !ok {
		return fmt.Errorf("rlimit: unknown resource %s", name)
	}
	rlim := unix.Rlimit{Cur: cur, Max: max}
	if err := unix.Setrlimit(resource, &rlim); err != nil {
		return fmt.Errorf("rlimit: setrlimit %s: %w", name, err)
	}
	return nil
}

// Infinite reports whether a limit value is the kernel's "unlimited"
// sentinel.
func Infinite(v uint64) bool {
	return v == unix.RLIM_INFINITY
}
