// Package launcher implements the core of nsrun: the declarative mount
// and device model, the Config/Builder that assemble it, and (on Linux,
// see the _linux.go files) the namespace bring-up and root pivot
// sequence and the parent-side supervisor that drives it.
package launcher

import (
	"os"

	"github.com/nsrun/nsrun/internal/pkg/nsrunerr"
)

// Config is the exclusive owner of one container's mount list and device
// list: the rootfs spec, the program to run, its argument vector, and the
// ordered extra mounts and devices a Builder assembled. Ordering of
// Mounts is semantically significant — it is applied in declaration
// order by Setup.
type Config struct {
	Rootfs  MountSpec
	Command string
	Args    []string
	Mounts  []MountSpec
	Devices []DeviceNode

	// StackSize is the size in bytes of the parent-owned buffer handed
	// to the child at spawn time; it has no bearing on validation.
	StackSize int
}

// Validate checks the three preconditions Run cannot proceed without:
// a rootfs directory that exists, and a non-empty command. Extra mounts
// and devices are not pre-validated here; their errors surface inside
// the child once it attempts to realise them.
func (c *Config) Validate() error {
	if c.Rootfs.Source == "" {
		return nsrunerr.MissingRequiredConfiguration("rootfs")
	}
	info, err := os.Stat(c.Rootfs.Source)
	if err != nil {
		if os.IsNotExist(err) {
			return nsrunerr.InvalidConfiguration("rootfs does not exist or is not a directory: %s", c.Rootfs.Source)
		}
		return nsrunerr.NewIOError(c.Rootfs.Source, err)
	}
	if !info.IsDir() {
		return nsrunerr.InvalidConfiguration("rootfs does not exist or is not a directory: %s", c.Rootfs.Source)
	}
	if c.Command == "" {
		return nsrunerr.MissingRequiredConfiguration("command")
	}
	return nil
}
