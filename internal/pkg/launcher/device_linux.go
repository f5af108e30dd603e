package launcher

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/nsrun/nsrun/internal/pkg/nsrunerr"
)

// deviceMode is the fixed mode every character device node is created
// with.
const deviceMode = 0o666

// DeviceNode declaratively describes one character device under /dev: a
// leaf path relative to /dev, and its major/minor pair.
type DeviceNode struct {
	Name  string
	Major uint32
	Minor uint32
}

// DefaultDevices is the canonical six, bit-exact and order-exact.
func DefaultDevices() []DeviceNode {
	return []DeviceNode{
		{Name: "null", Major: 1, Minor: 3},
		{Name: "zero", Major: 1, Minor: 5},
		{Name: "full", Major: 1, Minor: 7},
		{Name: "tty", Major: 5, Minor: 0},
		{Name: "urandom", Major: 1, Minor: 9},
		{Name: "random", Major: 1, Minor: 8},
	}
}

// devSymlinks is the canonical set of /dev symlinks created after device
// nodes; targets resolve against the post-pivot /proc.
var devSymlinks = map[string]string{
	"fd":     "/proc/self/fd",
	"stdin":  "/proc/self/fd/0",
	"stdout": "/proc/self/fd/1",
	"stderr": "/proc/self/fd/2",
}

// Create makes this device node under <rootfs>/dev.
func (d DeviceNode) Create(rootfs string) error {
	path := filepath.Join(rootfs, "dev", d.Name)
	devID := int(unix.Mkdev(d.Major, d.Minor))
	if err := unix.Mknod(path, unix.S_IFCHR|deviceMode, devID); err != nil {
		return nsrunerr.SysCallFailed("mknod", err)
	}
	return nil
}

// CreateDevSymlinks creates the canonical fd/stdin/stdout/stderr symlinks
// under <rootfs>/dev.
func CreateDevSymlinks(rootfs string) error {
	for name, target := range devSymlinks {
		link := filepath.Join(rootfs, "dev", name)
		os.Remove(link)
		if err := unix.Symlink(target, link); err != nil {
			return nsrunerr.SysCallFailed("symlinkat", err)
		}
	}
	return nil
}
