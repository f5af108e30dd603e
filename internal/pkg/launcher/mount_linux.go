package launcher

import (
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/nsrun/nsrun/internal/pkg/nsrunerr"
)

// MountFlag is a mount(2) flag set (bind, recursive, private, slave, ...).
type MountFlag uintptr

// Flags used by the canonical mount set and by callers building their own.
const (
	FlagBind      MountFlag = MountFlag(unix.MS_BIND)
	FlagRec       MountFlag = MountFlag(unix.MS_REC)
	FlagPrivate   MountFlag = MountFlag(unix.MS_PRIVATE)
	FlagSlave     MountFlag = MountFlag(unix.MS_SLAVE)
	FlagRemount   MountFlag = MountFlag(unix.MS_REMOUNT)
	FlagReadonly  MountFlag = MountFlag(unix.MS_RDONLY)
	FlagNoSuid    MountFlag = MountFlag(unix.MS_NOSUID)
	FlagNoDev     MountFlag = MountFlag(unix.MS_NODEV)
	FlagNoExec    MountFlag = MountFlag(unix.MS_NOEXEC)
)

// Has reports whether f contains every bit of other.
func (f MountFlag) Has(other MountFlag) bool { return f&other == other }

// MountSpec declaratively describes one mount: an optional host source, a
// target interpreted relative to the realised rootfs, an optional
// filesystem type, a flag set, and an optional data string. A bind or
// rootfs spec has a Source; a virtual-filesystem spec (procfs, tmpfs)
// does not.
type MountSpec struct {
	Source         string
	RelativeTarget string
	FSType         string
	Flags          MountFlag
	Data           string
}

// RootfsMount builds the rootfs MountSpec: bind + private, empty target.
func RootfsMount(hostPath string) MountSpec {
	return MountSpec{
		Source: hostPath,
		Flags:  FlagBind | FlagPrivate,
	}
}

// BindMount builds a bind-mount MountSpec. flags defaults to bind+private
// when zero, matching the Builder.AddMount default.
func BindMount(hostPath, relativeTarget string, flags MountFlag) MountSpec {
	if flags == 0 {
		flags = FlagBind | FlagPrivate
	}
	return MountSpec{
		Source:         hostPath,
		RelativeTarget: relativeTarget,
		Flags:          flags,
	}
}

// ProcMount builds the procfs MountSpec for the given target.
func ProcMount(relativeTarget string) MountSpec {
	return MountSpec{RelativeTarget: relativeTarget, FSType: "proc"}
}

// TmpfsMount builds a tmpfs MountSpec for the given target.
func TmpfsMount(relativeTarget string) MountSpec {
	return MountSpec{RelativeTarget: relativeTarget, FSType: "tmpfs"}
}

// IsVirtual reports whether this spec describes a virtual filesystem
// (no host source).
func (m MountSpec) IsVirtual() bool {
	return m.Source == ""
}

// Validate enforces the bind/virtual source invariant: a bind or rootfs
// spec (has an FSType of "" and is meant to carry real content) must have
// a Source; a virtual-fs spec (proc, tmpfs) does not require one.
func (m MountSpec) Validate() error {
	if m.FSType == "" && m.Source == "" {
		return nsrunerr.InvalidConfiguration("bind mount at %q has no source", m.RelativeTarget)
	}
	return nil
}

// AbsoluteTarget computes rootfs ∪ RelativeTarget.
func (m MountSpec) AbsoluteTarget(rootfs string) string {
	if m.RelativeTarget == "" {
		return rootfs
	}
	return filepath.Join(rootfs, m.RelativeTarget)
}

// Realize performs the underlying mount(2) call for this spec against the
// given realised rootfs path.
func (m MountSpec) Realize(rootfs string) error {
	target := m.AbsoluteTarget(rootfs)

	var source string
	if !m.IsVirtual() {
		source = m.Source
	}

	if err := unix.Mount(source, target, m.FSType, uintptr(m.Flags), m.Data); err != nil {
		return nsrunerr.SysCallFailed("mount", err)
	}
	return nil
}
