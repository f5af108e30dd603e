package launcher

import (
	"github.com/nsrun/nsrun/internal/pkg/config"
	"github.com/nsrun/nsrun/internal/pkg/rlimit"
)

// defaultStackSize is the compile-time fallback used when no explicit
// size was given and RLIMIT_STACK could not be queried or reports
// "unlimited".
const defaultStackSize = 8 * 1024 * 1024

// Builder fluently assembles a Config. Every method returns the Builder
// so calls chain: NewBuilder().Rootfs(r).Command(c, a).Build().
type Builder struct {
	cfg           Config
	stackOverride int
	stackSet      bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Rootfs sets the rootfs MountSpec.
func (b *Builder) Rootfs(path string) *Builder {
	b.cfg.Rootfs = RootfsMount(path)
	return b
}

// Command sets the program path and argument vector. A nil args means an
// empty vector.
func (b *Builder) Command(path string, args ...string) *Builder {
	b.cfg.Command = path
	b.cfg.Args = args
	return b
}

// StackSize overrides the auto-sized bootstrap buffer.
func (b *Builder) StackSize(bytes int) *Builder {
	b.stackOverride = bytes
	b.stackSet = true
	return b
}

// AddDefaultMounts appends, in order, procfs at "proc", tmpfs at "tmp",
// tmpfs at "dev". Order matters: dev must become a tmpfs before device
// nodes are created inside it.
func (b *Builder) AddDefaultMounts() *Builder {
	b.cfg.Mounts = append(b.cfg.Mounts,
		ProcMount("proc"),
		TmpfsMount("tmp"),
		TmpfsMount("dev"),
	)
	return b
}

// AddMount appends a default-flagged (bind+private) bind mount.
func (b *Builder) AddMount(source, relativeTarget string) *Builder {
	b.cfg.Mounts = append(b.cfg.Mounts, BindMount(source, relativeTarget, 0))
	return b
}

// AddDefaultDevices appends the canonical six devices.
func (b *Builder) AddDefaultDevices() *Builder {
	b.cfg.Devices = append(b.cfg.Devices, DefaultDevices()...)
	return b
}

// AddDevice appends one device node.
func (b *Builder) AddDevice(name string, major, minor uint32) *Builder {
	b.cfg.Devices = append(b.cfg.Devices, DeviceNode{Name: name, Major: major, Minor: minor})
	return b
}

// LoadDefaults appends the extra mounts and devices named in an
// operator-supplied launcher.toml. Call it before any explicit AddMount
// or AddDevice calls so those calls are applied after (and so win any
// target collision at realise time) the operator's defaults — the same
// "explicit beats configured beats compiled-in" precedence StackSize
// follows.
func (b *Builder) LoadDefaults(d *config.Defaults) *Builder {
	if d == nil {
		return b
	}
	for _, m := range d.Mounts {
		b.AddMount(m.Source, m.Target)
	}
	for _, dev := range d.Devices {
		b.AddDevice(dev.Name, dev.Major, dev.Minor)
	}
	return b
}

// resolveStackSize picks the bootstrap buffer size: an explicit override
// wins; otherwise a finite RLIMIT_STACK soft limit; otherwise (rlimit
// "unlimited" or query error) the compile-time default.
func resolveStackSize(override int, overrideSet bool) int {
	if overrideSet {
		return override
	}
	soft, _, err := rlimit.Get("RLIMIT_STACK")
	if err != nil {
		return defaultStackSize
	}
	if rlimit.Infinite(soft) {
		return defaultStackSize
	}
	return int(soft)
}

// Build resolves the bootstrap buffer size into the Config and returns a
// Container in NotCreated state. It does not allocate the buffer; Run
// does, when it encodes the Config.
func (b *Builder) Build() *Container {
	b.cfg.StackSize = resolveStackSize(b.stackOverride, b.stackSet)
	return newContainer(b.cfg)
}
