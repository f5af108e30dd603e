package launcher

import (
	"testing"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"

	"github.com/nsrun/nsrun/internal/pkg/rlimit"
)

func TestDefaultMountOrder(t *testing.T) {
	b := NewBuilder().AddDefaultMounts()
	want := []MountSpec{
		ProcMount("proc"),
		TmpfsMount("tmp"),
		TmpfsMount("dev"),
	}
	assert.DeepEqual(t, b.cfg.Mounts, want)
}

func TestAddMountAppendsAfterDefaults(t *testing.T) {
	b := NewBuilder().AddDefaultMounts().AddMount("/host/code", "code")
	assert.Equal(t, len(b.cfg.Mounts), 4)
	assert.Equal(t, b.cfg.Mounts[3].RelativeTarget, "code")
}

func TestDefaultDeviceOrder(t *testing.T) {
	b := NewBuilder().AddDefaultDevices()
	assert.DeepEqual(t, b.cfg.Devices, DefaultDevices())
}

func TestStackSizeExplicitOverrideWins(t *testing.T) {
	dir := fs.NewDir(t, "nsrun-test")
	defer dir.Remove()

	c := NewBuilder().Rootfs(dir.Path()).Command("/bin/true").StackSize(4096).Build()
	assert.Equal(t, c.cfg.StackSize, 4096)
}

func TestStackSizeDefaultsToRlimitWhenFinite(t *testing.T) {
	soft, hard, err := rlimit.Get("RLIMIT_STACK")
	assert.NilError(t, err)
	if rlimit.Infinite(soft) {
		t.Skip("RLIMIT_STACK is unlimited in this test environment")
	}

	dir := fs.NewDir(t, "nsrun-test")
	defer dir.Remove()

	c := NewBuilder().Rootfs(dir.Path()).Command("/bin/true").Build()
	assert.Equal(t, c.cfg.StackSize, int(soft))

	_ = hard
}

func TestStackSizeFallsBackToDefaultWhenUnlimited(t *testing.T) {
	size := resolveStackSize(0, false)
	if !rlimit.Infinite(mustSoftStackLimit(t)) {
		t.Skip("RLIMIT_STACK is finite in this test environment")
	}
	assert.Equal(t, size, defaultStackSize)
}

func mustSoftStackLimit(t *testing.T) uint64 {
	t.Helper()
	soft, _, err := rlimit.Get("RLIMIT_STACK")
	assert.NilError(t, err)
	return soft
}
