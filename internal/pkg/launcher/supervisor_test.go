package launcher

import (
	"testing"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"
)

func TestFreshContainerIsNotCreated(t *testing.T) {
	dir := fs.NewDir(t, "nsrun-test")
	defer dir.Remove()

	c := NewBuilder().Rootfs(dir.Path()).Command("/bin/true").Build()
	assert.Equal(t, c.State(), NotCreated)
	assert.Equal(t, c.PID(), 0)
}

func TestRunRejectsInvalidConfigWithoutTransitioning(t *testing.T) {
	// No rootfs set: Validate must fail before any clone/reexec is
	// attempted, so the state never leaves NotCreated.
	c := NewBuilder().Command("/bin/true").Build()
	err := c.Run()
	assert.ErrorContains(t, err, "rootfs")
	assert.Equal(t, c.State(), NotCreated)
}

func TestRunOnRunningContainerIsAlreadyRunning(t *testing.T) {
	dir := fs.NewDir(t, "nsrun-test")
	defer dir.Remove()

	c := NewBuilder().Rootfs(dir.Path()).Command("/bin/true").Build()
	c.state = Running // simulate a successful prior Run without requiring privilege
	err := c.Run()
	assert.Error(t, err, "container is already running")
}
