//go:build linux && privileged_test

// These scenarios require real CLONE_NEWUTS|CLONE_NEWNS|CLONE_NEWPID
// privilege (CAP_SYS_ADMIN) and a throwaway rootfs, so they are gated
// behind the privileged_test build tag rather than running as part of
// the ordinary unit test suite.
package launcher

import (
	"os"
	"strconv"
	"testing"

	"gotest.tools/v3/assert"
)

// TestMain lets this test binary act as the reexec target: Container.Run
// spawns os.Executable() with childReexecArg, which under go test is this
// binary rather than cmd/nsrun.
func TestMain(m *testing.M) {
	if len(os.Args) > 1 && os.Args[1] == childReexecArg {
		fd, err := strconv.Atoi(os.Getenv(bootstrapFDEnv))
		if err != nil {
			os.Exit(setupExitCode)
		}
		ChildMain(fd)
		os.Exit(setupExitCode)
	}
	os.Exit(m.Run())
}

func requireRoot(t *testing.T) {
	t.Helper()
	if os.Getuid() != 0 {
		t.Skip("privileged_test requires root")
	}
}

// busyboxRootfs is expected to point at a minimal statically-linked
// busybox tree (symlink farm over /bin/busybox) for E1/E4/E5.
func busyboxRootfs(t *testing.T) string {
	t.Helper()
	path := os.Getenv("NSRUN_TEST_ROOTFS")
	if path == "" {
		t.Skip("set NSRUN_TEST_ROOTFS to a busybox rootfs to run this scenario")
	}
	return path
}

// E1: clean exit of /bin/true.
func TestE2EBusyboxTrueExitsZero(t *testing.T) {
	requireRoot(t)
	rootfs := busyboxRootfs(t)

	c := NewBuilder().
		Rootfs(rootfs).
		Command("/bin/true").
		AddDefaultMounts().
		AddDefaultDevices().
		Build()

	assert.NilError(t, c.Run())
	c.WaitForExit()
	assert.Equal(t, c.State(), Exited)
	assert.Equal(t, c.cmd.ProcessState.ExitCode(), 0)
}

// E2: rootfs absent.
func TestE2EMissingRootfs(t *testing.T) {
	requireRoot(t)

	c := NewBuilder().Command("/bin/true").Build()
	err := c.Run()
	assert.ErrorContains(t, err, "rootfs")
}

// E3: rootfs points at a nonexistent directory.
func TestE2ENonexistentRootfs(t *testing.T) {
	requireRoot(t)

	c := NewBuilder().
		Rootfs("/tmp/nonexistent-xyz").
		Command("/bin/true").
		Build()
	err := c.Run()
	assert.ErrorContains(t, err, "does not exist or is not a directory")
}

// E4: command does not exist inside the rootfs; child exits 126.
func TestE2ENonexistentCommandExits126(t *testing.T) {
	requireRoot(t)
	rootfs := busyboxRootfs(t)

	c := NewBuilder().
		Rootfs(rootfs).
		Command("/bin/nonexistent").
		AddDefaultMounts().
		AddDefaultDevices().
		Build()

	assert.NilError(t, c.Run())
	c.WaitForExit()
	assert.Equal(t, c.State(), Exited)
	assert.Equal(t, c.cmd.ProcessState.ExitCode(), execFailedExitCode)
}

// E5: device nodes and /dev symlinks were created.
func TestE2EDeviceNodesAndSymlinksExist(t *testing.T) {
	requireRoot(t)
	rootfs := busyboxRootfs(t)

	script := "test -c /dev/null && test -c /dev/urandom && test -L /dev/stdin"
	c := NewBuilder().
		Rootfs(rootfs).
		Command("/bin/sh", "-c", script).
		AddDefaultMounts().
		AddDefaultDevices().
		Build()

	assert.NilError(t, c.Run())
	c.WaitForExit()
	assert.Equal(t, c.cmd.ProcessState.ExitCode(), 0)
}

// E6: back-to-back Run without an intervening WaitForExit.
func TestE2ERerunWithoutWaitIsAlreadyRunning(t *testing.T) {
	requireRoot(t)
	rootfs := busyboxRootfs(t)

	c := NewBuilder().
		Rootfs(rootfs).
		Command("/bin/sh", "-c", "sleep 1").
		AddDefaultMounts().
		AddDefaultDevices().
		Build()

	assert.NilError(t, c.Run())
	defer c.WaitForExit()

	err := c.Run()
	assert.Error(t, err, "container is already running")
}
