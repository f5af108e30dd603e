package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/nsrun/nsrun/internal/pkg/nsrunerr"
	"github.com/nsrun/nsrun/pkg/sylog"
)

// State is a Container's lifecycle state.
type State int

const (
	NotCreated State = iota
	Running
	Exited
)

func (s State) String() string {
	switch s {
	case NotCreated:
		return "NotCreated"
	case Running:
		return "Running"
	case Exited:
		return "Exited"
	default:
		return "Unknown"
	}
}

// childReexecArg is the hidden cobra subcommand name the parent spawns
// itself as (see cmd/nsrun); it is duplicated here as a plain string so
// the launcher package has no import-time dependency on cmd/nsrun.
const childReexecArg = "__child"

// bootstrapFDEnv names the environment variable carrying the child's
// bootstrap pipe file descriptor number.
const bootstrapFDEnv = "NSRUN_CONFIG_FD"

// Container exclusively owns its Config and its child PID while the
// child lives. It does not hold the bootstrap buffer: Run encodes the
// Config into a local buffer and drops it once written to the pipe.
// A fresh Container is NotCreated;
// Run transitions it to Running; WaitForExit transitions it to Exited.
type Container struct {
	id    uuid.UUID
	cfg   Config
	state State
	cmd   *exec.Cmd
	pid   int
}

func newContainer(cfg Config) *Container {
	return &Container{cfg: cfg, state: NotCreated, id: uuid.New()}
}

// State returns the container's current lifecycle state.
func (c *Container) State() State { return c.state }

// PID returns the child's PID while Running, or 0 otherwise.
func (c *Container) PID() int { return c.pid }

// Run validates the configuration and spawns the child into new
// UTS/mount/PID namespaces.
//
// Run does not synchronise with the child's namespace setup completing:
// by the time Run returns the child has only been scheduled, not
// necessarily finished pivoting its root. WaitForExit is the sole
// synchronisation edge between parent and child.
func (c *Container) Run() error {
	if c.state == Running {
		return nsrunerr.ErrAlreadyRunning
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	data, err := EncodeBootstrap(c.cfg)
	if err != nil {
		return nsrunerr.NewNamespaceError("encode bootstrap config: %s", err)
	}

	r, w, err := os.Pipe()
	if err != nil {
		return nsrunerr.SysCallFailed("pipe", err)
	}
	defer r.Close()

	exe, err := os.Executable()
	if err != nil {
		return nsrunerr.SysCallFailed("os.Executable", err)
	}

	cmd := exec.Command(exe, childReexecArg)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{r}
	const bootstrapFD = 3 // stdin=0, stdout=1, stderr=2, then ExtraFiles start at 3
	cmd.Env = append(os.Environ(), fmt.Sprintf("%s=%d", bootstrapFDEnv, bootstrapFD))
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Cloneflags: syscall.CLONE_NEWUTS | syscall.CLONE_NEWNS | syscall.CLONE_NEWPID,
		Pdeathsig:  syscall.SIGKILL,
	}

	if err := startWithRetry(cmd); err != nil {
		return nsrunerr.SysCallFailed("clone", err)
	}

	if err := r.Close(); err != nil {
		sylog.Debugf("nsrun: closing parent end of bootstrap pipe: %s", err)
	}
	if _, err := w.Write(data); err != nil {
		sylog.Warningf("nsrun: writing bootstrap config to child: %s", err)
	}
	if err := w.Close(); err != nil {
		sylog.Debugf("nsrun: closing bootstrap pipe write end: %s", err)
	}

	c.cmd = cmd
	c.pid = cmd.Process.Pid
	c.state = Running
	sylog.Infof("container %s running as pid %d", c.id, c.pid)

	return nil
}

// startWithRetry retries cmd.Start a bounded number of times when the
// clone/fork primitive fails transiently with EAGAIN, e.g. a momentary
// pid-limit or fork-rate cap.
func startWithRetry(cmd *exec.Cmd) error {
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2)
	return backoff.Retry(func() error {
		err := cmd.Start()
		if err == nil {
			return nil
		}
		if errors.Is(err, syscall.EAGAIN) {
			return err
		}
		return backoff.Permanent(err)
	}, b)
}

// WaitForExit blocks until the child's terminal status is delivered,
// logs it, clears the recorded PID, and transitions to Exited. A wait
// error (e.g. the child was already reaped elsewhere) is logged, never
// panicked on.
func (c *Container) WaitForExit() {
	start := time.Now()
	err := c.cmd.Wait()
	elapsed := time.Since(start)

	switch {
	case err == nil:
		sylog.Infof("container %s exited 0 (%s)", c.id, elapsed)
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logExitError(c.id, exitErr)
		} else {
			sylog.Warningf("container %s: wait: %s", c.id, err)
		}
	}

	c.pid = 0
	c.state = Exited
}

func logExitError(id uuid.UUID, exitErr *exec.ExitError) {
	ws, ok := exitErr.Sys().(syscall.WaitStatus)
	if !ok {
		sylog.Warningf("container %s: %s", id, exitErr)
		return
	}
	switch {
	case ws.Exited():
		sylog.Infof("container %s exited %d", id, ws.ExitStatus())
	case ws.Signaled():
		sylog.Warningf("container %s terminated by signal %s", id, ws.Signal())
	case ws.Stopped():
		sylog.Warningf("container %s stopped by signal %s", id, ws.StopSignal())
	default:
		sylog.Warningf("container %s: unexpected wait status %v", id, ws)
	}
}
