package launcher

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// setupExitCode is returned by the child when namespace setup fails
// before execve is ever attempted.
const setupExitCode = 1

// execFailedExitCode is returned when execve itself returns, i.e. the
// target program could not be launched.
const execFailedExitCode = 126

// ChildMain is the child's entry point, running after reexec into the
// new UTS/mount/PID namespaces, before the target program replaces this
// process image. It must never return a value to the kernel other than
// the process exit status: any failure terminates the child with a
// non-zero status, which is the only way the parent learns of an
// in-child failure (there is no out-of-band error channel).
func ChildMain(bootstrapFD int) {
	cfg, err := DecodeBootstrap(os.NewFile(uintptr(bootstrapFD), "nsrun-bootstrap"))
	if err != nil {
		printChildError(errors.Wrap(err, "decode bootstrap config"))
		os.Exit(setupExitCode)
	}

	if err := Setup(cfg); err != nil {
		printChildError(errors.Wrap(err, "namespace setup"))
		os.Exit(setupExitCode)
	}

	if err := ChdirRoot(); err != nil {
		printChildError(err)
		os.Exit(setupExitCode)
	}

	if err := Exec(cfg.Command, cfg.Args); err != nil {
		printChildError(errors.Wrapf(err, "exec %s", cfg.Command))
		os.Exit(execFailedExitCode)
	}
}

// printChildError reports a child-side failure to stderr. It is the only
// channel the parent has for diagnosing an in-child failure beyond the
// bare exit status, so the message includes whatever wrapping context
// errors.Wrap accumulated on the way up.
func printChildError(err error) {
	fmt.Fprintf(os.Stderr, "nsrun: child: %s\n", err)
}
