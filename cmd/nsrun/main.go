// Command nsrun is the argument-parsing front-end: it accepts a rootfs
// directory, a program path inside it, and an argument vector, builds a
// launcher.Config, and drives a launcher.Container through
// Run/WaitForExit. It is an external collaborator of the core, not part
// of it.
package main

import (
	"os"

	"github.com/nsrun/nsrun/pkg/sylog"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		sylog.Errorf("%s", err)
		os.Exit(1)
	}
}
