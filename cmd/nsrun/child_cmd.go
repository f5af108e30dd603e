package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nsrun/nsrun/internal/pkg/launcher"
)

// newChildCmd builds the hidden "__child" reexec target: Container.Run
// spawns "nsrun __child" as the clone-equivalent's entry point. It is
// undocumented in --help since it is not a user-facing entry point.
func newChildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "__child",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fdStr := os.Getenv("NSRUN_CONFIG_FD")
			fd, err := strconv.Atoi(fdStr)
			if err != nil {
				return fmt.Errorf("NSRUN_CONFIG_FD: %w", err)
			}
			launcher.ChildMain(fd)
			return nil
		},
	}
	return cmd
}
