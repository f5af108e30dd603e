package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	nsconfig "github.com/nsrun/nsrun/internal/pkg/config"
	"github.com/nsrun/nsrun/internal/pkg/launcher"
)

type runFlags struct {
	stackSize  int
	mounts     []string
	devices    []string
	configPath string
}

func newRunCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run <rootfs> <command> [args...]",
		Short: "launch <command> as pid 1 inside <rootfs> in a new namespace set",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(flags, args)
		},
	}

	cmd.Flags().IntVar(&flags.stackSize, "stack-size", 0, "override the auto-sized bootstrap buffer, in bytes")
	cmd.Flags().StringArrayVar(&flags.mounts, "mount", nil, "extra bind mount, host:guest (repeatable)")
	cmd.Flags().StringArrayVar(&flags.devices, "device", nil, "extra device node, name:major:minor (repeatable)")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "path to a launcher.toml defaults file")

	return cmd
}

func runRun(flags *runFlags, args []string) error {
	rootfs, command, commandArgs := args[0], args[1], args[2:]

	defaults, err := nsconfig.Load(flags.configPath)
	if err != nil {
		return err
	}

	b := launcher.NewBuilder().
		Rootfs(rootfs).
		Command(command, commandArgs...).
		AddDefaultMounts().
		AddDefaultDevices().
		LoadDefaults(defaults)

	if flags.stackSize > 0 {
		b = b.StackSize(flags.stackSize)
	}

	for _, spec := range flags.mounts {
		host, guest, err := splitPair(spec)
		if err != nil {
			return fmt.Errorf("--mount %q: %w", spec, err)
		}
		b = b.AddMount(host, guest)
	}

	for _, spec := range flags.devices {
		name, major, minor, err := splitDevice(spec)
		if err != nil {
			return fmt.Errorf("--device %q: %w", spec, err)
		}
		b = b.AddDevice(name, major, minor)
	}

	container := b.Build()

	if err := container.Run(); err != nil {
		return err
	}
	container.WaitForExit()

	return nil
}

func splitPair(s string) (string, string, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("expected host:guest")
	}
	return parts[0], parts[1], nil
}

func splitDevice(s string) (string, uint32, uint32, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("expected name:major:minor")
	}
	major, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return "", 0, 0, fmt.Errorf("major: %w", err)
	}
	minor, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return "", 0, 0, fmt.Errorf("minor: %w", err)
	}
	return parts[0], uint32(major), uint32(minor), nil
}
