package launcher

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/nsrun/nsrun/internal/pkg/nsrunerr"
)

// Setup runs the ordered namespace bring-up and root pivot sequence
// inside the child, before the target program is exec'd. Each step's
// precondition is the postcondition of the one before it; the order
// below must never change:
//
//  1. private-recursive remount of "/", so no mount event below it can
//     propagate to the host once namespaces are unshared.
//  2. self-bind of the rootfs, so pivot_root sees it as a mount point
//     distinct from the current root.
//  3. the configured mount list, in declaration order.
//  4. device node and /dev symlink creation.
//  5. pivot_root(rootfs, rootfs) — the same-path idiom, stacking the old
//     root onto the new one instead of a temporary put_old directory.
//  6. slave-recursive remount of the new "/", so the old root's detach
//     below cannot propagate outward.
//  7. detach-unmount of the stacked old root.
//
// chdir("/") and the final execve are the caller's responsibility (child
// wrapper), not this function's.
func Setup(cfg Config) error {
	if err := remountRootPrivate(); err != nil {
		return err
	}

	rootfs := cfg.Rootfs.Source
	if err := bindRootfsSelf(rootfs); err != nil {
		return err
	}

	for _, m := range cfg.Mounts {
		if err := m.Realize(rootfs); err != nil {
			return err
		}
	}

	for _, d := range cfg.Devices {
		if err := d.Create(rootfs); err != nil {
			return err
		}
	}
	if err := CreateDevSymlinks(rootfs); err != nil {
		return err
	}

	if err := pivotRoot(rootfs); err != nil {
		return err
	}

	if err := slaveRemountRoot(); err != nil {
		return err
	}

	return detachUnmountOldRoot()
}

// remountRootPrivate is step 1.
func remountRootPrivate() error {
	if err := unix.Mount("", "/", "", unix.MS_REC|unix.MS_PRIVATE, ""); err != nil {
		return nsrunerr.SysCallFailed("mount(/ private)", err)
	}
	return nil
}

// bindRootfsSelf is step 2.
func bindRootfsSelf(rootfs string) error {
	if err := unix.Mount(rootfs, rootfs, "", unix.MS_BIND|unix.MS_PRIVATE, ""); err != nil {
		return nsrunerr.SysCallFailed("mount(bind rootfs)", err)
	}
	return nil
}

// pivotRoot is step 5: new_root and put_old are the same path, stacking
// the old root on top of the new one so no temporary directory is needed
// inside the guest rootfs.
func pivotRoot(rootfs string) error {
	if err := unix.PivotRoot(rootfs, rootfs); err != nil {
		return nsrunerr.SysCallFailed("pivot_root", err)
	}
	return nil
}

// slaveRemountRoot is step 6.
func slaveRemountRoot() error {
	if err := unix.Mount("", "/", "", unix.MS_SLAVE|unix.MS_REC, ""); err != nil {
		return nsrunerr.SysCallFailed("mount(/ slave)", err)
	}
	return nil
}

// detachUnmountOldRoot is step 7: after the pivot the old root is stacked
// at "/" inside the new mount namespace; detaching it exposes the new
// rootfs as "/".
func detachUnmountOldRoot() error {
	if err := unix.Unmount("/", unix.MNT_DETACH); err != nil {
		return nsrunerr.SysCallFailed("umount2", err)
	}
	return nil
}

// ChdirRoot performs step 8.
func ChdirRoot() error {
	if err := os.Chdir("/"); err != nil {
		return nsrunerr.SysCallFailed("chdir", err)
	}
	return nil
}

// Exec performs step 9: argv[0] is duplicated from the command path.
// Returning means launch failure.
func Exec(command string, args []string) error {
	argv := append([]string{command}, args...)
	if err := unix.Exec(command, argv, os.Environ()); err != nil {
		return nsrunerr.SysCallFailed("execve", err)
	}
	return nil
}
