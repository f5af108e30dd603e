package launcher

import (
	"errors"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"

	"github.com/nsrun/nsrun/internal/pkg/nsrunerr"
)

func TestValidateMissingRootfs(t *testing.T) {
	cfg := &Config{Command: "/bin/true"}
	err := cfg.Validate()
	assert.ErrorContains(t, err, "rootfs")

	var missing *nsrunerr.MissingRequiredConfigurationError
	assert.Assert(t, errors.As(err, &missing))
	assert.Equal(t, missing.Field, "rootfs")
}

func TestValidateRootfsNotADirectory(t *testing.T) {
	dir := fs.NewDir(t, "nsrun-test")
	defer dir.Remove()
	notADir := filepath.Join(dir.Path(), "does-not-exist")

	cfg := &Config{Rootfs: RootfsMount(notADir), Command: "/bin/true"}
	err := cfg.Validate()
	assert.ErrorContains(t, err, "does not exist or is not a directory")

	var invalid *nsrunerr.InvalidConfigurationError
	assert.Assert(t, errors.As(err, &invalid))
}

func TestValidateMissingCommand(t *testing.T) {
	dir := fs.NewDir(t, "nsrun-test")
	defer dir.Remove()

	cfg := &Config{Rootfs: RootfsMount(dir.Path())}
	err := cfg.Validate()
	assert.ErrorContains(t, err, "command")
}

func TestValidateOK(t *testing.T) {
	dir := fs.NewDir(t, "nsrun-test")
	defer dir.Remove()

	cfg := &Config{Rootfs: RootfsMount(dir.Path()), Command: "/bin/true"}
	assert.NilError(t, cfg.Validate())
}
