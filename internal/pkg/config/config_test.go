package config

import (
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"
)

func TestLoadMissingPathIsEmptyDefaults(t *testing.T) {
	d, err := Load("")
	assert.NilError(t, err)
	assert.Equal(t, len(d.Mounts), 0)
	assert.Equal(t, len(d.Devices), 0)
}

func TestLoadNonexistentFileIsEmptyDefaults(t *testing.T) {
	dir := fs.NewDir(t, "nsrun-config-test")
	defer dir.Remove()

	d, err := Load(filepath.Join(dir.Path(), "does-not-exist.toml"))
	assert.NilError(t, err)
	assert.Equal(t, len(d.Mounts), 0)
}

func TestLoadParsesMountsAndDevices(t *testing.T) {
	const toml = `
[[mounts]]
source = "/opt/tools"
target = "opt/tools"

[[devices]]
name = "kvm"
major = 10
minor = 232
`
	dir := fs.NewDir(t, "nsrun-config-test", fs.WithFile("launcher.toml", toml))
	defer dir.Remove()

	d, err := Load(filepath.Join(dir.Path(), "launcher.toml"))
	assert.NilError(t, err)

	assert.Equal(t, len(d.Mounts), 1)
	assert.Equal(t, d.Mounts[0].Source, "/opt/tools")
	assert.Equal(t, d.Mounts[0].Target, "opt/tools")

	assert.Equal(t, len(d.Devices), 1)
	assert.Equal(t, d.Devices[0].Name, "kvm")
	assert.Equal(t, d.Devices[0].Major, uint32(10))
	assert.Equal(t, d.Devices[0].Minor, uint32(232))
}
