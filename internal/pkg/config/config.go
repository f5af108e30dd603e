// Package config loads the optional launcher.toml defaults file: extra
// bind mounts and device nodes an operator wants applied to every
// container without repeating them on every invocation. Explicit
// Builder calls still take precedence, the same way an explicit
// --stack-size beats the rlimit-derived default.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Mount is one [[mounts]] table entry in launcher.toml.
type Mount struct {
	Source string `toml:"source"`
	Target string `toml:"target"`
}

// Device is one [[devices]] table entry in launcher.toml.
type Device struct {
	Name  string `toml:"name"`
	Major uint32 `toml:"major"`
	Minor uint32 `toml:"minor"`
}

// Defaults is the parsed shape of launcher.toml.
type Defaults struct {
	Mounts  []Mount  `toml:"mounts"`
	Devices []Device `toml:"devices"`
}

// Load reads and parses a launcher.toml-shaped file. A missing path is not
// an error: it yields empty Defaults, so --config is always optional.
func Load(path string) (*Defaults, error) {
	if path == "" {
		return &Defaults{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Defaults{}, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var d Defaults
	if err := toml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &d, nil
}
