package launcher

import (
	"bytes"
	"encoding/json"
	"io"
)

// wireMount and wireDevice are the JSON wire shapes sent to the child over
// the bootstrap pipe; MountFlag round-trips as a plain uintptr.
type wireMount struct {
	Source         string
	RelativeTarget string
	FSType         string
	Flags          uintptr
	Data           string
}

type wireDevice struct {
	Name  string
	Major uint32
	Minor uint32
}

type wireConfig struct {
	Rootfs  wireMount
	Command string
	Args    []string
	Mounts  []wireMount
	Devices []wireDevice
}

func toWire(c Config) wireConfig {
	w := wireConfig{
		Rootfs:  mountToWire(c.Rootfs),
		Command: c.Command,
		Args:    c.Args,
	}
	for _, m := range c.Mounts {
		w.Mounts = append(w.Mounts, mountToWire(m))
	}
	for _, d := range c.Devices {
		w.Devices = append(w.Devices, wireDevice{Name: d.Name, Major: d.Major, Minor: d.Minor})
	}
	return w
}

func mountToWire(m MountSpec) wireMount {
	return wireMount{
		Source:         m.Source,
		RelativeTarget: m.RelativeTarget,
		FSType:         m.FSType,
		Flags:          uintptr(m.Flags),
		Data:           m.Data,
	}
}

func fromWire(w wireConfig) Config {
	c := Config{
		Rootfs:  wireToMount(w.Rootfs),
		Command: w.Command,
		Args:    w.Args,
	}
	for _, m := range w.Mounts {
		c.Mounts = append(c.Mounts, wireToMount(m))
	}
	for _, d := range w.Devices {
		c.Devices = append(c.Devices, DeviceNode{Name: d.Name, Major: d.Major, Minor: d.Minor})
	}
	return c
}

func wireToMount(w wireMount) MountSpec {
	return MountSpec{
		Source:         w.Source,
		RelativeTarget: w.RelativeTarget,
		FSType:         w.FSType,
		Flags:          MountFlag(w.Flags),
		Data:           w.Data,
	}
}

// EncodeBootstrap serialises cfg for the child. The returned buffer is
// preallocated to cfg.StackSize bytes of capacity: a parent-owned
// scratch region, sized before spawn, handed to the child across the
// bootstrap pipe. It grows past that capacity rather than truncating if
// the encoded config is larger; StackSize is a sizing hint, not a hard
// ceiling on configuration size.
func EncodeBootstrap(cfg Config) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, cfg.StackSize))
	enc := json.NewEncoder(buf)
	if err := enc.Encode(toWire(cfg)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeBootstrap reads and decodes a Config from the child's end of the
// bootstrap pipe.
func DecodeBootstrap(r io.Reader) (Config, error) {
	var w wireConfig
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return Config{}, err
	}
	return fromWire(w), nil
}
