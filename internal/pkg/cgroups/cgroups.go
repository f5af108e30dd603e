// Package cgroups marks the seam where cgroup limit application would
// plug in: a GetManager constructor shaped the way a real cgroup
// backend's would be, without implementing one. Cgroup quota
// enforcement is an explicit non-goal of this launcher.
package cgroups

import "fmt"

// Manager is the seam a real cgroup backend would implement.
type Manager interface {
	Apply(pid int) error
}

// NotImplementedError is returned by every constructor in this package.
type NotImplementedError struct {
	Group string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("cgroups: limit application for group %q is not implemented", e.Group)
}

// GetManager always fails: no cgroup manager is implemented. A caller
// that wants resource limits wires a real manager in here.
func GetManager(group string) (Manager, error) {
	return nil, &NotImplementedError{Group: group}
}
