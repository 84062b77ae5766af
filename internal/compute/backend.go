package compute

import (
	"fmt"
	"sort"
)

// Backend runs row-parallel work over the environment dimension of a
// buffer. fn receives half-open [start, end) row ranges that never overlap.
type Backend interface {
	Name() string
	Available() bool
	Rows(n int, fn func(start, end int))
	Cleanup()
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

func AutoSelectBackend() Backend {
	return NewCPUBackend()
}

var factories = map[string]func() Backend{
	"cpu":    func() Backend { return NewCPUBackend() },
	"serial": func() Backend { return NewSerialBackend() },
}

// ByName resolves a device string. An empty name selects the active backend.
func ByName(name string) (Backend, error) {
	if name == "" {
		return GetBackend(), nil
	}
	fn, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown compute backend: %s (available: %v)", name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
