package job

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"pcbooth/internal/errs"
)

// Factory constructs one job instance bound to its runtime.
type Factory func(rt *Runtime) Job

// Registration ties a job name to its parameter schema and factory.
type Registration struct {
	Name   string
	Schema Schema
	New    Factory
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Registration)
)

// Register adds a job implementation under an upper-cased name. Concrete
// jobs call it from their package init; registering the same name twice is a
// programmer error and panics.
func Register(name string, schema Schema, factory Factory) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" {
		panic("job: register with empty name")
	}
	if factory == nil {
		panic(fmt.Sprintf("job: register %s with nil factory", key))
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[key]; exists {
		panic(fmt.Sprintf("job: %s registered twice", key))
	}
	registry[key] = &Registration{Name: key, Schema: schema, New: factory}
}

// Discover resolves a configured job name, case-insensitively, to its
// registration. Unregistered names fail with an UnknownJob error.
func Discover(name string) (*Registration, error) {
	key := strings.ToUpper(strings.TrimSpace(name))

	registryMu.RLock()
	defer registryMu.RUnlock()
	reg, ok := registry[key]
	if !ok {
		return nil, errs.Wrap(errs.ErrUnknownJob, key, "discover",
			fmt.Sprintf("no implementation registered (available: %s)", strings.Join(registeredNamesLocked(), ", ")), nil)
	}
	return reg, nil
}

// Registered returns every registration sorted by name.
func Registered() []*Registration {
	registryMu.RLock()
	defer registryMu.RUnlock()
	regs := make([]*Registration, 0, len(registry))
	for _, reg := range registry {
		regs = append(regs, reg)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].Name < regs[j].Name })
	return regs
}

func registeredNamesLocked() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
