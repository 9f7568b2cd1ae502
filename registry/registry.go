//go:generate go run go.uber.org/mock/mockgen -source=registry.go -destination=../mocks/mock_registry.go -package=mocks
package registry

import (
	"fmt"
	"sync"

	"parent-portal/errors"
)

// Instance is one live network endpoint for a logical service.
type Instance struct {
	Addr string // host:port
}

func (i Instance) BaseURL() string {
	return fmt.Sprintf("http://%s", i.Addr)
}

type Resolver interface {
	Resolve(name string) (Instance, error)
}

// Registry maps logical service names to live endpoints. Callers address
// services by name only; Resolve picks one endpoint per call using a
// round-robin over the currently registered instances.
type Registry struct {
	mu        sync.RWMutex
	instances map[string][]Instance
	next      map[string]int
}

func NewRegistry() *Registry {
	return &Registry{
		instances: make(map[string][]Instance),
		next:      make(map[string]int),
	}
}

// Register adds an endpoint for a logical name. Registering the same
// address twice is a no-op.
func (r *Registry) Register(name string, inst Instance) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.instances[name] {
		if existing.Addr == inst.Addr {
			return
		}
	}
	r.instances[name] = append(r.instances[name], inst)
}

// Deregister removes an endpoint. The name entry disappears entirely when
// its last instance goes, so Resolve fails fast instead of cycling an
// empty slice.
func (r *Registry) Deregister(name string, inst Instance) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.instances[name][:0]
	for _, existing := range r.instances[name] {
		if existing.Addr != inst.Addr {
			kept = append(kept, existing)
		}
	}
	if len(kept) == 0 {
		delete(r.instances, name)
		delete(r.next, name)
		return
	}
	r.instances[name] = kept
}

// Resolve returns one live endpoint for the logical name, rotating over
// the registered instances. Fails with ErrNoHealthyInstance when the
// registry has no live entry for the name.
func (r *Registry) Resolve(name string) (Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	live := r.instances[name]
	if len(live) == 0 {
		return Instance{}, fmt.Errorf("%w: %s", errors.ErrNoHealthyInstance, name)
	}
	inst := live[r.next[name]%len(live)]
	r.next[name]++
	return inst, nil
}

// Names lists the currently registered logical names, for diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.instances))
	for name := range r.instances {
		names = append(names, name)
	}
	return names
}
