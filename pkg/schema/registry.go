package schema

import (
	"fmt"
	"sync"
)

// FragmentRegistry collects table-definition fragments from the core schema
// and from plugins. Contributors register under a unique source name; the
// snapshot is fed to Assemble.
type FragmentRegistry struct {
	mu      sync.RWMutex
	sources map[string][]Fragment
	order   []string
}

var (
	defaultRegistry     *FragmentRegistry
	defaultRegistryOnce sync.Once
)

// GetRegistry returns the singleton fragment registry
func GetRegistry() *FragmentRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewFragmentRegistry()
	})
	return defaultRegistry
}

// NewFragmentRegistry creates an empty registry
func NewFragmentRegistry() *FragmentRegistry {
	return &FragmentRegistry{sources: make(map[string][]Fragment)}
}

// Register stores the fragments contributed by a source. Registering the
// same source twice is an error; plugins re-registering must Unregister
// first.
func (r *FragmentRegistry) Register(source string, fragments ...Fragment) error {
	if source == "" {
		return fmt.Errorf("fragment source name cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[source]; exists {
		return fmt.Errorf("fragment source '%s' is already registered", source)
	}

	tagged := make([]Fragment, len(fragments))
	for i, frag := range fragments {
		frag.Source = source
		tagged[i] = frag
	}
	r.sources[source] = tagged
	r.order = append(r.order, source)
	return nil
}

// Unregister removes a source's contributions
func (r *FragmentRegistry) Unregister(source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sources[source]; !exists {
		return
	}
	delete(r.sources, source)
	for i, name := range r.order {
		if name == source {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// List returns the registered source names in registration order
func (r *FragmentRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Snapshot returns all registered fragments in registration order, so
// later registrations win field collisions during assembly
func (r *FragmentRegistry) Snapshot() []Fragment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Fragment
	for _, source := range r.order {
		out = append(out, r.sources[source]...)
	}
	return out
}
