package scheme

import (
	"fmt"
	"sync"
)

// Registry holds the active catalog and swaps it on Reload.
type Registry struct {
	loader *Loader

	mu      sync.RWMutex
	current *Catalog
}

var _ Lookup = (*Registry)(nil)

// NewRegistry loads the initial catalog; it fails if that catalog is invalid.
func NewRegistry(loader *Loader) (*Registry, error) {
	r := &Registry{loader: loader}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the catalog from disk. An invalid catalog is rejected and the
// previous one stays active.
func (r *Registry) Reload() error {
	r.loader.Invalidate()
	raw, err := r.loader.LoadMerged()
	if err != nil {
		return err
	}
	cat, err := NewCatalog(raw)
	if err != nil {
		return fmt.Errorf("reload catalog: %w", err)
	}
	r.mu.Lock()
	r.current = cat
	r.mu.Unlock()
	return nil
}

// Catalog returns the active catalog.
func (r *Registry) Catalog() *Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

func (r *Registry) Offense(name string) (Offense, bool) {
	return r.Catalog().Offense(name)
}

func (r *Registry) Defense(name string) (Defense, bool) {
	return r.Catalog().Defense(name)
}
