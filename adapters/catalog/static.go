// Package catalog implements an in-process module catalog populated by the host.
package catalog

import (
	"sync"

	"github.com/PerAsperaMods/modkit/core/domain"
	"github.com/PerAsperaMods/modkit/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ModuleCatalog = (*Static)(nil)

// Static implements ports.ModuleCatalog over modules registered by the host.
// Registration order is the scan priority order: when several modules export
// a type with the same name, the module registered first wins.
type Static struct {
	mu      sync.RWMutex
	order   []string
	modules map[string]*moduleEntry
}

type moduleEntry struct {
	ref   domain.ModuleRef
	types []domain.TypeDescriptor
}

// NewStatic creates an empty catalog.
func NewStatic() *Static {
	return &Static{
		modules: make(map[string]*moduleEntry),
	}
}

// Add registers a module and its exported types. Registering a module name
// again replaces its types but keeps its original priority position. The
// module reference is stamped onto every descriptor so lookups report where
// a type came from.
func (c *Static) Add(ref domain.ModuleRef, types ...domain.TypeDescriptor) {
	stamped := make([]domain.TypeDescriptor, len(types))
	for i, t := range types {
		t.Module = ref
		stamped[i] = t
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.modules[ref.Name]; !ok {
		c.order = append(c.order, ref.Name)
	}
	c.modules[ref.Name] = &moduleEntry{ref: ref, types: stamped}
}

// Remove drops a module from the catalog. It returns false when the module
// was not registered.
func (c *Static) Remove(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.modules[name]; !ok {
		return false
	}
	delete(c.modules, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Modules returns the registered modules in priority order.
func (c *Static) Modules() []domain.ModuleRef {
	c.mu.RLock()
	defer c.mu.RUnlock()

	refs := make([]domain.ModuleRef, 0, len(c.order))
	for _, name := range c.order {
		refs = append(refs, c.modules[name].ref)
	}
	return refs
}

// ExportedTypes returns the exported types of the named module.
func (c *Static) ExportedTypes(module string) ([]domain.TypeDescriptor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.modules[module]
	if !ok {
		return nil, zerr.With(domain.ErrModuleUnknown, "module", module)
	}

	types := make([]domain.TypeDescriptor, len(entry.types))
	copy(types, entry.types)
	return types, nil
}

// LookupType returns the named type from a single module.
func (c *Static) LookupType(module, typeName string) (domain.TypeDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.modules[module]
	if !ok {
		return domain.TypeDescriptor{}, false
	}
	for _, t := range entry.types {
		if t.Matches(typeName) {
			return t, true
		}
	}
	return domain.TypeDescriptor{}, false
}
