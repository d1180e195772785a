// Package override implements the getter override registry and the fail-open
// dispatch that feeds replacement values into patched game getters.
package override

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/PerAsperaMods/modkit/core/domain"
	"github.com/PerAsperaMods/modkit/core/ports"
	"go.trai.ch/zerr"
)

// entry is the type-erased view the registry keeps of a Config[T].
type entry interface {
	Key() domain.OverrideKey
	Info() domain.OverrideInfo
	Enabled() bool
	SetEnabled(enabled bool)
	applyAny(original, instance any) (any, bool, error)
	attach(fn func(domain.ChangeKind))
	detach()
}

// Registry holds the active override per getter. Registration is last-wins:
// a second config for the same owner and method replaces the first, which
// stops receiving change notification.
type Registry struct {
	log ports.Logger

	mu      sync.RWMutex
	entries map[domain.OverrideKey]entry

	listenerMu   sync.Mutex
	listeners    map[int]func(domain.ChangeEvent)
	nextListener int

	registered     atomic.Uint64
	replaced       atomic.Uint64
	unregistered   atomic.Uint64
	applied        atomic.Uint64
	typeMismatches atomic.Uint64
	failures       atomic.Uint64
}

// New creates an empty registry.
func New(log ports.Logger) *Registry {
	return &Registry{
		log:       log,
		entries:   make(map[domain.OverrideKey]entry),
		listeners: make(map[int]func(domain.ChangeEvent)),
	}
}

// Register installs cfg as the active override for its key. A previously
// registered config for the same key is replaced and detached.
func Register[T any](r *Registry, cfg *Config[T]) {
	key := cfg.Key()

	r.mu.Lock()
	prev, replaced := r.entries[key]
	r.entries[key] = cfg
	r.mu.Unlock()

	if replaced {
		prev.detach()
		r.replaced.Add(1)
		r.log.Warn("override replaced: " + key.String())
	}

	cfg.attach(func(kind domain.ChangeKind) {
		r.emit(domain.ChangeEvent{Key: key, Kind: kind})
	})
	r.registered.Add(1)
	r.emit(domain.ChangeEvent{Key: key, Kind: domain.OverrideRegistered})
}

// Lookup returns the config registered for owner.method when its value type
// is exactly T. A config of a different value type reports false.
func Lookup[T any](r *Registry, owner, method string) (*Config[T], bool) {
	key := domain.NewOverrideKey(owner, method)

	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}

	cfg, ok := e.(*Config[T])
	if !ok {
		return nil, false
	}
	return cfg, true
}

// Unregister removes the override for owner.method. It reports whether an
// override was present.
func (r *Registry) Unregister(owner, method string) bool {
	key := domain.NewOverrideKey(owner, method)

	r.mu.Lock()
	e, ok := r.entries[key]
	if ok {
		delete(r.entries, key)
	}
	r.mu.Unlock()
	if !ok {
		return false
	}

	e.detach()
	r.unregistered.Add(1)
	r.emit(domain.ChangeEvent{Key: key, Kind: domain.OverrideUnregistered})
	return true
}

// SetEnabled toggles the override for owner.method. It reports whether an
// override was present.
func (r *Registry) SetEnabled(owner, method string, enabled bool) bool {
	key := domain.NewOverrideKey(owner, method)

	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	e.SetEnabled(enabled)
	return true
}

// Get returns a snapshot of the override for owner.method.
func (r *Registry) Get(owner, method string) (domain.OverrideInfo, bool) {
	key := domain.NewOverrideKey(owner, method)

	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return domain.OverrideInfo{}, false
	}
	return e.Info(), true
}

// List returns snapshots of all registered overrides, ordered by key.
func (r *Registry) List() []domain.OverrideInfo {
	r.mu.RLock()
	infos := make([]domain.OverrideInfo, 0, len(r.entries))
	for _, e := range r.entries {
		infos = append(infos, e.Info())
	}
	r.mu.RUnlock()

	slices.SortFunc(infos, func(a, b domain.OverrideInfo) int {
		return cmp.Compare(a.Key.String(), b.Key.String())
	})
	return infos
}

// Watch registers a change listener and returns its cancel function. The
// listener observes registrations, removals, value changes, and toggles.
func (r *Registry) Watch(fn func(domain.ChangeEvent)) (cancel func()) {
	r.listenerMu.Lock()
	id := r.nextListener
	r.nextListener++
	r.listeners[id] = fn
	r.listenerMu.Unlock()

	return func() {
		r.listenerMu.Lock()
		delete(r.listeners, id)
		r.listenerMu.Unlock()
	}
}

// Stats returns a snapshot of the registry counters.
func (r *Registry) Stats() domain.RegistryStats {
	r.mu.RLock()
	active := len(r.entries)
	r.mu.RUnlock()

	r.listenerMu.Lock()
	listeners := len(r.listeners)
	r.listenerMu.Unlock()

	return domain.RegistryStats{
		Active:         active,
		Listeners:      listeners,
		Registered:     r.registered.Load(),
		Replaced:       r.replaced.Load(),
		Unregistered:   r.unregistered.Load(),
		Applied:        r.applied.Load(),
		TypeMismatches: r.typeMismatches.Load(),
		Failures:       r.failures.Load(),
	}
}

// emit fans an event out to all listeners. Listeners run outside the
// registry locks; a panicking listener is logged and does not stop the rest.
func (r *Registry) emit(ev domain.ChangeEvent) {
	r.listenerMu.Lock()
	fns := make([]func(domain.ChangeEvent), 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.listenerMu.Unlock()

	for _, fn := range fns {
		r.invokeListener(fn, ev)
	}
}

func (r *Registry) invokeListener(fn func(domain.ChangeEvent), ev domain.ChangeEvent) {
	defer func() {
		if rec := recover(); rec != nil {
			err := zerr.With(zerr.New("change listener panicked"), "event", ev.Key.String())
			r.log.Error(zerr.With(err, "panic", fmt.Sprintf("%v", rec)))
		}
	}()
	fn(ev)
}
