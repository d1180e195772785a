package override

import (
	"fmt"

	"github.com/PerAsperaMods/modkit/core/domain"
	"go.trai.ch/zerr"
)

// Apply runs the override for owner.method against the value the game just
// computed. result is updated only when an enabled override with value type T
// exists and its strategy returns normally. On a type mismatch, a disabled
// override, or a panicking strategy the original value stands; a broken
// override must never take the game down.
func Apply[T any](r *Registry, result *T, owner, method string, instance any) (applied bool) {
	key := domain.NewOverrideKey(owner, method)

	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	cfg, ok := e.(*Config[T])
	if !ok {
		r.typeMismatches.Add(1)
		r.log.Warn("override type mismatch: " + key.String())
		return false
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.failures.Add(1)
			err := zerr.With(zerr.New("override strategy panicked"), "override", key.String())
			r.log.Error(zerr.With(err, "panic", fmt.Sprintf("%v", rec)))
			applied = false
		}
	}()

	// Compute first, assign after: if the strategy panics, result is never
	// written.
	v, ok := cfg.apply(*result, instance)
	if !ok {
		return false
	}
	*result = v
	r.applied.Add(1)
	return true
}

// ApplyValue is the type-erased counterpart of Apply for hosts that hand
// getter results through reflection. It returns the value the getter should
// return and whether an override was applied.
func (r *Registry) ApplyValue(owner, method string, original, instance any) (value any, applied bool) {
	key := domain.NewOverrideKey(owner, method)

	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return original, false
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.failures.Add(1)
			err := zerr.With(zerr.New("override strategy panicked"), "override", key.String())
			r.log.Error(zerr.With(err, "panic", fmt.Sprintf("%v", rec)))
			value, applied = original, false
		}
	}()

	v, ok, err := e.applyAny(original, instance)
	if err != nil {
		r.typeMismatches.Add(1)
		r.log.Warn("override type mismatch: " + key.String())
		return original, false
	}
	if !ok {
		return original, false
	}
	r.applied.Add(1)
	return v, true
}
